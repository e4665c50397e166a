package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// settingsFlags holds the settings set flags.
type settingsFlags struct {
	defaultSound   string
	defaultVibrate bool
	snoozeMinutes  int
	volumeLevel    float64
	use24Hour      bool
}

// patch builds a settings patch from the flags that were set.
func (f *settingsFlags) patch(cmd *cobra.Command) (alarm.SettingsPatch, error) {
	var (
		flags = cmd.Flags()
		patch alarm.SettingsPatch
	)

	if flags.Changed("default-sound") {
		patch.DefaultSound = &f.defaultSound
	}

	if flags.Changed("default-vibrate") {
		patch.DefaultVibrate = &f.defaultVibrate
	}

	if flags.Changed("snooze") {
		patch.SnoozeMinutes = &f.snoozeMinutes
	}

	if flags.Changed("volume") {
		patch.VolumeLevel = &f.volumeLevel
	}

	if flags.Changed("24h") {
		patch.Use24HourFormat = &f.use24Hour
	}

	if patch == (alarm.SettingsPatch{}) {
		return patch, errNoChanges
	}

	return patch, nil
}

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the alarm settings.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				settings, err := client.GetSettings(ctx)
				if err != nil {
					return err
				}

				printSettings(cmd.OutOrStdout(), settings)

				return nil
			})
		},
	})

	flags := new(settingsFlags)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings. Only the given flags are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				settings, err := client.UpdateSettings(ctx, patch)
				if err != nil {
					return err
				}

				printSettings(cmd.OutOrStdout(), settings)

				return nil
			})
		},
	}

	set.Flags().StringVar(&flags.defaultSound, "default-sound", "", "sound pre-filled into new alarms")
	set.Flags().BoolVar(&flags.defaultVibrate, "default-vibrate", true, "vibrate flag pre-filled into new alarms")
	set.Flags().IntVar(&flags.snoozeMinutes, "snooze", 0, "snooze duration in minutes")
	set.Flags().Float64Var(&flags.volumeLevel, "volume", 0, "alert volume between 0 and 1")
	set.Flags().BoolVar(&flags.use24Hour, "24h", true, "show times in 24-hour format")

	cmd.AddCommand(set)

	return cmd
}

func newPermissionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "permission",
		Short: "Ask the daemon whether it may show notifications.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				granted, err := client.RequestPermission(ctx)
				if err != nil {
					return err
				}

				answer := "denied"
				if granted {
					answer = "granted"
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Notification permission %s.\n", answer)

				return err
			})
		},
	}
}

func newExportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export alarms as a JSON backup or an iCalendar file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				data, err := client.Export(ctx, format)
				if err != nil {
					return err
				}

				if output == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}

				if err = os.WriteFile(filepath.Clean(output), data, config.DefaultFilePermissions); err != nil {
					return fmt.Errorf("write export: %w", err)
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s.\n", output)

				return err
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json or ics")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")

	return cmd
}
