package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/schedule"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// upcomingCount is how many occurrences `get` prints.
const upcomingCount = 5

// errNoChanges is returned by update when no field flag is given.
var errNoChanges = errors.New("nothing to update: pass at least one field flag")

// alarmFlags holds the field flags shared by create and update.
type alarmFlags struct {
	title    string
	at       string
	repeat   string
	days     string
	sound    string
	vibrate  bool
	active   bool
	inactive bool
}

// bind registers the field flags on cmd.
func (f *alarmFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.title, "title", "t", "", "alarm title")
	flags.StringVar(&f.at, "time", "", "time of day, HH:MM (24-hour)")
	flags.StringVarP(&f.repeat, "repeat", "r", string(alarm.RepeatOnce),
		"repeat policy: once, daily, weekdays, weekends or custom")
	flags.StringVar(&f.days, "days", "", "custom repeat days, e.g. mon,wed,fri or 1,3,5")
	flags.StringVar(&f.sound, "sound", "", "alert sound, \"none\" disables it")
	flags.BoolVar(&f.vibrate, "vibrate", false, "vibrate while ringing")
}

// draft builds a new alarm from the flags.
func (f *alarmFlags) draft(cmd *cobra.Command) (alarm.Draft, error) {
	at, err := alarm.ParseTimeOfDay(f.at)
	if err != nil {
		return alarm.Draft{}, err
	}

	repeat, err := alarm.ParseRepeatType(f.repeat)
	if err != nil {
		return alarm.Draft{}, err
	}

	days, err := parseDays(f.days)
	if err != nil {
		return alarm.Draft{}, err
	}

	draft := alarm.Draft{
		Title:      f.title,
		Time:       at,
		IsActive:   !f.inactive,
		RepeatType: repeat,
		RepeatDays: days,
		Sound:      f.sound,
	}

	if cmd.Flags().Changed("vibrate") {
		draft.Vibrate = &f.vibrate
	}

	return draft, nil
}

// patch builds a partial update from the flags that were set.
func (f *alarmFlags) patch(cmd *cobra.Command) (alarm.Patch, error) {
	var (
		flags = cmd.Flags()
		patch alarm.Patch
	)

	if flags.Changed("title") {
		patch.Title = &f.title
	}

	if flags.Changed("time") {
		at, err := alarm.ParseTimeOfDay(f.at)
		if err != nil {
			return alarm.Patch{}, err
		}

		patch.Time = &at
	}

	if flags.Changed("repeat") {
		repeat, err := alarm.ParseRepeatType(f.repeat)
		if err != nil {
			return alarm.Patch{}, err
		}

		patch.RepeatType = &repeat
	}

	if flags.Changed("days") {
		days, err := parseDays(f.days)
		if err != nil {
			return alarm.Patch{}, err
		}

		patch.RepeatDays = &days
	}

	if flags.Changed("sound") {
		patch.Sound = &f.sound
	}

	if flags.Changed("vibrate") {
		patch.Vibrate = &f.vibrate
	}

	if flags.Changed("active") {
		patch.IsActive = &f.active
	}

	if patch.IsEmpty() {
		return alarm.Patch{}, errNoChanges
	}

	return patch, nil
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every alarm.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				alarms, err := client.ListAlarms(ctx)
				if err != nil {
					return err
				}

				settings, err := client.GetSettings(ctx)
				if err != nil {
					return err
				}

				return printAlarms(cmd.OutOrStdout(), alarms, settings.Use24HourFormat)
			})
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an alarm and its upcoming occurrences.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				found, err := client.GetAlarm(ctx, args[0])
				if err != nil {
					return err
				}

				settings, err := client.GetSettings(ctx)
				if err != nil {
					return err
				}

				upcoming, err := schedule.Upcoming(found.Time, found.RepeatType, found.RepeatDays, time.Now(), upcomingCount)
				if err != nil {
					return err
				}

				printAlarm(cmd.OutOrStdout(), found, upcoming, settings.Use24HourFormat)

				return nil
			})
		},
	}
}

func newNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the alarm that rings next.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				next, err := client.GetNextAlarm(ctx)
				if err != nil {
					return err
				}

				if next == nil {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "No upcoming alarm.")
					return err
				}

				printAlarm(cmd.OutOrStdout(), next, nil, true)

				return nil
			})
		},
	}
}

func newCreateCommand() *cobra.Command {
	flags := new(alarmFlags)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an alarm.",
		Example: `  alarm-clock create --time 07:00 --repeat weekdays --title Work
  alarm-clock create --time 09:30 --repeat custom --days sat,sun`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft, err := flags.draft(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				created, err := client.CreateAlarm(ctx, draft)
				if err != nil {
					return err
				}

				printAlarm(cmd.OutOrStdout(), created, nil, true)

				return nil
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&flags.inactive, "inactive", false, "create the alarm switched off")

	if err := cmd.MarkFlagRequired("time"); err != nil {
		panic(err)
	}

	return cmd
}

func newUpdateCommand() *cobra.Command {
	flags := new(alarmFlags)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an alarm. Only the given flags are applied.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				updated, err := client.UpdateAlarm(ctx, args[0], patch)
				if err != nil {
					return err
				}

				printAlarm(cmd.OutOrStdout(), updated, nil, true)

				return nil
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&flags.active, "active", true, "switch the alarm on or off")

	return cmd
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				deleted, err := client.DeleteAlarm(ctx, args[0])
				if err != nil {
					return err
				}

				if !deleted {
					return fmt.Errorf("alarm %q not found", args[0])
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Alarm %s deleted.\n", args[0])

				return err
			})
		},
	}
}

func newToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch an alarm on or off.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				active, err := client.ToggleAlarm(ctx, args[0])
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Alarm %s is %s.\n", args[0], statusLabel(active))

				return err
			})
		},
	}
}

func newFireCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fire <id>",
		Short: "Handle an alarm as if its trigger fired now.",
		Long: `Runs the fire handling of an alarm immediately: a recurring alarm gets its
next occurrence scheduled and a one-time alarm is switched off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				return client.FireAlarm(ctx, args[0])
			})
		},
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show alarm counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				stats, err := client.Stats(ctx)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Total: %d, active: %d\n", stats.Total, stats.Active)

				return err
			})
		},
	}
}
