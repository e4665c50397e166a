package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/service/common"
	"github.com/oshokin/alarm-clock/internal/service/watcher"
)

func newWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the next alarm every time it changes.",
		Long: `Polls the daemon for the alarm that rings next and prints a line whenever
it changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *common.Client) error {
				settings, err := client.GetSettings(ctx)
				if err != nil {
					return err
				}

				layout := layout12Hour
				if settings.Use24HourFormat {
					layout = layout24Hour
				}

				return watcher.Run(ctx, client, &watcher.Options{
					PollInterval: interval,
					Output:       cmd.OutOrStdout(),
					Layout:       layout,
				})
			})
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", watcher.DefaultPollInterval, "polling interval")

	return cmd
}
