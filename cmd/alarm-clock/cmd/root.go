package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/common"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the configured daemon address.
	serverAddress string
	// verbose enables informational logs.
	verbose bool

	// rootCmd represents the base command of the alarm clock CLI.
	rootCmd = &cobra.Command{
		Use:   "alarm-clock",
		Short: "Manage alarms of the alarm clock daemon.",
		Long: `Creates, edits and inspects alarms kept by a running alarm-clockd daemon.

The daemon address is taken from the configuration file unless --addr is given.
Every request carries the local hostname and username so the daemon can log
who changed an alarm.`,
		SilenceUsage: true,
	}
)

// Execute runs the alarm-clock CLI and exits with non-zero status on error.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "addr", "a", "", "daemon gRPC address, overrides the configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log informational messages")

	rootCmd.AddCommand(
		newListCommand(),
		newGetCommand(),
		newNextCommand(),
		newCreateCommand(),
		newUpdateCommand(),
		newDeleteCommand(),
		newToggleCommand(),
		newFireCommand(),
		newSettingsCommand(),
		newPermissionCommand(),
		newExportCommand(),
		newStatsCommand(),
		newWatchCommand(),
	)
}

// withClient dials the daemon and passes the client to fn.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client *common.Client) error) error {
	ctx := logger.WithName(cmd.Context(), "alarm-clock")
	if !verbose {
		// Keep stdout for command output; only problems are logged.
		ctx = logger.WithMinLevel(ctx, zapcore.WarnLevel)
	}

	settings, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	address := settings.GRPCAddress
	if serverAddress != "" {
		address = serverAddress
	}

	actor, err := common.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect the caller identity", "error", err)
	}

	client, err := common.Dial(ctx, address,
		common.WithActor(actor),
		common.WithCallTimeout(settings.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to close the daemon connection", "error", closeErr)
		}
	}()

	return fn(ctx, client)
}
