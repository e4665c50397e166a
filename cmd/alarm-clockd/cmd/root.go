package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/service/server"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// grpcAddress overrides the configured gRPC listen address.
	grpcAddress string
	// httpAddress overrides the configured HTTP listen address.
	httpAddress string

	// rootCmd represents the base command for running the daemon.
	rootCmd = &cobra.Command{
		Use:   "alarm-clockd",
		Short: "Run the alarm clock daemon.",
		Long: `Starts the alarm clock daemon that owns the alarm registry and fires alarms.

Alarms and settings are restored from the configured storage on start-up and
every active alarm gets its next trigger registered again. When an alarm fires
the configured notification command is run, recurring alarms are rescheduled
and one-time alarms are deactivated.

The registry is served over gRPC and, when an HTTP address is configured,
over a JSON REST API as well. Only one daemon may run on a machine.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return server.Run(ctx, &server.Options{
				ConfigPath:  configPath,
				GRPCAddress: grpcAddress,
				HTTPAddress: httpAddress,
			})
		},
	}
)

// Execute runs the alarm-clockd CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&grpcAddress, "grpc-addr", "", "gRPC listen address, overrides the configuration")
	rootCmd.Flags().StringVar(&httpAddress, "http-addr", "", "HTTP listen address, overrides the configuration")
}
