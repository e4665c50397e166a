package server

import (
	"context"
	"fmt"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Options controls the alarm-clockd process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// GRPCAddress overrides the configured gRPC listen address.
	GRPCAddress string
	// HTTPAddress overrides the configured HTTP listen address.
	HTTPAddress string
}

// Run loads the configuration, starts the daemon and blocks until the
// context is canceled or a server stops.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-clockd")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Command line flags override the file and the environment.
	if opts.GRPCAddress != "" {
		settings.GRPCAddress = opts.GRPCAddress
	}

	if opts.HTTPAddress != "" {
		settings.HTTPAddress = opts.HTTPAddress
	}

	if err = config.Validate(settings); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	if err = logger.Configure(settings.LogLevel); err != nil {
		return err
	}

	if err = ensureSingleInstance(ctx); err != nil {
		return err
	}

	daemon, err := New(ctx, settings)
	if err != nil {
		return err
	}

	return daemon.Serve(ctx)
}
