package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	grpcapi "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	httpapi "github.com/oshokin/alarm-clock/internal/api/http/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
	"github.com/oshokin/alarm-clock/internal/repository/records"
	"github.com/oshokin/alarm-clock/internal/service/registry"
	"github.com/oshokin/alarm-clock/internal/trigger"
	"github.com/oshokin/alarm-clock/internal/trigger/ring"
	"github.com/oshokin/alarm-clock/internal/version"
)

// Daemon owns the registry, its trigger service and the API listeners.
type Daemon struct {
	// settings is the validated configuration.
	settings *config.Config
	// registry owns alarms and settings.
	registry *registry.Registry
	// triggers fires alarms in process.
	triggers *trigger.Local
	// closeStore releases the storage backend.
	closeStore func() error
	// grpcListener accepts gRPC connections.
	grpcListener net.Listener
	// grpcServer serves the alarm clock service.
	grpcServer *grpc.Server
	// httpListener accepts HTTP connections, nil when HTTP is disabled.
	httpListener net.Listener
	// httpServer serves the REST API, nil when HTTP is disabled.
	httpServer *http.Server
}

// New opens storage, restores the registry and binds the listeners.
// Serve must be called to start accepting requests.
func New(ctx context.Context, settings *config.Config) (*Daemon, error) {
	store, closeStore, err := kv.Open(ctx, kv.Options{
		Driver: settings.Storage.Driver,
		Path:   settings.Storage.Path,
		DSN:    settings.Storage.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	d := &Daemon{
		settings:   settings,
		closeStore: closeStore,
	}

	if err = d.init(ctx, store); err != nil {
		d.close(ctx)

		return nil, err
	}

	return d, nil
}

// init wires the trigger service, the registry and both transports.
func (d *Daemon) init(ctx context.Context, store kv.Store) error {
	notifier, err := ring.New(d.settings.Notifications.Command)
	if err != nil {
		// Alarms are still tracked without a desktop notification.
		logger.WarnKV(ctx, "Notification command unavailable", "error", err)
	}

	localOptions := []trigger.LocalOption{
		trigger.WithPermission(d.settings.Notifications.Permission != config.PermissionDenied),
	}

	if notifier != nil {
		localOptions = append(localOptions, trigger.WithRinger(notifier))
	}

	d.triggers = trigger.NewLocal(ctx, localOptions...)
	d.registry = registry.New(records.New(store), d.triggers, registry.WithPermissions(d.triggers))

	d.triggers.SetFireHandler(func(ctx context.Context, alarmID string) {
		if err := d.registry.TriggerAlarm(ctx, alarmID); err != nil {
			logger.WarnKV(ctx, "Fired alarm is no longer known", "alarm_id", alarmID, "error", err)
		}
	})

	if err = d.registry.Init(ctx); err != nil {
		return fmt.Errorf("restore alarms: %w", err)
	}

	lc := net.ListenConfig{}

	d.grpcListener, err = lc.Listen(ctx, "tcp", d.settings.GRPCAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.settings.GRPCAddress, err)
	}

	d.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(grpcapi.LoggingInterceptor(ctx)))
	grpcapi.RegisterAlarmClockServer(d.grpcServer, grpcapi.NewServer(d.registry))

	if d.settings.HTTPAddress == "" {
		return nil
	}

	d.httpListener, err = lc.Listen(ctx, "tcp", d.settings.HTTPAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.settings.HTTPAddress, err)
	}

	d.httpServer = &http.Server{
		Handler: httpapi.NewRouter(ctx, d.registry, httpapi.Options{
			AllowedOrigins: d.settings.CORS.AllowedOrigins,
			Timeout:        d.settings.Timeout,
		}),
		ReadHeaderTimeout: d.settings.Timeout,
	}

	return nil
}

// GRPCAddr returns the bound gRPC address.
func (d *Daemon) GRPCAddr() net.Addr {
	return d.grpcListener.Addr()
}

// HTTPAddr returns the bound HTTP address, or nil when HTTP is disabled.
func (d *Daemon) HTTPAddr() net.Addr {
	if d.httpListener == nil {
		return nil
	}

	return d.httpListener.Addr()
}

// Registry returns the alarm registry served by the daemon.
func (d *Daemon) Registry() *registry.Registry {
	return d.registry
}

// Serve blocks until the context is canceled or a server fails, then
// stops both servers and releases storage.
func (d *Daemon) Serve(ctx context.Context) error {
	defer d.close(ctx)

	group, groupCtx := errgroup.WithContext(ctx)

	logger.InfoKV(ctx, "Alarm clock daemon listening", append([]any{
		"grpc_address", d.GRPCAddr().String(),
		"http_address", d.HTTPAddr(),
		"storage_driver", d.settings.Storage.Driver,
		"alarms", d.registry.Stats().Total,
	}, version.KV()...)...)

	group.Go(func() error {
		if err := d.grpcServer.Serve(d.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	if d.httpServer != nil {
		group.Go(func() error {
			if err := d.httpServer.Serve(d.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}

			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()

		logger.Info(ctx, "Shutting down servers")

		d.grpcServer.GracefulStop()

		if d.httpServer == nil {
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.settings.Timeout)
		defer cancel()

		if err := d.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}

		return nil
	})

	err := group.Wait()

	logger.Info(ctx, "Alarm clock daemon stopped")

	return err
}

// close stops pending triggers, closes listeners and releases storage.
func (d *Daemon) close(ctx context.Context) {
	if d.triggers != nil {
		d.triggers.Stop()
	}

	// Servers close their listeners on stop; a second close is a no-op error.
	for _, listener := range []net.Listener{d.grpcListener, d.httpListener} {
		if listener != nil {
			_ = listener.Close()
		}
	}

	if err := d.closeStore(); err != nil {
		logger.WarnKV(ctx, "Failed to close storage", "error", err)
	}
}
