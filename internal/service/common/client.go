//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	transport "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/service/registry"
)

// Client wraps the gRPC AlarmClock client with domain types.
type Client struct {
	// conn is the underlying gRPC connection to the daemon.
	conn *grpc.ClientConn
	// api is the AlarmClock client.
	api *transport.AlarmClockClient
	// actor identifies the caller, may be nil.
	actor *Actor
	// dialOptions are extra options for grpc.NewClient.
	dialOptions []grpc.DialOption

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor identifies the caller in request metadata.
func WithActor(actor *Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// WithDialOptions appends options passed to grpc.NewClient.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errIDRequired is returned when an alarm id is missing.
	errIDRequired = errors.New("alarm id must be provided")
)

// Dial establishes a gRPC connection to the alarm clock daemon.
// Note: this uses insecure transport credentials; the daemon listens on
// loopback by default.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, client.dialOptions...)

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial alarm clock daemon: %w", err)
	}

	client.conn = conn
	client.api = transport.NewAlarmClockClient(conn)

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// ListAlarms returns every alarm.
func (c *Client) ListAlarms(ctx context.Context) ([]*alarm.Alarm, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.ListAlarms(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}

	var alarms []*alarm.Alarm
	if err = transport.FromList(response, &alarms); err != nil {
		return nil, err
	}

	return alarms, nil
}

// GetAlarm returns one alarm.
func (c *Client) GetAlarm(ctx context.Context, id string) (*alarm.Alarm, error) {
	if id == "" {
		return nil, errIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetAlarm(callCtx, wrapperspb.String(id))
	if err != nil {
		return nil, fmt.Errorf("get alarm: %w", err)
	}

	return decodeAlarm(response)
}

// GetNextAlarm returns the alarm that rings first, or nil when nothing is scheduled.
func (c *Client) GetNextAlarm(ctx context.Context) (*alarm.Alarm, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetNextAlarm(callCtx, new(emptypb.Empty))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}

		return nil, fmt.Errorf("get next alarm: %w", err)
	}

	return decodeAlarm(response)
}

// CreateAlarm stores a new alarm.
func (c *Client) CreateAlarm(ctx context.Context, draft alarm.Draft) (*alarm.Alarm, error) {
	request, err := transport.ToStruct(draft)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.CreateAlarm(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("create alarm: %w", err)
	}

	return decodeAlarm(response)
}

// UpdateAlarm applies patch to the alarm with id.
func (c *Client) UpdateAlarm(ctx context.Context, id string, patch alarm.Patch) (*alarm.Alarm, error) {
	if id == "" {
		return nil, errIDRequired
	}

	request, err := transport.ToStruct(transport.AlarmUpdate{ID: id, Patch: patch})
	if err != nil {
		return nil, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.UpdateAlarm(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("update alarm: %w", err)
	}

	return decodeAlarm(response)
}

// DeleteAlarm removes an alarm and reports whether it existed.
func (c *Client) DeleteAlarm(ctx context.Context, id string) (bool, error) {
	return c.callBool(ctx, "delete alarm", id, c.api.DeleteAlarm)
}

// ToggleAlarm flips an alarm and returns its new active state.
func (c *Client) ToggleAlarm(ctx context.Context, id string) (bool, error) {
	return c.callBool(ctx, "toggle alarm", id, c.api.ToggleAlarm)
}

// FireAlarm reports that an alarm rang.
func (c *Client) FireAlarm(ctx context.Context, id string) error {
	if id == "" {
		return errIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.FireAlarm(callCtx, wrapperspb.String(id)); err != nil {
		return fmt.Errorf("fire alarm: %w", err)
	}

	return nil
}

// GetSettings returns the settings record.
func (c *Client) GetSettings(ctx context.Context) (alarm.Settings, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetSettings(callCtx, new(emptypb.Empty))
	if err != nil {
		return alarm.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return decodeSettings(response)
}

// UpdateSettings applies a settings patch.
func (c *Client) UpdateSettings(ctx context.Context, patch alarm.SettingsPatch) (alarm.Settings, error) {
	request, err := transport.ToStruct(patch)
	if err != nil {
		return alarm.Settings{}, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.UpdateSettings(callCtx, request)
	if err != nil {
		return alarm.Settings{}, fmt.Errorf("update settings: %w", err)
	}

	return decodeSettings(response)
}

// RequestPermission asks the daemon for notification permission.
func (c *Client) RequestPermission(ctx context.Context) (bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.RequestPermission(callCtx, new(emptypb.Empty))
	if err != nil {
		return false, fmt.Errorf("request permission: %w", err)
	}

	return response.GetValue(), nil
}

// Export returns alarms and settings rendered in format (json or ics).
func (c *Client) Export(ctx context.Context, format string) ([]byte, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.Export(callCtx, wrapperspb.String(format))
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	return response.GetValue(), nil
}

// Stats returns the total and active alarm counts.
func (c *Client) Stats(ctx context.Context) (registry.Stats, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetStats(callCtx, new(emptypb.Empty))
	if err != nil {
		return registry.Stats{}, fmt.Errorf("get stats: %w", err)
	}

	var stats registry.Stats
	if err = transport.FromStruct(response, &stats); err != nil {
		return registry.Stats{}, err
	}

	return stats, nil
}

// callBool performs an id-to-bool call.
func (c *Client) callBool(
	ctx context.Context,
	operation string,
	id string,
	call func(context.Context, *wrapperspb.StringValue, ...grpc.CallOption) (*wrapperspb.BoolValue, error),
) (bool, error) {
	if id == "" {
		return false, errIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := call(callCtx, wrapperspb.String(id))
	if err != nil {
		return false, fmt.Errorf("%s: %w", operation, err)
	}

	return response.GetValue(), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The caller
// identity is attached to the outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = c.actor.outgoing(ctx)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// decodeAlarm converts a response document into an alarm.
func decodeAlarm(document *structpb.Struct) (*alarm.Alarm, error) {
	result := new(alarm.Alarm)
	if err := transport.FromStruct(document, result); err != nil {
		return nil, err
	}

	return result, nil
}

// decodeSettings converts a response document into settings.
func decodeSettings(document *structpb.Struct) (alarm.Settings, error) {
	var settings alarm.Settings
	if err := transport.FromStruct(document, &settings); err != nil {
		return alarm.Settings{}, err
	}

	return settings, nil
}
