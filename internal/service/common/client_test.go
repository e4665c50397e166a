//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	transport "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
	"github.com/oshokin/alarm-clock/internal/repository/records"
	"github.com/oshokin/alarm-clock/internal/service/registry"
	"github.com/oshokin/alarm-clock/internal/trigger"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_RequiresID asserts that empty ids are rejected before any call.
func TestClient_RequiresID(t *testing.T) {
	t.Parallel()

	c := new(Client)
	ctx := context.Background()

	_, err := c.GetAlarm(ctx, "")
	require.ErrorIs(t, err, errIDRequired)

	_, err = c.UpdateAlarm(ctx, "", alarm.Patch{})
	require.ErrorIs(t, err, errIDRequired)

	_, err = c.DeleteAlarm(ctx, "")
	require.ErrorIs(t, err, errIDRequired)

	_, err = c.ToggleAlarm(ctx, "")
	require.ErrorIs(t, err, errIDRequired)

	require.ErrorIs(t, c.FireAlarm(ctx, ""), errIDRequired)
}

// dialTestDaemon starts an in-memory daemon and returns a client connected to it.
func dialTestDaemon(t *testing.T, now time.Time) *Client {
	t.Helper()

	ctx := context.Background()
	clock := func() time.Time { return now }

	local := trigger.NewLocal(ctx, trigger.WithClock(clock), trigger.WithPermission(false))
	t.Cleanup(local.Stop)

	reg := registry.New(records.New(kv.NewMemory()), local,
		registry.WithClock(clock),
		registry.WithPermissions(local))
	require.NoError(t, reg.Init(ctx))

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.UnaryInterceptor(transport.LoggingInterceptor(ctx)))
	transport.RegisterAlarmClockServer(server, transport.NewServer(reg))

	go func() {
		_ = server.Serve(listener)
	}()

	t.Cleanup(server.Stop)

	actor, err := DetectActor()
	require.NoError(t, err)

	client, err := Dial(ctx, "passthrough:///bufnet",
		WithActor(actor),
		WithCallTimeout(5*time.Second),
		WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		})))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

// TestClient_Roundtrip drives every call against an in-memory daemon.
func TestClient_Roundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	friday08 := time.Date(2025, time.March, 7, 8, 0, 0, 0, time.UTC)
	client := dialTestDaemon(t, friday08)

	// Nothing scheduled yet.
	next, err := client.GetNextAlarm(ctx)
	require.NoError(t, err)
	require.Nil(t, next)

	vibrate := false

	created, err := client.CreateAlarm(ctx, alarm.Draft{
		Title:      "Work",
		Time:       alarm.TimeOfDay{Hour: 7},
		IsActive:   true,
		RepeatType: alarm.RepeatWeekdays,
		Vibrate:    &vibrate,
	})
	require.NoError(t, err)
	require.False(t, created.Vibrate)
	require.True(t, created.NextTrigger.Equal(time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC)))

	fetched, err := client.GetAlarm(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)

	next, err = client.GetNextAlarm(ctx)
	require.NoError(t, err)
	require.Equal(t, created.ID, next.ID)

	title := "Office"

	updated, err := client.UpdateAlarm(ctx, created.ID, alarm.Patch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Office", updated.Title)

	alarms, err := client.ListAlarms(ctx)
	require.NoError(t, err)
	require.Len(t, alarms, 1)

	active, err := client.ToggleAlarm(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, active)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, registry.Stats{Total: 1}, stats)

	snooze := 12

	settings, err := client.UpdateSettings(ctx, alarm.SettingsPatch{SnoozeMinutes: &snooze})
	require.NoError(t, err)
	require.Equal(t, 12, settings.SnoozeMinutes)

	settings, err = client.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, 12, settings.SnoozeMinutes)

	granted, err := client.RequestPermission(ctx)
	require.NoError(t, err)
	require.False(t, granted)

	data, err := client.Export(ctx, "ics")
	require.NoError(t, err)
	require.Contains(t, string(data), "SUMMARY:Office")

	require.NoError(t, client.FireAlarm(ctx, created.ID))

	deleted, err := client.DeleteAlarm(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = client.GetAlarm(ctx, created.ID)
	require.Error(t, err)
}
