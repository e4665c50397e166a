package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/trigger"
)

var (
	errTriggerDown = errors.New("trigger service down")
	errStorageDown = errors.New("storage down")
	errPermission  = errors.New("permission prompt crashed")
)

// monday08 is Monday, 3 March 2025 08:00 UTC.
//
//nolint:gochecknoglobals // Shared reference instant.
var monday08 = time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

// registration is a live trigger of fakeTriggers.
type registration struct {
	payload trigger.Payload
	firesAt time.Time
}

// fakeTriggers is an in-memory trigger.Service.
type fakeTriggers struct {
	// live maps handles to registrations.
	live map[trigger.Handle]registration
	// created counts Create calls.
	created int
	// cancelled counts successful Cancel calls.
	cancelled int
	// createErr fails Create when set.
	createErr error
	// cancelErr fails Cancel when set, leaving the registration live.
	cancelErr error
	mu        sync.Mutex
}

func newFakeTriggers() *fakeTriggers {
	return &fakeTriggers{
		live: make(map[trigger.Handle]registration),
	}
}

func (f *fakeTriggers) Create(_ context.Context, payload trigger.Payload, firesAt time.Time) (trigger.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return "", f.createErr
	}

	f.created++
	handle := trigger.Handle(fmt.Sprintf("h-%d", f.created))
	f.live[handle] = registration{payload: payload, firesAt: firesAt}

	return handle, nil
}

func (f *fakeTriggers) Cancel(_ context.Context, handle trigger.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancelErr != nil {
		return f.cancelErr
	}

	if _, ok := f.live[handle]; !ok {
		return trigger.ErrUnknownTrigger
	}

	f.cancelled++
	delete(f.live, handle)

	return nil
}

// fire drops the registration of alarmID as if it elapsed and returns whether one existed.
func (f *fakeTriggers) fire(alarmID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for handle, reg := range f.live {
		if reg.payload.AlarmID == alarmID {
			delete(f.live, handle)

			return true
		}
	}

	return false
}

// forAlarm returns the live registrations of alarmID.
func (f *fakeTriggers) forAlarm(alarmID string) map[trigger.Handle]registration {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make(map[trigger.Handle]registration)

	for handle, reg := range f.live {
		if reg.payload.AlarmID == alarmID {
			result[handle] = reg
		}
	}

	return result
}

func (f *fakeTriggers) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.live)
}

// manualClock is a settable clock.
type manualClock struct {
	now time.Time
	mu  sync.Mutex
}

func newManualClock(now time.Time) *manualClock {
	return &manualClock{now: now}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

// steppingClock returns the given instants in order and then repeats the last one.
type steppingClock struct {
	instants []time.Time
	mu       sync.Mutex
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.instants[0]
	if len(c.instants) > 1 {
		c.instants = c.instants[1:]
	}

	return now
}

// failingRepository fails on save, optionally on load.
type failingRepository struct {
	loadErr error
}

func (f failingRepository) LoadAlarms(context.Context) ([]*alarm.Alarm, error) {
	return nil, f.loadErr
}

func (failingRepository) SaveAlarms(context.Context, []*alarm.Alarm) error {
	return errStorageDown
}

func (f failingRepository) LoadSettings(context.Context) (alarm.Settings, error) {
	return alarm.DefaultSettings(), f.loadErr
}

func (failingRepository) SaveSettings(context.Context, alarm.Settings) error {
	return errStorageDown
}

// staticPermissions answers with fixed values.
type staticPermissions struct {
	granted bool
	err     error
}

func (p staticPermissions) RequestPermission(context.Context) (bool, error) {
	return p.granted, p.err
}

// sequentialIDs returns a generator of a-1, a-2, ...
func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		n++

		return fmt.Sprintf("a-%d", n)
	}
}
