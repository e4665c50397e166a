package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Local keeps triggers as in-process timers.
type Local struct {
	// ctx carries the logger used by fired timers.
	ctx context.Context
	// timers maps live handles to their timers.
	timers map[Handle]*time.Timer
	// onFire receives fired alarm ids.
	onFire FireFunc
	// ringer surfaces fired alarms, may be nil.
	ringer Ringer
	// granted is the answer to permission requests.
	granted bool
	// now returns the current instant.
	now func() time.Time
	// mu protects timers and onFire.
	mu sync.Mutex
}

// LocalOption configures Local.
type LocalOption func(*Local)

// WithRinger sets the hook that surfaces fired alarms.
func WithRinger(r Ringer) LocalOption {
	return func(l *Local) {
		l.ringer = r
	}
}

// WithPermission sets the answer to permission requests.
func WithPermission(granted bool) LocalOption {
	return func(l *Local) {
		l.granted = granted
	}
}

// WithClock replaces the clock used to compute timer delays.
func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) {
		l.now = now
	}
}

// NewLocal creates a timer-backed trigger service. Permission is granted by default.
func NewLocal(ctx context.Context, opts ...LocalOption) *Local {
	l := &Local{
		ctx:     logger.WithName(ctx, "trigger"),
		timers:  make(map[Handle]*time.Timer),
		granted: true,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SetFireHandler sets the function called after a trigger fires.
func (l *Local) SetFireHandler(fn FireFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.onFire = fn
}

// Create starts a timer that fires payload at firesAt.
func (l *Local) Create(_ context.Context, payload Payload, firesAt time.Time) (Handle, error) {
	delay := firesAt.Sub(l.now())
	if delay <= 0 {
		return "", ErrNotInFuture
	}

	handle := Handle(uuid.NewString())

	l.mu.Lock()
	defer l.mu.Unlock()

	l.timers[handle] = time.AfterFunc(delay, func() {
		l.fire(handle, payload)
	})

	logger.DebugKV(l.ctx, "Trigger registered",
		"handle", handle,
		"alarm_id", payload.AlarmID,
		"fires_at", firesAt.Format(time.RFC3339))

	return handle, nil
}

// Cancel stops the timer of handle.
func (l *Local) Cancel(_ context.Context, handle Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	timer, ok := l.timers[handle]
	if !ok {
		return ErrUnknownTrigger
	}

	timer.Stop()
	delete(l.timers, handle)

	logger.DebugKV(l.ctx, "Trigger cancelled", "handle", handle)

	return nil
}

// RequestPermission answers with the configured permission.
func (l *Local) RequestPermission(context.Context) (bool, error) {
	return l.granted, nil
}

// Pending returns the number of live triggers.
func (l *Local) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.timers)
}

// Stop cancels every live trigger.
func (l *Local) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for handle, timer := range l.timers {
		timer.Stop()
		delete(l.timers, handle)
	}
}

// fire forgets the handle, rings and reports the alarm id.
// A handle cancelled while its timer was already running is ignored.
func (l *Local) fire(handle Handle, payload Payload) {
	l.mu.Lock()

	if _, ok := l.timers[handle]; !ok {
		l.mu.Unlock()

		return
	}

	delete(l.timers, handle)
	onFire := l.onFire

	l.mu.Unlock()

	ctx := logger.WithKV(l.ctx, "alarm_id", payload.AlarmID)
	logger.InfoKV(ctx, "Alarm is ringing", "title", payload.Title, "sound", payload.Sound)

	if l.ringer != nil {
		if err := l.ringer.Ring(ctx, payload.Title, payload.Body); err != nil {
			logger.ErrorKV(ctx, "Failed to ring", "error", err)
		}
	}

	if onFire != nil {
		onFire(ctx, payload.AlarmID)
	}
}
