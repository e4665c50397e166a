package registry

import (
	"context"
	"errors"
	"time"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/schedule"
	"github.com/oshokin/alarm-clock/internal/trigger"
)

// The helpers below expect r.mu to be held.

// setActive stores the active flag, persists and registers or cancels to match.
func (r *Registry) setActive(ctx context.Context, a *alarm.Alarm, active bool) {
	a.IsActive = active

	logger.InfoKV(ctx, "Alarm toggled", "is_active", active)

	r.persistAlarms(ctx)
	r.syncTrigger(ctx, a)
}

// syncTrigger reschedules an active alarm and unschedules an inactive one.
func (r *Registry) syncTrigger(ctx context.Context, a *alarm.Alarm) {
	if a.IsActive {
		r.scheduleAlarm(ctx, a)

		return
	}

	r.cancelTrigger(ctx, a.ID)

	if a.NextTrigger != nil {
		a.NextTrigger = nil
		r.persistAlarms(ctx)
	}
}

// scheduleAlarm replaces the alarm's trigger with one for its next occurrence.
// Failures leave the alarm without a registration and a cleared next trigger.
func (r *Registry) scheduleAlarm(ctx context.Context, a *alarm.Alarm) {
	r.cancelTrigger(ctx, a.ID)

	hadNext := a.NextTrigger != nil
	a.NextTrigger = nil

	next, ok := schedule.NextOccurrence(a.Time, a.RepeatType, a.RepeatDays, r.now())
	if !ok {
		logger.WarnKV(ctx, "Alarm has no future occurrence", "repeat_type", a.RepeatType)
		r.persistIf(ctx, hadNext)

		return
	}

	// The clock may have moved past the occurrence since it was computed.
	if !next.After(r.now()) {
		logger.WarnKV(ctx, "Alarm occurrence is no longer in the future", "next_trigger", next)
		r.persistIf(ctx, hadNext)

		return
	}

	handle, err := r.triggers.Create(ctx, trigger.NewPayload(a), next)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to register trigger", "error", err)
		r.persistIf(ctx, hadNext)

		return
	}

	r.handles[a.ID] = handle
	a.NextTrigger = &next

	logger.InfoKV(ctx, "Alarm scheduled", "next_trigger", next.Format(time.RFC3339))

	r.persistAlarms(ctx)
}

// cancelTrigger cancels the alarm's registration, if any.
// The handle is forgotten even when cancellation fails.
func (r *Registry) cancelTrigger(ctx context.Context, id string) {
	handle, ok := r.handles[id]
	if !ok {
		return
	}

	delete(r.handles, id)

	err := r.triggers.Cancel(ctx, handle)

	switch {
	case err == nil:
		logger.DebugKV(ctx, "Trigger cancelled", "handle", handle)
	case errors.Is(err, trigger.ErrUnknownTrigger):
		// Already fired.
		logger.DebugKV(ctx, "Trigger is already gone", "handle", handle)
	default:
		logger.ErrorKV(ctx, "Failed to cancel trigger", "handle", handle, "error", err)
	}
}

// persistIf persists the collection when changed is set.
func (r *Registry) persistIf(ctx context.Context, changed bool) {
	if changed {
		r.persistAlarms(ctx)
	}
}

// persistAlarms writes the collection. Failures are logged and the in-memory state is kept.
func (r *Registry) persistAlarms(ctx context.Context) {
	if err := r.repo.SaveAlarms(ctx, r.alarms); err != nil {
		logger.ErrorKV(ctx, "Failed to persist alarms", "error", err)
	}
}

// indexOf returns the position of the alarm with id, or -1.
func (r *Registry) indexOf(id string) int {
	for i, a := range r.alarms {
		if a.ID == id {
			return i
		}
	}

	return -1
}

// uniqueID returns a generated id not used by any alarm.
func (r *Registry) uniqueID() (string, error) {
	for range maxIDAttempts {
		id := r.newID()
		if id != "" && r.indexOf(id) < 0 {
			return id, nil
		}
	}

	return "", errIDCollision
}
