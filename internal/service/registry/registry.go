package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/trigger"
)

// maxIDAttempts bounds the retries of the id generator on collisions.
const maxIDAttempts = 16

var (
	// ErrNotFound is returned when an operation references an unknown alarm id.
	ErrNotFound = errors.New("alarm not found")
	// errIDCollision is returned when the id generator keeps producing used ids.
	errIDCollision = errors.New("failed to generate a unique alarm id")
)

// Repository is the durable storage of alarms and settings.
type Repository interface {
	// LoadAlarms returns the persisted alarm collection.
	LoadAlarms(ctx context.Context) ([]*alarm.Alarm, error)
	// SaveAlarms replaces the persisted alarm collection.
	SaveAlarms(ctx context.Context, alarms []*alarm.Alarm) error
	// LoadSettings returns persisted settings merged over the defaults.
	LoadSettings(ctx context.Context) (alarm.Settings, error)
	// SaveSettings replaces the persisted settings.
	SaveSettings(ctx context.Context, settings alarm.Settings) error
}

// Stats summarizes the collection.
type Stats struct {
	// Total is the number of alarms.
	Total int `json:"total"`
	// Active is the number of alarms with IsActive set.
	Active int `json:"active"`
}

// Registry manages alarms, their triggers and the settings record.
// It is safe for concurrent use: every operation runs to completion,
// including persistence and trigger calls, before the next one starts.
type Registry struct {
	// repo persists alarms and settings.
	repo Repository
	// triggers registers and cancels triggers.
	triggers trigger.Service
	// permissions answers notification permission requests, may be nil.
	permissions trigger.Permissions
	// now returns the current instant.
	now func() time.Time
	// newID generates alarm ids.
	newID func() string
	// alarms is the ordered collection.
	alarms []*alarm.Alarm
	// handles maps alarm ids to their live trigger handles.
	handles map[string]trigger.Handle
	// settings is the preferences record.
	settings alarm.Settings
	// mu serializes operations.
	mu sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces the clock used to compute occurrences.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithIDGenerator replaces the alarm id generator.
func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) {
		r.newID = newID
	}
}

// WithPermissions sets the notification permission collaborator.
func WithPermissions(permissions trigger.Permissions) Option {
	return func(r *Registry) {
		r.permissions = permissions
	}
}

// New creates an empty registry. Call Init before use.
func New(repo Repository, triggers trigger.Service, opts ...Option) *Registry {
	r := &Registry{
		repo:     repo,
		triggers: triggers,
		now:      time.Now,
		newID:    uuid.NewString,
		handles:  make(map[string]trigger.Handle),
		settings: alarm.DefaultSettings(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Init loads the persisted records and registers a trigger for every
// active alarm. Handles from a previous process are never reused.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	alarms, err := r.repo.LoadAlarms(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to load alarms", "error", err)

		return fmt.Errorf("load alarms: %w", err)
	}

	settings, err := r.repo.LoadSettings(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to load settings, using defaults", "error", err)
	}

	r.alarms = make([]*alarm.Alarm, 0, len(alarms))
	r.settings = settings

	for _, a := range alarms {
		r.alarms = append(r.alarms, a)

		alarmCtx := logger.WithKV(ctx, "alarm_id", a.ID)

		// Invalid records are kept as they are but never scheduled.
		if err = a.Validate(); err != nil {
			logger.WarnKV(alarmCtx, "Stored alarm is invalid, not scheduling it", "error", err)

			a.NextTrigger = nil

			continue
		}

		if !a.IsActive {
			a.NextTrigger = nil

			continue
		}

		r.scheduleAlarm(alarmCtx, a)
	}

	r.persistAlarms(ctx)

	logger.InfoKV(ctx, "Alarm registry initialized",
		"alarms", len(r.alarms),
		"scheduled", len(r.handles))

	return nil
}

// CreateAlarm validates the draft, stores a new alarm and schedules it when active.
// Empty sound and unset vibrate fall back to the settings defaults.
func (r *Registry) CreateAlarm(ctx context.Context, draft alarm.Draft) (*alarm.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := &alarm.Alarm{
		Title:      draft.Title,
		Time:       draft.Time,
		IsActive:   draft.IsActive,
		RepeatType: draft.RepeatType,
		RepeatDays: draft.RepeatDays,
		Sound:      draft.Sound,
		Vibrate:    r.settings.DefaultVibrate,
		CreatedAt:  draft.CreatedAt,
	}

	if err := created.Validate(); err != nil {
		return nil, err
	}

	if created.Sound == "" {
		created.Sound = r.settings.DefaultSound
	}

	if draft.Vibrate != nil {
		created.Vibrate = *draft.Vibrate
	}

	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.now()
	}

	id, err := r.uniqueID()
	if err != nil {
		return nil, err
	}

	created.ID = id
	r.alarms = append(r.alarms, created)

	ctx = logger.WithKV(ctx, "alarm_id", id)
	logger.InfoKV(ctx, "Alarm created", "time", created.Time, "repeat_type", created.RepeatType)

	r.persistAlarms(ctx)

	if created.IsActive {
		r.scheduleAlarm(ctx, created)
	}

	return created.Clone(), nil
}

// UpdateAlarm merges patch into the alarm, persists it and re-derives its trigger.
// An empty patch still reschedules an active alarm.
func (r *Registry) UpdateAlarm(ctx context.Context, id string, patch *alarm.Patch) (*alarm.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(id)
	if index < 0 {
		return nil, ErrNotFound
	}

	merged := patch.Apply(r.alarms[index])
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	r.alarms[index] = merged

	ctx = logger.WithKV(ctx, "alarm_id", id)
	logger.InfoKV(ctx, "Alarm updated", "is_active", merged.IsActive)

	r.persistAlarms(ctx)
	r.syncTrigger(ctx, merged)

	return merged.Clone(), nil
}

// DeleteAlarm cancels the alarm's trigger and removes it.
// It reports whether the alarm existed.
func (r *Registry) DeleteAlarm(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(id)
	if index < 0 {
		return false
	}

	ctx = logger.WithKV(ctx, "alarm_id", id)

	r.cancelTrigger(ctx, id)
	r.alarms = append(r.alarms[:index], r.alarms[index+1:]...)

	logger.Info(ctx, "Alarm deleted")

	r.persistAlarms(ctx)

	return true
}

// ToggleAlarm flips the active flag and schedules or cancels to match.
// It returns the new active state.
func (r *Registry) ToggleAlarm(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(id)
	if index < 0 {
		return false, ErrNotFound
	}

	ctx = logger.WithKV(ctx, "alarm_id", id)
	toggled := r.alarms[index]

	r.setActive(ctx, toggled, !toggled.IsActive)

	return toggled.IsActive, nil
}

// TriggerAlarm reacts to a fired trigger. Recurring alarms get their next
// occurrence registered; one-shot alarms are deactivated. Firing an inactive
// alarm only drops a lingering registration.
func (r *Registry) TriggerAlarm(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(id)
	if index < 0 {
		return ErrNotFound
	}

	ctx = logger.WithKV(ctx, "alarm_id", id)
	fired := r.alarms[index]

	logger.InfoKV(ctx, "Alarm fired", "repeat_type", fired.RepeatType)

	switch {
	case !fired.IsActive:
		r.cancelTrigger(ctx, id)
	case fired.RepeatType.IsRecurring():
		r.scheduleAlarm(ctx, fired)
	default:
		r.setActive(ctx, fired, false)
	}

	return nil
}

// GetAllAlarms returns copies of every alarm in creation order.
func (r *Registry) GetAllAlarms() []*alarm.Alarm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*alarm.Alarm, 0, len(r.alarms))
	for _, a := range r.alarms {
		result = append(result, a.Clone())
	}

	return result
}

// GetAlarm returns a copy of the alarm with id.
func (r *Registry) GetAlarm(id string) (*alarm.Alarm, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := r.indexOf(id)
	if index < 0 {
		return nil, false
	}

	return r.alarms[index].Clone(), true
}

// GetNextAlarm returns the active alarm with the earliest next trigger.
// Ties keep the first alarm in creation order.
func (r *Registry) GetNextAlarm() (*alarm.Alarm, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var next *alarm.Alarm

	for _, a := range r.alarms {
		if !a.HasNextTrigger() {
			continue
		}

		if next == nil || a.NextTrigger.Before(*next.NextTrigger) {
			next = a
		}
	}

	if next == nil {
		return nil, false
	}

	return next.Clone(), true
}

// Stats returns the total and active alarm counts.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		Total: len(r.alarms),
	}

	for _, a := range r.alarms {
		if a.IsActive {
			stats.Active++
		}
	}

	return stats
}

// PendingTriggers returns the number of trigger handles the registry tracks.
func (r *Registry) PendingTriggers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handles)
}

// Now returns the registry clock's current instant.
func (r *Registry) Now() time.Time {
	return r.now()
}

// GetSettings returns the settings record.
func (r *Registry) GetSettings() alarm.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.settings
}

// UpdateSettings merges patch into the settings and persists them.
func (r *Registry) UpdateSettings(ctx context.Context, patch *alarm.SettingsPatch) (alarm.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := patch.Apply(r.settings)
	if err := merged.Validate(); err != nil {
		return r.settings, err
	}

	r.settings = merged

	logger.InfoKV(ctx, "Settings updated",
		"snooze_minutes", merged.SnoozeMinutes,
		"volume_level", merged.VolumeLevel)

	if err := r.repo.SaveSettings(ctx, merged); err != nil {
		logger.ErrorKV(ctx, "Failed to persist settings", "error", err)
	}

	return merged, nil
}

// RequestNotificationPermission asks the permission collaborator.
// A failing request is reported as denied.
func (r *Registry) RequestNotificationPermission(ctx context.Context) bool {
	if r.permissions == nil {
		return false
	}

	granted, err := r.permissions.RequestPermission(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to request notification permission", "error", err)

		return false
	}

	logger.InfoKV(ctx, "Notification permission answered", "granted", granted)

	return granted
}
