package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
)

// Storage keys.
const (
	KeyAlarms   = "alarms"
	KeySettings = "alarmSettings"
)

// Repository reads and writes alarm records through a kv.Store.
type Repository struct {
	// store is the durable backend.
	store kv.Store
}

// New creates a repository on top of store.
func New(store kv.Store) *Repository {
	return &Repository{
		store: store,
	}
}

// LoadAlarms returns the persisted collection. An absent key yields an empty collection.
func (r *Repository) LoadAlarms(ctx context.Context) ([]*alarm.Alarm, error) {
	raw, err := r.store.Get(ctx, KeyAlarms)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("read alarms: %w", err)
	}

	var alarms []*alarm.Alarm
	if err = json.Unmarshal([]byte(raw), &alarms); err != nil {
		return nil, fmt.Errorf("decode alarms: %w", err)
	}

	// Drop null entries left by hand-edited documents.
	result := alarms[:0]

	for _, a := range alarms {
		if a != nil {
			result = append(result, a)
		}
	}

	return result, nil
}

// SaveAlarms replaces the persisted collection.
func (r *Repository) SaveAlarms(ctx context.Context, alarms []*alarm.Alarm) error {
	if alarms == nil {
		alarms = []*alarm.Alarm{}
	}

	data, err := json.Marshal(alarms)
	if err != nil {
		return fmt.Errorf("encode alarms: %w", err)
	}

	if err = r.store.Set(ctx, KeyAlarms, string(data)); err != nil {
		return fmt.Errorf("write alarms: %w", err)
	}

	return nil
}

// LoadSettings returns the persisted settings merged over the defaults.
// An absent key yields the defaults.
func (r *Repository) LoadSettings(ctx context.Context) (alarm.Settings, error) {
	settings := alarm.DefaultSettings()

	raw, err := r.store.Get(ctx, KeySettings)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return settings, nil
		}

		return settings, fmt.Errorf("read settings: %w", err)
	}

	// Keys missing from the document keep their default values.
	if err = json.Unmarshal([]byte(raw), &settings); err != nil {
		return alarm.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}

	return settings, nil
}

// SaveSettings replaces the persisted settings.
func (r *Repository) SaveSettings(ctx context.Context, settings alarm.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err = r.store.Set(ctx, KeySettings, string(data)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}
