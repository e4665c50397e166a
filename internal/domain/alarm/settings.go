package alarm

import (
	"errors"
	"fmt"
)

// ErrInvalidSettings is returned when a settings update violates a range constraint.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the per-installation preferences record.
type Settings struct {
	// DefaultSound is pre-filled into new alarms without an explicit sound.
	DefaultSound string `json:"defaultSound"`
	// DefaultVibrate is pre-filled into new alarms without an explicit vibrate flag.
	DefaultVibrate bool `json:"defaultVibrate"`
	// SnoozeMinutes is the snooze duration, always positive.
	SnoozeMinutes int `json:"snoozeMinutes"`
	// VolumeLevel is the alert volume in the range [0, 1].
	VolumeLevel float64 `json:"volumeLevel"`
	// Use24HourFormat switches presentation between 12 and 24 hour clocks.
	Use24HourFormat bool `json:"use24HourFormat"`
}

// DefaultSettings returns the first-run settings.
func DefaultSettings() Settings {
	return Settings{
		DefaultSound:    "default",
		DefaultVibrate:  true,
		SnoozeMinutes:   9,
		VolumeLevel:     0.8,
		Use24HourFormat: false,
	}
}

// Validate checks the snooze and volume ranges.
func (s Settings) Validate() error {
	if s.SnoozeMinutes <= 0 {
		return fmt.Errorf("%w: snooze minutes must be positive, got %d", ErrInvalidSettings, s.SnoozeMinutes)
	}

	if s.VolumeLevel < 0 || s.VolumeLevel > 1 {
		return fmt.Errorf("%w: volume level must be within [0, 1], got %v", ErrInvalidSettings, s.VolumeLevel)
	}

	return nil
}

// SettingsPatch is a shallow partial update of Settings.
type SettingsPatch struct {
	DefaultSound    *string  `json:"defaultSound,omitempty"`
	DefaultVibrate  *bool    `json:"defaultVibrate,omitempty"`
	SnoozeMinutes   *int     `json:"snoozeMinutes,omitempty"`
	VolumeLevel     *float64 `json:"volumeLevel,omitempty"`
	Use24HourFormat *bool    `json:"use24HourFormat,omitempty"`
}

// Apply returns the settings with the provided fields replaced.
func (p *SettingsPatch) Apply(s Settings) Settings {
	if p == nil {
		return s
	}

	if p.DefaultSound != nil {
		s.DefaultSound = *p.DefaultSound
	}

	if p.DefaultVibrate != nil {
		s.DefaultVibrate = *p.DefaultVibrate
	}

	if p.SnoozeMinutes != nil {
		s.SnoozeMinutes = *p.SnoozeMinutes
	}

	if p.VolumeLevel != nil {
		s.VolumeLevel = *p.VolumeLevel
	}

	if p.Use24HourFormat != nil {
		s.Use24HourFormat = *p.Use24HourFormat
	}

	return s
}
