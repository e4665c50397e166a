package alarm

import (
	"slices"
	"time"
)

// SoundNone is the sentinel sound identifier that disables the alert sound.
const SoundNone = "none"

// Alarm is a user-defined alarm and its current scheduling state.
type Alarm struct {
	// ID is the opaque unique identifier assigned at creation.
	ID string `json:"id"`
	// Title is the display string shown when the alarm rings.
	Title string `json:"title"`
	// Time is the wall-clock time-of-day the alarm fires at.
	Time TimeOfDay `json:"time"`
	// IsActive drives whether a trigger is registered for the alarm.
	IsActive bool `json:"isActive"`
	// RepeatType is the repeat policy.
	RepeatType RepeatType `json:"repeatType"`
	// RepeatDays is the custom day-set, meaningful only for RepeatCustom.
	RepeatDays []time.Weekday `json:"repeatDays,omitempty"`
	// Sound selects the alert sound, or SoundNone.
	Sound string `json:"sound"`
	// Vibrate enables vibration while ringing.
	Vibrate bool `json:"vibrate"`
	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"createdAt"`
	// NextTrigger is the fire instant of the registered trigger, if any.
	NextTrigger *time.Time `json:"nextTrigger,omitempty"`
}

// Clone returns a deep copy of the alarm.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a
	cloned.RepeatDays = slices.Clone(a.RepeatDays)

	if a.NextTrigger != nil {
		next := *a.NextTrigger
		cloned.NextTrigger = &next
	}

	return &cloned
}

// Validate checks the fields that take part in scheduling.
func (a *Alarm) Validate() error {
	if err := a.Time.Validate(); err != nil {
		return err
	}

	if err := a.RepeatType.Validate(); err != nil {
		return err
	}

	days, err := NormalizeDays(a.RepeatDays)
	if err != nil {
		return err
	}

	a.RepeatDays = days

	return nil
}

// HasNextTrigger reports whether the alarm is active with a known fire instant.
func (a *Alarm) HasNextTrigger() bool {
	return a.IsActive && a.NextTrigger != nil
}

// Draft carries the user-provided fields of a new alarm.
type Draft struct {
	Title      string         `json:"title"`
	Time       TimeOfDay      `json:"time"`
	IsActive   bool           `json:"isActive"`
	RepeatType RepeatType     `json:"repeatType"`
	RepeatDays []time.Weekday `json:"repeatDays,omitempty"`
	// Sound falls back to Settings.DefaultSound when empty.
	Sound string `json:"sound,omitempty"`
	// Vibrate falls back to Settings.DefaultVibrate when nil.
	Vibrate *bool `json:"vibrate,omitempty"`
	// CreatedAt falls back to the creation instant when zero.
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Patch is a shallow partial update: nil fields are left unchanged.
// Identity, creation time and the computed next trigger are not patchable.
type Patch struct {
	Title      *string         `json:"title,omitempty"`
	Time       *TimeOfDay      `json:"time,omitempty"`
	IsActive   *bool           `json:"isActive,omitempty"`
	RepeatType *RepeatType     `json:"repeatType,omitempty"`
	RepeatDays *[]time.Weekday `json:"repeatDays,omitempty"`
	Sound      *string         `json:"sound,omitempty"`
	Vibrate    *bool           `json:"vibrate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p == nil || *p == Patch{}
}

// Apply merges the provided fields into a copy of the alarm.
func (p *Patch) Apply(a *Alarm) *Alarm {
	merged := a.Clone()
	if p == nil {
		return merged
	}

	if p.Title != nil {
		merged.Title = *p.Title
	}

	if p.Time != nil {
		merged.Time = *p.Time
	}

	if p.IsActive != nil {
		merged.IsActive = *p.IsActive
	}

	if p.RepeatType != nil {
		merged.RepeatType = *p.RepeatType
	}

	if p.RepeatDays != nil {
		merged.RepeatDays = slices.Clone(*p.RepeatDays)
	}

	if p.Sound != nil {
		merged.Sound = *p.Sound
	}

	if p.Vibrate != nil {
		merged.Vibrate = *p.Vibrate
	}

	return merged
}
