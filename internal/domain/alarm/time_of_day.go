package alarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTime is returned when a time-of-day is malformed or out of range.
var ErrInvalidTime = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time without date or timezone, serialized as "HH:MM".
type TimeOfDay struct {
	// Hour is the hour of day in the range [0, 23].
	Hour int
	// Minute is the minute of hour in the range [0, 59].
	Minute int
}

// NewTimeOfDay builds a validated TimeOfDay.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, err
	}

	return t, nil
}

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hours, minutes, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	hour, err := strconv.Atoi(hours)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	minute, err := strconv.Atoi(minutes)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	return NewTimeOfDay(hour, minute)
}

// Validate checks hour and minute ranges.
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, t.Hour, t.Minute)
	}

	return nil
}

// String renders the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
