package alarm

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// RepeatType selects which calendar days an alarm's time-of-day applies to.
type RepeatType string

const (
	// RepeatOnce fires at the next occurrence of the time and then deactivates.
	RepeatOnce RepeatType = "once"
	// RepeatDaily fires every day.
	RepeatDaily RepeatType = "daily"
	// RepeatWeekdays fires Monday through Friday.
	RepeatWeekdays RepeatType = "weekdays"
	// RepeatWeekends fires on Saturday and Sunday.
	RepeatWeekends RepeatType = "weekends"
	// RepeatCustom fires on the days listed in Alarm.RepeatDays.
	RepeatCustom RepeatType = "custom"
)

var (
	// ErrInvalidRepeatType is returned for repeat types outside the known set.
	ErrInvalidRepeatType = errors.New("invalid repeat type")
	// ErrInvalidRepeatDay is returned for weekday numbers outside 0-6.
	ErrInvalidRepeatDay = errors.New("invalid repeat day")
)

// RepeatTypes lists every supported repeat type.
func RepeatTypes() []RepeatType {
	return []RepeatType{RepeatOnce, RepeatDaily, RepeatWeekdays, RepeatWeekends, RepeatCustom}
}

// ParseRepeatType converts user input into a RepeatType.
func ParseRepeatType(s string) (RepeatType, error) {
	r := RepeatType(strings.ToLower(strings.TrimSpace(s)))
	if err := r.Validate(); err != nil {
		return "", err
	}

	return r, nil
}

// Validate reports whether the repeat type is one of the known values.
func (r RepeatType) Validate() error {
	if !slices.Contains(RepeatTypes(), r) {
		return fmt.Errorf("%w: %q", ErrInvalidRepeatType, string(r))
	}

	return nil
}

// IsRecurring reports whether the alarm keeps firing after an occurrence.
func (r RepeatType) IsRecurring() bool {
	return r != RepeatOnce
}

// IsWeekend reports whether the weekday is Saturday or Sunday.
func IsWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

// NormalizeDays validates a custom day-set and returns it sorted without duplicates.
// Weekdays are numbered 0 (Sunday) through 6 (Saturday).
func NormalizeDays(days []time.Weekday) ([]time.Weekday, error) {
	if len(days) == 0 {
		return nil, nil
	}

	seen := make(map[time.Weekday]struct{}, len(days))
	result := make([]time.Weekday, 0, len(days))

	for _, day := range days {
		if day < time.Sunday || day > time.Saturday {
			return nil, fmt.Errorf("%w: %d", ErrInvalidRepeatDay, int(day))
		}

		if _, ok := seen[day]; ok {
			continue
		}

		seen[day] = struct{}{}
		result = append(result, day)
	}

	slices.Sort(result)

	return result, nil
}
