package schedule

import (
	"time"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// NextOccurrence computes the first instant strictly after now at which an alarm
// with the given time-of-day and repeat policy should fire.
// It returns false when the policy can never be satisfied (custom with no days).
// Day stepping uses calendar arithmetic in now's location, so month and year
// boundaries and DST transitions keep the wall-clock time.
func NextOccurrence(at alarm.TimeOfDay, repeat alarm.RepeatType, days []time.Weekday, now time.Time) (time.Time, bool) {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), at.Hour, at.Minute, 0, 0, now.Location())

	// Today's slot has already passed.
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}

	switch repeat {
	case alarm.RepeatOnce:
		if !candidate.After(now) {
			return time.Time{}, false
		}

		return candidate, true
	case alarm.RepeatDaily:
		return candidate, true
	case alarm.RepeatWeekdays:
		return advanceUntil(candidate, func(d time.Weekday) bool { return !alarm.IsWeekend(d) }), true
	case alarm.RepeatWeekends:
		return advanceUntil(candidate, alarm.IsWeekend), true
	case alarm.RepeatCustom:
		set := daySet(days)
		if len(set) == 0 {
			return time.Time{}, false
		}

		return advanceUntil(candidate, func(d time.Weekday) bool {
			_, ok := set[d]
			return ok
		}), true
	default:
		return candidate, true
	}
}

// advanceUntil steps the candidate one day at a time until match accepts its weekday.
// Every caller passes a predicate that accepts at least one weekday, so a week bounds the loop.
func advanceUntil(candidate time.Time, match func(time.Weekday) bool) time.Time {
	for range 7 {
		if match(candidate.Weekday()) {
			return candidate
		}

		candidate = candidate.AddDate(0, 0, 1)
	}

	return candidate
}

// daySet keeps only valid weekday numbers.
func daySet(days []time.Weekday) map[time.Weekday]struct{} {
	set := make(map[time.Weekday]struct{}, len(days))

	for _, day := range days {
		if day >= time.Sunday && day <= time.Saturday {
			set[day] = struct{}{}
		}
	}

	return set
}
