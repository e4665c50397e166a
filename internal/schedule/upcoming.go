package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// weekdayRules maps time.Weekday numbering (0=Sunday) to RFC 5545 weekdays.
//
//nolint:gochecknoglobals // Read-only lookup table.
var weekdayRules = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// Recurrence translates a repeat policy into an RFC 5545 recurrence rule without DTSTART.
// It returns false for one-shot alarms and for policies that never fire.
func Recurrence(repeat alarm.RepeatType, days []time.Weekday) (rrule.ROption, bool) {
	switch repeat {
	case alarm.RepeatDaily:
		return rrule.ROption{Freq: rrule.DAILY}, true
	case alarm.RepeatWeekdays:
		return rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
		}, true
	case alarm.RepeatWeekends:
		return rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.SU, rrule.SA},
		}, true
	case alarm.RepeatCustom:
		set := daySet(days)
		byDay := make([]rrule.Weekday, 0, len(set))

		for day := time.Sunday; day <= time.Saturday; day++ {
			if _, ok := set[day]; ok {
				byDay = append(byDay, weekdayRules[day])
			}
		}

		if len(byDay) == 0 {
			return rrule.ROption{}, false
		}

		return rrule.ROption{Freq: rrule.WEEKLY, Byweekday: byDay}, true
	default:
		return rrule.ROption{}, false
	}
}

// Upcoming lists the next count occurrences strictly after now.
// The first element always equals NextOccurrence for the same inputs.
func Upcoming(
	at alarm.TimeOfDay,
	repeat alarm.RepeatType,
	days []time.Weekday,
	now time.Time,
	count int,
) ([]time.Time, error) {
	if count <= 0 {
		return nil, nil
	}

	first, ok := NextOccurrence(at, repeat, days, now)
	if !ok {
		return nil, nil
	}

	option, recurring := Recurrence(repeat, days)
	if !recurring {
		return []time.Time{first}, nil
	}

	option.Dtstart = first
	option.Count = count

	rule, err := rrule.NewRRule(option)
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule: %w", err)
	}

	return rule.All(), nil
}
