package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/schedule"
	"github.com/oshokin/alarm-clock/internal/trigger"
)

// productID identifies the generator of exported calendars.
const productID = "-//oshokin//alarm-clock//EN"

// Calendar builds a calendar with one event per alarm that has an occurrence.
// DTSTART is the registered next trigger, or the next computed occurrence
// for alarms without one. Recurring policies get an RRULE and inactive
// alarms are marked cancelled.
func Calendar(alarms []*alarm.Alarm, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, a := range alarms {
		start, ok := startOf(a, now)
		if !ok {
			continue
		}

		cal.Children = append(cal.Children, event(a, start, now).Component)
	}

	return cal
}

// WriteICS writes the calendar of alarms.
func WriteICS(w io.Writer, alarms []*alarm.Alarm, now time.Time) error {
	if err := ical.NewEncoder(w).Encode(Calendar(alarms, now)); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}

	return nil
}

// startOf picks the first occurrence to export.
func startOf(a *alarm.Alarm, now time.Time) (time.Time, bool) {
	if a.HasNextTrigger() {
		return *a.NextTrigger, true
	}

	return schedule.NextOccurrence(a.Time, a.RepeatType, a.RepeatDays, now)
}

// event renders a single alarm.
func event(a *alarm.Alarm, start, now time.Time) *ical.Event {
	ev := ical.NewEvent()

	title := a.Title
	if title == "" {
		title = "Alarm " + a.Time.String()
	}

	ev.Props.SetText(ical.PropUID, a.ID)
	ev.Props.SetText(ical.PropSummary, title)
	ev.Props.SetText(ical.PropDescription, trigger.DefaultBody)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeStart, calendarTime(start))

	if !a.CreatedAt.IsZero() {
		ev.Props.SetDateTime(ical.PropCreated, a.CreatedAt.UTC())
	}

	if option, ok := schedule.Recurrence(a.RepeatType, a.RepeatDays); ok {
		rule := ical.NewProp(ical.PropRecurrenceRule)
		rule.SetValueType(ical.ValueRecurrence)
		rule.Value = option.RRuleString()
		ev.Props.Set(rule)
	}

	if !a.IsActive {
		ev.Props.SetText(ical.PropStatus, "CANCELLED")
	}

	reminder := ical.NewComponent(ical.CompAlarm)
	reminder.Props.SetText(ical.PropAction, "DISPLAY")
	reminder.Props.SetText(ical.PropDescription, title)

	// Fire at the event start.
	offset := ical.NewProp(ical.PropTrigger)
	offset.Value = "PT0S"
	reminder.Props.Set(offset)

	ev.Children = append(ev.Children, reminder)

	return ev
}

// calendarTime keeps named zones and renders the process-local zone as UTC.
func calendarTime(t time.Time) time.Time {
	if t.Location() == time.Local {
		return t.UTC()
	}

	return t
}
