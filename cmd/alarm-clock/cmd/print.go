package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Layouts of printed instants.
const (
	layout24Hour = "Mon 02 Jan 15:04"
	layout12Hour = "Mon 02 Jan 3:04 PM"
)

var (
	activeColor   = color.New(color.FgGreen, color.Bold)
	inactiveColor = color.New(color.Faint)
)

//nolint:gochecknoglobals // Lookup table for day names.
var dayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// parseDays reads a comma separated list of day names or numbers (0 is Sunday).
func parseDays(s string) ([]time.Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))

	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))

		if len(part) >= 3 {
			if day, ok := dayNames[part[:3]]; ok {
				days = append(days, day)
				continue
			}
		}

		number, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", alarm.ErrInvalidRepeatDay, part)
		}

		days = append(days, time.Weekday(number))
	}

	return alarm.NormalizeDays(days)
}

// statusLabel renders the active flag.
func statusLabel(active bool) string {
	if active {
		return activeColor.Sprint("on")
	}

	return inactiveColor.Sprint("off")
}

// formatInstant renders t in the local zone in the preferred clock format.
func formatInstant(t *time.Time, use24Hour bool) string {
	if t == nil {
		return "-"
	}

	if use24Hour {
		return t.Local().Format(layout24Hour)
	}

	return t.Local().Format(layout12Hour)
}

// describeRepeat renders the repeat policy with custom days.
func describeRepeat(a *alarm.Alarm) string {
	if a.RepeatType != alarm.RepeatCustom {
		return string(a.RepeatType)
	}

	names := make([]string, 0, len(a.RepeatDays))
	for _, day := range a.RepeatDays {
		names = append(names, day.String()[:3])
	}

	return "custom (" + strings.Join(names, ",") + ")"
}

// printAlarms writes a table of alarms.
func printAlarms(w io.Writer, alarms []*alarm.Alarm, use24Hour bool) error {
	if len(alarms) == 0 {
		_, err := fmt.Fprintln(w, "No alarms.")
		return err
	}

	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Status is last: colour escapes would skew the following columns.
	_, _ = fmt.Fprintln(table, "ID\tTIME\tTITLE\tREPEAT\tNEXT\tSTATUS")

	for _, a := range alarms {
		_, _ = fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Time, a.Title, describeRepeat(a), formatInstant(a.NextTrigger, use24Hour), statusLabel(a.IsActive))
	}

	return table.Flush()
}

// printAlarm writes one alarm and, when given, its upcoming occurrences.
func printAlarm(w io.Writer, a *alarm.Alarm, upcoming []time.Time, use24Hour bool) {
	_, _ = fmt.Fprintf(w, "ID:       %s\n", a.ID)
	_, _ = fmt.Fprintf(w, "Title:    %s\n", a.Title)
	_, _ = fmt.Fprintf(w, "Time:     %s\n", a.Time)
	_, _ = fmt.Fprintf(w, "Repeat:   %s\n", describeRepeat(a))
	_, _ = fmt.Fprintf(w, "Status:   %s\n", statusLabel(a.IsActive))
	_, _ = fmt.Fprintf(w, "Sound:    %s\n", a.Sound)
	_, _ = fmt.Fprintf(w, "Vibrate:  %t\n", a.Vibrate)
	_, _ = fmt.Fprintf(w, "Next:     %s\n", formatInstant(a.NextTrigger, use24Hour))

	if len(upcoming) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w, "Upcoming:")

	for _, at := range upcoming {
		_, _ = fmt.Fprintf(w, "  %s\n", formatInstant(&at, use24Hour))
	}
}

// printSettings writes the settings record.
func printSettings(w io.Writer, s alarm.Settings) {
	_, _ = fmt.Fprintf(w, "Default sound:    %s\n", s.DefaultSound)
	_, _ = fmt.Fprintf(w, "Default vibrate:  %t\n", s.DefaultVibrate)
	_, _ = fmt.Fprintf(w, "Snooze minutes:   %d\n", s.SnoozeMinutes)
	_, _ = fmt.Fprintf(w, "Volume level:     %.2f\n", s.VolumeLevel)
	_, _ = fmt.Fprintf(w, "24-hour format:   %t\n", s.Use24HourFormat)
}
