package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// TestUpcoming_Weekdays lists a working week after a Friday morning.
func TestUpcoming_Weekdays(t *testing.T) {
	t.Parallel()

	friday08 := time.Date(2025, time.March, 7, 8, 0, 0, 0, time.UTC)

	got, err := Upcoming(alarm.TimeOfDay{Hour: 7}, alarm.RepeatWeekdays, nil, friday08, 5)
	require.NoError(t, err)
	require.Len(t, got, 5)

	for i, occurrence := range got {
		want := time.Date(2025, time.March, 10+i, 7, 0, 0, 0, time.UTC)
		require.True(t, want.Equal(occurrence), "want %s, got %s", want, occurrence)
	}
}

// TestUpcoming_FirstMatchesNext ensures the preview agrees with the trigger calculator.
func TestUpcoming_FirstMatchesNext(t *testing.T) {
	t.Parallel()

	cases := []struct {
		repeat alarm.RepeatType
		days   []time.Weekday
	}{
		{repeat: alarm.RepeatDaily},
		{repeat: alarm.RepeatWeekdays},
		{repeat: alarm.RepeatWeekends},
		{repeat: alarm.RepeatCustom, days: []time.Weekday{time.Tuesday, time.Saturday}},
	}

	at := alarm.TimeOfDay{Hour: 21, Minute: 10}

	for _, now := range sampleNows()[:40] {
		for _, tc := range cases {
			got, err := Upcoming(at, tc.repeat, tc.days, now, 3)
			require.NoError(t, err)
			require.Len(t, got, 3)

			next, ok := NextOccurrence(at, tc.repeat, tc.days, now)
			require.True(t, ok)
			require.True(t, next.Equal(got[0]), "repeat=%s now=%s", tc.repeat, now)
			require.True(t, got[0].Before(got[1]))
			require.True(t, got[1].Before(got[2]))
		}
	}
}

// TestUpcoming_OnceAndEmpty covers single occurrences and policies that never fire.
func TestUpcoming_OnceAndEmpty(t *testing.T) {
	t.Parallel()

	got, err := Upcoming(alarm.TimeOfDay{Hour: 7}, alarm.RepeatOnce, nil, monday08, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, time.Date(2025, time.March, 4, 7, 0, 0, 0, time.UTC).Equal(got[0]))

	got, err = Upcoming(alarm.TimeOfDay{Hour: 7}, alarm.RepeatCustom, nil, monday08, 10)
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = Upcoming(alarm.TimeOfDay{Hour: 7}, alarm.RepeatDaily, nil, monday08, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

// TestRecurrence verifies the RFC 5545 rule produced for each policy.
func TestRecurrence(t *testing.T) {
	t.Parallel()

	option, ok := Recurrence(alarm.RepeatDaily, nil)
	require.True(t, ok)
	require.Equal(t, rrule.DAILY, option.Freq)

	option, ok = Recurrence(alarm.RepeatWeekends, nil)
	require.True(t, ok)
	require.Equal(t, rrule.WEEKLY, option.Freq)
	require.Equal(t, []rrule.Weekday{rrule.SU, rrule.SA}, option.Byweekday)

	option, ok = Recurrence(alarm.RepeatCustom, []time.Weekday{time.Friday, time.Monday})
	require.True(t, ok)
	require.Equal(t, []rrule.Weekday{rrule.MO, rrule.FR}, option.Byweekday)

	_, ok = Recurrence(alarm.RepeatOnce, nil)
	require.False(t, ok)

	_, ok = Recurrence(alarm.RepeatCustom, nil)
	require.False(t, ok)
}
