package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// TestParseDays covers names, numbers, duplicates and invalid input.
func TestParseDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []time.Weekday
		wantErr bool
	}{
		{name: "empty", input: ""},
		{name: "names", input: "fri, mon,Wednesday", want: []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		{name: "numbers", input: "0,6", want: []time.Weekday{time.Sunday, time.Saturday}},
		{name: "duplicates", input: "mon,1,monday", want: []time.Weekday{time.Monday}},
		{name: "out of range", input: "7", wantErr: true},
		{name: "garbage", input: "someday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			days, err := parseDays(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, alarm.ErrInvalidRepeatDay)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, days)
		})
	}
}

// TestAlarmFlags_Patch verifies that only changed flags end up in the patch.
func TestAlarmFlags_Patch(t *testing.T) {
	t.Parallel()

	flags := new(alarmFlags)
	cmd := &cobra.Command{Use: "update"}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&flags.active, "active", true, "")

	_, err := flags.patch(cmd)
	require.ErrorIs(t, err, errNoChanges)

	require.NoError(t, cmd.Flags().Set("time", "06:15"))
	require.NoError(t, cmd.Flags().Set("active", "false"))

	patch, err := flags.patch(cmd)
	require.NoError(t, err)
	require.Nil(t, patch.Title)
	require.Nil(t, patch.RepeatType)
	require.Equal(t, alarm.TimeOfDay{Hour: 6, Minute: 15}, *patch.Time)
	require.False(t, *patch.IsActive)

	require.NoError(t, cmd.Flags().Set("time", "6am"))

	_, err = flags.patch(cmd)
	require.ErrorIs(t, err, alarm.ErrInvalidTime)
}

// TestAlarmFlags_Draft verifies defaults and explicit vibrate handling.
func TestAlarmFlags_Draft(t *testing.T) {
	t.Parallel()

	flags := new(alarmFlags)
	cmd := &cobra.Command{Use: "create"}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&flags.inactive, "inactive", false, "")

	require.NoError(t, cmd.Flags().Set("time", "07:00"))
	require.NoError(t, cmd.Flags().Set("repeat", "custom"))
	require.NoError(t, cmd.Flags().Set("days", "sat,sun"))

	draft, err := flags.draft(cmd)
	require.NoError(t, err)
	require.True(t, draft.IsActive)
	require.Equal(t, alarm.RepeatCustom, draft.RepeatType)
	require.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, draft.RepeatDays)
	require.Nil(t, draft.Vibrate)

	require.NoError(t, cmd.Flags().Set("vibrate", "false"))
	require.NoError(t, cmd.Flags().Set("repeat", "hourly"))

	_, err = flags.draft(cmd)
	require.ErrorIs(t, err, alarm.ErrInvalidRepeatType)
}

// TestPrintAlarms checks the table and the empty case.
func TestPrintAlarms(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, printAlarms(&buf, nil, true))
	require.Equal(t, "No alarms.\n", buf.String())

	buf.Reset()

	next := time.Date(2025, time.March, 4, 7, 30, 0, 0, time.UTC)
	alarms := []*alarm.Alarm{
		{
			ID:          "a1",
			Title:       "Gym",
			Time:        alarm.TimeOfDay{Hour: 7, Minute: 30},
			IsActive:    true,
			RepeatType:  alarm.RepeatCustom,
			RepeatDays:  []time.Weekday{time.Tuesday, time.Thursday},
			NextTrigger: &next,
		},
		{
			ID:         "a2",
			Title:      "Nap",
			Time:       alarm.TimeOfDay{Hour: 14},
			RepeatType: alarm.RepeatOnce,
		},
	}

	require.NoError(t, printAlarms(&buf, alarms, true))

	output := buf.String()
	require.Contains(t, output, "custom (Tue,Thu)")
	require.Contains(t, output, "07:30")
	require.Contains(t, output, "Nap")
	require.Contains(t, output, "-")
}
