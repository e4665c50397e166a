// Package export renders the alarm collection for use outside the daemon:
// a JSON backup of alarms and settings, and an iCalendar feed with one
// recurring event per alarm.
package export
