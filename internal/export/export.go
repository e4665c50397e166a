package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatICS  = "ics"
)

// ErrUnknownFormat is returned for formats other than json and ics.
var ErrUnknownFormat = errors.New("unknown export format")

// Backup is the JSON export document.
type Backup struct {
	// Alarms is the full collection.
	Alarms []*alarm.Alarm `json:"alarms"`
	// Settings is the preferences record.
	Settings alarm.Settings `json:"settings"`
	// ExportDate is the instant the backup was taken.
	ExportDate time.Time `json:"exportDate"`
}

// ParseFormat normalizes a format name. Empty means json.
func ParseFormat(s string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(s))

	switch format {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatICS, "ical", "icalendar":
		return FormatICS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if format == FormatICS {
		return "text/calendar; charset=utf-8"
	}

	return "application/json"
}

// Write renders alarms and settings in format.
func Write(w io.Writer, format string, alarms []*alarm.Alarm, settings alarm.Settings, now time.Time) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, Backup{
			Alarms:     alarms,
			Settings:   settings,
			ExportDate: now,
		})
	case FormatICS:
		return WriteICS(w, alarms, now)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteJSON writes the backup as indented JSON.
func WriteJSON(w io.Writer, backup Backup) error {
	if backup.Alarms == nil {
		backup.Alarms = []*alarm.Alarm{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	return nil
}
