package trigger

import (
	"context"
	"errors"
	"time"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Fixed display payload.
const (
	// DefaultBody is the notification body of every alarm.
	DefaultBody = "Alarm is ringing!"
	// ChannelID names the high-importance channel alarms are delivered on.
	ChannelID = "alarm-channel"
	// ChannelName is the human-readable channel name.
	ChannelName = "Alarm Notifications"
)

var (
	// ErrUnknownTrigger is returned when cancelling a handle that is not live.
	ErrUnknownTrigger = errors.New("unknown trigger")
	// ErrNotInFuture is returned when registering a trigger for a past instant.
	ErrNotInFuture = errors.New("trigger instant is not in the future")
)

// Handle identifies a registered trigger.
type Handle string

// Payload is what a trigger surfaces when it fires.
type Payload struct {
	// AlarmID maps the fired trigger back to its alarm.
	AlarmID string
	// Title is the notification title.
	Title string
	// Body is the notification body.
	Body string
	// Sound is the alert sound, empty for silent alarms.
	Sound string
	// Vibrate enables vibration.
	Vibrate bool
	// ChannelID is the delivery channel.
	ChannelID string
	// FullScreen asks for a full-screen alert.
	FullScreen bool
}

// NewPayload builds the payload for a.
func NewPayload(a *alarm.Alarm) Payload {
	sound := a.Sound
	if sound == alarm.SoundNone {
		sound = ""
	}

	return Payload{
		AlarmID:    a.ID,
		Title:      a.Title,
		Body:       DefaultBody,
		Sound:      sound,
		Vibrate:    a.Vibrate,
		ChannelID:  ChannelID,
		FullScreen: true,
	}
}

// Service registers triggers that fire at absolute instants.
type Service interface {
	// Create registers payload to fire at firesAt and returns its handle.
	Create(ctx context.Context, payload Payload, firesAt time.Time) (Handle, error)
	// Cancel removes a registered trigger.
	Cancel(ctx context.Context, handle Handle) error
}

// Permissions asks the user whether alarms may be surfaced.
type Permissions interface {
	// RequestPermission reports whether notifications are granted.
	RequestPermission(ctx context.Context) (bool, error)
}

// FireFunc is called with the alarm id after its trigger fired.
type FireFunc func(ctx context.Context, alarmID string)

// Ringer surfaces a fired trigger to the user.
type Ringer interface {
	Ring(ctx context.Context, title, body string) error
}
