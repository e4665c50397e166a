package watcher

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// DefaultPollInterval defines the polling interval when none is configured.
const DefaultPollInterval = 5 * time.Second

// Source returns the alarm that rings next, or nil when none is scheduled.
type Source interface {
	GetNextAlarm(ctx context.Context) (*alarm.Alarm, error)
}

// Options controls the polling behavior.
type Options struct {
	// PollInterval defines the interval between checks.
	PollInterval time.Duration
	// Output receives one line per observed change.
	Output io.Writer
	// Layout formats trigger instants in the local zone.
	Layout string
}

// Run polls source until the context is canceled, writing a line every
// time the next alarm or its trigger instant changes. Poll failures are
// logged and retried on the next tick.
func Run(ctx context.Context, source Source, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "watcher")

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.Layout == "" {
		opts.Layout = time.RFC1123
	}

	w := &watcher{
		source: source,
		opts:   opts,
	}

	logger.DebugKV(ctx, "Watching the next alarm", "interval", opts.PollInterval.String())

	// Check immediately before starting the ticker.
	w.check(ctx)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// watcher keeps the last reported state between polls.
type watcher struct {
	source Source
	opts   *Options
	// last is the most recently reported state, empty before the first report.
	last string
	// reported is set after the first successful poll.
	reported bool
}

// check polls once and reports a change.
func (w *watcher) check(ctx context.Context) {
	next, err := w.source.GetNextAlarm(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Get next alarm failed", "error", err)
		return
	}

	line := w.describe(next)
	if w.reported && line == w.last {
		return
	}

	w.last, w.reported = line, true

	if _, err = fmt.Fprintln(w.opts.Output, line); err != nil {
		logger.WarnKV(ctx, "Failed to write watcher output", "error", err)
	}
}

// describe renders the next alarm.
func (w *watcher) describe(next *alarm.Alarm) string {
	if next == nil || next.NextTrigger == nil {
		return "No upcoming alarm."
	}

	title := next.Title
	if title == "" {
		title = "Alarm " + next.Time.String()
	}

	return fmt.Sprintf("Next alarm: %s (%s) at %s", title, next.ID, next.NextTrigger.Local().Format(w.opts.Layout))
}
