// Package remind nags on a cron schedule when the current day has no entry.
package remind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Tiliavir/hours-calendar/internal/notify"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

// HasEntry reports whether day already has an entry.
type HasEntry func(ctx context.Context, day time.Time) (bool, error)

// Alert delivers a reminder.
type Alert func(title, message string)

// Reminder runs the check on schedule.
type Reminder struct {
	schedule cron.Schedule
	expr     string
	loc      *time.Location
	has      HasEntry
	alert    Alert
	log      *slog.Logger
	now      func() time.Time
}

// New parses expr, a standard five-field cron expression, evaluated in loc.
func New(expr string, loc *time.Location, has HasEntry, alert Alert, log *slog.Logger) (*Reminder, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", expr, err)
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Reminder{schedule: sched, expr: expr, loc: loc, has: has, alert: alert, log: log, now: time.Now}, nil
}

// Next returns the next firing time after t.
func (r *Reminder) Next(t time.Time) time.Time {
	return r.schedule.Next(t.In(r.loc))
}

// Check alerts when the day containing now has no entry. It reports whether
// an alert was sent.
func (r *Reminder) Check(ctx context.Context, now time.Time) (bool, error) {
	day := timecalc.StartOfDay(now.In(r.loc))
	ok, err := r.has(ctx, day)
	if err != nil {
		r.log.Warn("reminder check failed", "day", timecalc.DateKey(day), "err", err)
		return false, err
	}
	if ok {
		r.log.Debug("entry present, no reminder", "day", timecalc.DateKey(day))
		return false, nil
	}
	title, msg := notify.MissingEntry(timecalc.DateKey(day))
	r.alert(title, msg)
	return true, nil
}

// Run fires Check on schedule until ctx is cancelled.
func (r *Reminder) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(r.expr, func() {
		_, _ = r.Check(ctx, r.now())
	}); err != nil {
		return fmt.Errorf("scheduling reminder: %w", err)
	}
	c.Start()
	r.log.Info("reminder running", "schedule", r.expr, "next", r.Next(r.now()).Format(time.RFC3339))
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
