// Package editor holds the per-day edit dialog state machine. A Controller is
// either Closed or Open for exactly one day; saving validates the draft,
// computes hours and hands a model.EditResult to the store.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

// State of the controller.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

var (
	// ErrAlreadyOpen is returned by OpenFor while another day is being edited.
	ErrAlreadyOpen = errors.New("editor already open")
	// ErrNotOpen is returned by Save and Delete on a closed editor.
	ErrNotOpen = errors.New("editor not open")
)

// Store is the part of store.Store the editor needs.
type Store interface {
	Get(date string) (model.WorkEntry, bool)
	Apply(ctx context.Context, r model.EditResult) error
}

// Draft is the editable form for one day.
type Draft struct {
	StartTime string
	EndTime   string
	IsRestDay bool
	Notes     string
}

// FieldErrors collects validation failures per input field. Both fields are
// checked, so Start and End may be set together.
type FieldErrors struct {
	Start error
	End   error
}

func (e *FieldErrors) Error() string {
	var parts []string
	if e.Start != nil {
		parts = append(parts, e.Start.Error())
	}
	if e.End != nil {
		parts = append(parts, e.End.Error())
	}
	return strings.Join(parts, "; ")
}

func (e *FieldErrors) empty() bool { return e.Start == nil && e.End == nil }

// Controller drives one edit at a time.
type Controller struct {
	store Store
	log   *slog.Logger

	mu    sync.Mutex
	state State
	day   time.Time
	seed  *model.WorkEntry
}

// New returns a closed controller writing through store.
func New(store Store, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{store: store, log: log}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Day returns the day being edited, zero when closed.
func (c *Controller) Day() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

// OpenFor opens the editor for day, seeding it with the stored entry if any.
func (c *Controller) OpenFor(day time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Open {
		return ErrAlreadyOpen
	}
	c.state = Open
	c.day = timecalc.StartOfDay(day)
	c.seed = nil
	if e, ok := c.store.Get(timecalc.DateKey(day)); ok {
		c.seed = &e
	}
	return nil
}

// Seed returns the entry the editor was opened with.
func (c *Controller) Seed() (model.WorkEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seed == nil {
		return model.WorkEntry{}, false
	}
	return *c.seed, true
}

// Draft returns the form prefilled from the seed entry.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seed == nil {
		return Draft{}
	}
	return Draft{
		StartTime: c.seed.StartTime,
		EndTime:   c.seed.EndTime,
		IsRestDay: c.seed.IsRestDay,
		Notes:     c.seed.Notes,
	}
}

// Cancel discards the edit.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.close()
	c.mu.Unlock()
}

func (c *Controller) close() {
	c.state = Closed
	c.day = time.Time{}
	c.seed = nil
}

// Save validates d and persists it. On a *FieldErrors or a store failure the
// editor stays open and nothing is stored. On success it returns the entry
// as held by the store and closes.
func (c *Controller) Save(ctx context.Context, d Draft) (model.WorkEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Open {
		return model.WorkEntry{}, ErrNotOpen
	}

	entry, err := c.build(d)
	if err != nil {
		return model.WorkEntry{}, err
	}
	if err := c.store.Apply(ctx, model.Upsert{Entry: entry}); err != nil {
		c.log.Warn("save failed, editor kept open", "date", entry.Date, "err", err)
		return model.WorkEntry{}, err
	}
	if stored, ok := c.store.Get(entry.Date); ok {
		entry = stored
	}
	c.log.Info("entry saved", "date", entry.Date, "hours", entry.Hours, "rest", entry.IsRestDay)
	c.close()
	return entry, nil
}

func (c *Controller) build(d Draft) (model.WorkEntry, error) {
	entry := model.WorkEntry{
		Date:      timecalc.DateKey(c.day),
		IsRestDay: d.IsRestDay,
		Notes:     d.Notes,
	}
	if c.seed != nil {
		entry.ID = c.seed.ID
	}
	if d.IsRestDay {
		return entry, nil
	}

	fe := &FieldErrors{}
	start, err := timecalc.ParseClock(timecalc.FieldStart, d.StartTime)
	if err != nil {
		fe.Start = err
	}
	end, err := timecalc.ParseClock(timecalc.FieldEnd, d.EndTime)
	if err != nil {
		fe.End = err
	}
	if !fe.empty() {
		return model.WorkEntry{}, fe
	}
	hours, err := timecalc.ShiftHours(c.day, start, end)
	if err != nil {
		return model.WorkEntry{}, &FieldErrors{End: err}
	}
	entry.StartTime = start.String()
	entry.EndTime = end.String()
	entry.Hours = hours
	return entry, nil
}

// Delete removes the seeded entry. With nothing seeded it only closes. A
// store failure leaves the editor open.
func (c *Controller) Delete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Open {
		return ErrNotOpen
	}
	if c.seed == nil {
		c.close()
		return nil
	}
	r := model.Delete{ID: c.seed.ID, Date: c.seed.Date}
	if err := c.store.Apply(ctx, r); err != nil {
		c.log.Warn("delete failed, editor kept open", "date", r.Date, "err", err)
		return fmt.Errorf("delete %s: %w", r.Date, err)
	}
	c.log.Info("entry deleted", "date", r.Date)
	c.close()
	return nil
}
