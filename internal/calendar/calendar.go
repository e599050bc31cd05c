// Package calendar wires a backend, the entry store and the editor into the
// engine the CLI drives.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/editor"
	"github.com/Tiliavir/hours-calendar/internal/grid"
	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/store"
	"github.com/Tiliavir/hours-calendar/internal/summary"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

// SessionClearer forgets the signed-in session on logout.
type SessionClearer interface {
	Clear() error
}

// Options configures an Engine. Zero values pick the local zone, the wall
// clock and a discarding logger.
type Options struct {
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
	Session  SessionClearer
}

// Engine is the calendar facade.
type Engine struct {
	backend store.Backend
	store   *store.Store
	editor  *editor.Controller
	session SessionClearer
	loc     *time.Location
	now     func() time.Time
	log     *slog.Logger
}

// New builds an engine on top of backend.
func New(backend store.Backend, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	s := store.New(backend, opts.Logger.With("component", "store"))
	return &Engine{
		backend: backend,
		store:   s,
		editor:  editor.New(s, opts.Logger.With("component", "editor")),
		session: opts.Session,
		loc:     opts.Location,
		now:     opts.Now,
		log:     opts.Logger,
	}
}

// Today returns the current day in the engine's location.
func (e *Engine) Today() time.Time {
	return timecalc.StartOfDay(e.now().In(e.loc))
}

// Location returns the engine's time zone.
func (e *Engine) Location() *time.Location { return e.loc }

// Open resolves the signed-in user and loads their entries for month.
func (e *Engine) Open(ctx context.Context, month time.Time) error {
	user, err := e.backend.CurrentUser(ctx)
	if err != nil {
		return &store.PersistenceError{Op: "resolve user", Err: err}
	}
	if user == "" {
		e.store.Reset()
		return store.ErrAuthRequired
	}
	e.log.Debug("opening calendar", "user", user, "month", month.Format("2006-01"))
	return e.store.Load(ctx, user, month)
}

// Grid returns the month grid around ref.
func (e *Engine) Grid(ref time.Time) []model.CalendarCell {
	return grid.Build(ref.In(e.loc), e.Today(), e.store.Get)
}

// WeeklySummary folds the week row as shown in the grid.
func (e *Engine) WeeklySummary(week []model.CalendarCell) summary.Summary {
	return summary.Week(week)
}

// WeekOf folds the Monday-to-Sunday week containing day.
func (e *Engine) WeekOf(day time.Time) summary.Summary {
	from, to := timecalc.WeekRange(day.In(e.loc))
	return summary.Range(from, to, e.store.Get)
}

// MonthlySummary folds the calendar month containing month.
func (e *Engine) MonthlySummary(month time.Time) summary.Summary {
	return summary.Month(month.In(e.loc), e.store.Get)
}

// Editor returns the edit controller.
func (e *Engine) Editor() *editor.Controller { return e.editor }

// Store returns the entry store.
func (e *Engine) Store() *store.Store { return e.store }

// ClearAll deletes every entry of the signed-in user.
func (e *Engine) ClearAll(ctx context.Context) error {
	return e.store.ClearAll(ctx, e.store.UserID())
}

// Logout drops the session, any open edit and the cached entries.
func (e *Engine) Logout(ctx context.Context) error {
	e.editor.Cancel()
	e.store.Reset()
	if e.session == nil {
		return nil
	}
	if err := e.session.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	e.log.Info("signed out")
	return nil
}
