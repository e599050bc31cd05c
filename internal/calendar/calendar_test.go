package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/editor"
	"github.com/Tiliavir/hours-calendar/internal/grid"
	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/store"
	"github.com/Tiliavir/hours-calendar/internal/store/storetest"
)

type fakeSession struct{ cleared int }

func (f *fakeSession) Clear() error { f.cleared++; return nil }

var now = time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

func newEngine(mem *storetest.Memory, sess SessionClearer) *Engine {
	return New(mem, Options{
		Location: time.UTC,
		Now:      func() time.Time { return now },
		Session:  sess,
	})
}

func TestOpenRequiresUser(t *testing.T) {
	e := newEngine(storetest.NewMemory(""), nil)
	if err := e.Open(context.Background(), now); !errors.Is(err, store.ErrAuthRequired) {
		t.Fatalf("Open err = %v, want ErrAuthRequired", err)
	}
}

func TestOpenUserLookupFailureIsPersistenceError(t *testing.T) {
	mem := storetest.NewMemory("u1")
	boom := errors.New("database is locked")
	mem.FailNext = boom
	e := newEngine(mem, nil)

	err := e.Open(context.Background(), now)
	var perr *store.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Open err = %v, want *store.PersistenceError", err)
	}
	if perr.Op != "resolve user" || !errors.Is(err, boom) {
		t.Errorf("PersistenceError = %+v, want resolve user wrapping %v", perr, boom)
	}
}

func TestUpsertThenLoadRoundTrip(t *testing.T) {
	mem := storetest.NewMemory("u1")
	e := newEngine(mem, nil)
	ctx := context.Background()
	if err := e.Open(ctx, now); err != nil {
		t.Fatalf("Open: %v", err)
	}

	ed := e.Editor()
	if err := ed.OpenFor(now); err != nil {
		t.Fatalf("OpenFor: %v", err)
	}
	saved, err := ed.Save(ctx, editor.Draft{StartTime: "09:00", EndTime: "17:30", Notes: "review"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh := newEngine(mem, nil)
	if err := fresh.Open(ctx, now); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := fresh.Store().Get("2026-10-16")
	if !ok || got != saved {
		t.Errorf("reloaded %+v, %v; want %+v", got, ok, saved)
	}
}

func TestGridAndSummaries(t *testing.T) {
	mem := storetest.NewMemory("u1")
	mem.Seed("u1",
		model.WorkEntry{Date: "2026-09-28", StartTime: "09:00", EndTime: "17:00", Hours: 8},
		model.WorkEntry{Date: "2026-10-12", StartTime: "09:00", EndTime: "17:00", Hours: 8},
		model.WorkEntry{Date: "2026-10-13", StartTime: "22:00", EndTime: "06:00", Hours: 8},
		model.WorkEntry{Date: "2026-10-14", IsRestDay: true},
	)
	e := newEngine(mem, nil)
	if err := e.Open(context.Background(), now); err != nil {
		t.Fatalf("Open: %v", err)
	}

	cells := e.Grid(now)
	if len(cells) != 35 {
		t.Fatalf("grid has %d cells, want 35", len(cells))
	}
	var today int
	for _, c := range cells {
		if c.IsToday {
			today++
			if c.Key != "2026-10-16" {
				t.Errorf("today flagged on %s", c.Key)
			}
		}
	}
	if today != 1 {
		t.Errorf("%d cells flagged today", today)
	}

	weeks := grid.Weeks(cells)
	first := e.WeeklySummary(weeks[0])
	if first.DaysWorked != 1 || first.HoursWorked != 8 {
		t.Errorf("first week = %+v, want spillover day counted", first)
	}
	week := e.WeekOf(now)
	if week.HoursWorked != 16 || week.DaysWorked != 2 || week.RestDays != 1 {
		t.Errorf("WeekOf = %+v", week)
	}
	month := e.MonthlySummary(now)
	if month.HoursWorked != 16 || month.DaysWorked != 2 || month.RestDays != 1 {
		t.Errorf("MonthlySummary = %+v, want spillover excluded", month)
	}
}

func TestClearAll(t *testing.T) {
	mem := storetest.NewMemory("u1")
	mem.Seed("u1", model.WorkEntry{Date: "2026-10-01", IsRestDay: true})
	mem.Seed("u2", model.WorkEntry{Date: "2026-10-01", IsRestDay: true})
	e := newEngine(mem, nil)
	if err := e.Open(context.Background(), now); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if mem.Len() != 1 {
		t.Errorf("backend holds %d entries, want only the other user's", mem.Len())
	}
}

func TestLogout(t *testing.T) {
	mem := storetest.NewMemory("u1")
	mem.Seed("u1", model.WorkEntry{Date: "2026-10-01", IsRestDay: true})
	sess := &fakeSession{}
	e := newEngine(mem, sess)
	ctx := context.Background()
	if err := e.Open(ctx, now); err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = e.Editor().OpenFor(now)

	if err := e.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sess.cleared != 1 {
		t.Errorf("session cleared %d times", sess.cleared)
	}
	if e.Store().UserID() != "" || len(e.Store().All()) != 0 {
		t.Error("store not reset")
	}
	if e.Editor().State() != editor.Closed {
		t.Error("editor left open")
	}
	if _, err := e.Store().Upsert(ctx, model.WorkEntry{Date: "2026-10-02", IsRestDay: true}); !errors.Is(err, store.ErrAuthRequired) {
		t.Errorf("Upsert after logout err = %v", err)
	}
}
