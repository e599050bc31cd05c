package summary_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/grid"
	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/summary"
)

func lookupOf(entries ...model.WorkEntry) grid.Lookup {
	m := make(map[string]model.WorkEntry, len(entries))
	for _, e := range entries {
		m[e.Date] = e
	}
	return func(key string) (model.WorkEntry, bool) {
		e, ok := m[key]
		return e, ok
	}
}

func TestWeekExcludesRestDays(t *testing.T) {
	lookup := lookupOf(
		model.WorkEntry{Date: "2026-10-12", StartTime: "09:00", EndTime: "17:00", Hours: 8},
		model.WorkEntry{Date: "2026-10-13", IsRestDay: true},
		model.WorkEntry{Date: "2026-10-14", StartTime: "22:00", EndTime: "06:00", Hours: 8},
	)
	ref := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	weeks := grid.Weeks(grid.Build(ref, ref, lookup))

	got := summary.Week(weeks[2]) // 2026-10-12 .. 2026-10-18
	want := summary.Summary{HoursWorked: 16, DaysWorked: 2, RestDays: 1}
	if got != want {
		t.Errorf("Week = %+v, want %+v", got, want)
	}
}

func TestWeekIncludesSpillover(t *testing.T) {
	lookup := lookupOf(
		model.WorkEntry{Date: "2026-09-29", StartTime: "09:00", EndTime: "13:00", Hours: 4},
		model.WorkEntry{Date: "2026-10-02", StartTime: "09:00", EndTime: "12:30", Hours: 3.5},
	)
	ref := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	weeks := grid.Weeks(grid.Build(ref, ref, lookup))

	got := summary.Week(weeks[0])
	if got.HoursWorked != 7.5 || got.DaysWorked != 2 {
		t.Errorf("Week = %+v, want 7.5h over 2 days", got)
	}

	month := summary.Month(ref, lookup)
	if month.HoursWorked != 3.5 || month.DaysWorked != 1 {
		t.Errorf("Month = %+v, want 3.5h over 1 day", month)
	}
}

func TestMonthBounds(t *testing.T) {
	lookup := lookupOf(
		model.WorkEntry{Date: "2026-01-31", StartTime: "09:00", EndTime: "17:00", Hours: 8},
		model.WorkEntry{Date: "2026-02-01", IsRestDay: true},
		model.WorkEntry{Date: "2026-02-10", StartTime: "09:00", EndTime: "17:30", Hours: 8.5},
		model.WorkEntry{Date: "2026-02-28", StartTime: "10:00", EndTime: "12:00", Hours: 2},
		model.WorkEntry{Date: "2026-03-01", StartTime: "10:00", EndTime: "12:00", Hours: 2},
	)
	got := summary.Month(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), lookup)
	want := summary.Summary{HoursWorked: 10.5, DaysWorked: 2, RestDays: 1}
	if got != want {
		t.Errorf("Month = %+v, want %+v", got, want)
	}
}

func TestEmptyRange(t *testing.T) {
	got := summary.Month(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), lookupOf())
	if got != (summary.Summary{}) {
		t.Errorf("Month on no entries = %+v", got)
	}
}
