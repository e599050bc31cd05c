// Package summary folds work entries into hours and day counts.
package summary

import (
	"time"

	"github.com/Tiliavir/hours-calendar/internal/grid"
	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

// Summary aggregates a range of days. Rest days count neither as worked
// days nor towards hours.
type Summary struct {
	HoursWorked float64 `json:"hours_worked"`
	DaysWorked  int     `json:"days_worked"`
	RestDays    int     `json:"rest_days"`
}

func (s *Summary) add(e *model.WorkEntry) {
	switch {
	case e == nil:
	case e.IsRestDay:
		s.RestDays++
	case e.Hours > 0:
		s.HoursWorked += e.Hours
		s.DaysWorked++
	}
}

// Week folds exactly the given cells, which may span two months.
func Week(cells []model.CalendarCell) Summary {
	var s Summary
	for _, c := range cells {
		s.add(c.Entry)
	}
	return s
}

// Range folds every day in [from, to].
func Range(from, to time.Time, lookup grid.Lookup) Summary {
	var s Summary
	for _, d := range timecalc.Days(from, to) {
		if e, ok := lookup(timecalc.DateKey(d)); ok {
			s.add(&e)
		}
	}
	return s
}

// Month folds the calendar month containing ref, ignoring grid spillover.
func Month(ref time.Time, lookup grid.Lookup) Summary {
	first, last := timecalc.MonthRange(ref)
	return Range(first, last, lookup)
}
