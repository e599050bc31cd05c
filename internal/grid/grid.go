// Package grid builds the Monday-first month grid shown by the calendar.
package grid

import (
	"time"

	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

// Lookup returns the entry stored for a date key, if any.
type Lookup func(key string) (model.WorkEntry, bool)

// Build returns the cells of the month containing ref, from the Monday on or
// before the 1st through the Sunday on or after the last day. Days of the
// neighbouring months are marked as outside the month but still carry
// their entries. lookup may be nil.
func Build(ref, today time.Time, lookup Lookup) []model.CalendarCell {
	first, last := timecalc.MonthRange(ref)
	start, _ := timecalc.WeekRange(first)
	_, end := timecalc.WeekRange(last)

	cells := make([]model.CalendarCell, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := timecalc.DateKey(d)
		cell := model.CalendarCell{
			Date:           d,
			Key:            key,
			InCurrentMonth: d.Month() == first.Month() && d.Year() == first.Year(),
			IsToday:        timecalc.SameDay(d, today.In(d.Location())),
		}
		if lookup != nil {
			if e, ok := lookup(key); ok {
				entry := e
				cell.Entry = &entry
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

// Weeks splits cells into consecutive rows of seven.
func Weeks(cells []model.CalendarCell) [][]model.CalendarCell {
	weeks := make([][]model.CalendarCell, 0, (len(cells)+6)/7)
	for i := 0; i < len(cells); i += 7 {
		end := i + 7
		if end > len(cells) {
			end = len(cells)
		}
		weeks = append(weeks, cells[i:end])
	}
	return weeks
}
