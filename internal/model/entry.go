package model

import (
	"errors"
	"time"
)

// DateLayout is the layout of a date key ("2006-01-02").
const DateLayout = "2006-01-02"

// WorkEntry is one day's work record. It is a value type: edits produce a
// new WorkEntry that replaces the old one, fields are never changed in place.
type WorkEntry struct {
	ID        string  `json:"id,omitempty"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`
	Hours     float64 `json:"hours"`
	IsRestDay bool    `json:"is_rest_day"`
	Notes     string  `json:"notes,omitempty"`
}

// Worked reports whether the entry records worked hours.
func (e WorkEntry) Worked() bool {
	return !e.IsRestDay && e.Hours > 0
}

// Day parses the entry date in loc.
func (e WorkEntry) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, loc)
}

// Validate checks the persisted-entry invariant: either a rest day without
// times and hours, or a shift with start, end and positive hours.
func (e WorkEntry) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return errors.New("entry date must be YYYY-MM-DD")
	}
	if e.IsRestDay {
		if e.StartTime != "" || e.EndTime != "" || e.Hours != 0 {
			return errors.New("rest day cannot carry start, end or hours")
		}
		return nil
	}
	if e.StartTime == "" || e.EndTime == "" {
		return errors.New("worked day needs start and end time")
	}
	if e.Hours <= 0 {
		return errors.New("worked day needs positive hours")
	}
	return nil
}

// CalendarCell is one day in the month grid. Cells are rebuilt whenever the
// displayed month changes and own no mutable state.
type CalendarCell struct {
	Date           time.Time
	Key            string
	InCurrentMonth bool
	IsToday        bool
	Entry          *WorkEntry
}
