package timecalc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/model"
)

// FormatHours formats fractional hours as whole hours and minutes, e.g.
// "8h 30m". The total is rounded to whole minutes first, so 7h 59.5m
// prints as "8h 0m".
func FormatHours(hours float64) string {
	if hours < 0 {
		hours = 0
	}
	m := int64(math.Round(hours * 60))
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}

// FormatDecimal formats hours with two decimals, as used by exports.
func FormatDecimal(hours float64) string {
	return fmt.Sprintf("%.2f", hours)
}

// DateKey returns the ISO date key for t.
func DateKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

// ParseDate parses a YYYY-MM-DD date, or the words "today" and "yesterday",
// relative to now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return StartOfDay(now), nil
	case "yesterday":
		return StartOfDay(now.AddDate(0, 0, -1)), nil
	}
	d, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// ParseMonth parses a YYYY-MM month and returns its first day. An empty
// string means the month containing now.
func ParseMonth(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return StartOfMonth(now), nil
	}
	m, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return m, nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := monday.AddDate(0, 0, 6)
	return monday, sunday
}

// StartOfMonth returns 00:00 on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := StartOfMonth(t)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ISOWeek returns the ISO week number of t.
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Days returns every day in [from, to] inclusive.
func Days(from, to time.Time) []time.Time {
	var days []time.Time
	for d := StartOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
