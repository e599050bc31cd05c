package timecalc_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0h 0m"},
		{8, "8h 0m"},
		{8.5, "8h 30m"},
		{7.25, "7h 15m"},
		{0.75, "0h 45m"},
		{7 + 59.4/60, "7h 59m"},
		{7 + 59.5/60, "8h 0m"},
		{7 + 59.6/60, "8h 0m"},
		{1 + 29.5/60, "1h 30m"},
		{3 + 44.5/60, "3h 45m"},
		{-1, "0h 0m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatHours(tt.hours)
		if got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestShiftHours(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "17:30", 8.5},
		{"08:15", "12:00", 3.75},
		{"22:00", "06:00", 8},
		{"23:30", "00:15", 0.75},
		{"00:00", "23:59", 23 + 59.0/60},
		{"9:00", "17:00", 8},
	}
	for _, tt := range tests {
		start, err := timecalc.ParseClock(timecalc.FieldStart, tt.start)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tt.start, err)
		}
		end, err := timecalc.ParseClock(timecalc.FieldEnd, tt.end)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tt.end, err)
		}
		got, err := timecalc.ShiftHours(day, start, end)
		if err != nil {
			t.Fatalf("ShiftHours(%s, %s): %v", tt.start, tt.end, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ShiftHours(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestShiftHoursSameDayHasNoRollover(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 23; h++ {
		start := timecalc.Clock{Hour: h}
		end := timecalc.Clock{Hour: h + 1, Minute: 30}
		got, err := timecalc.ShiftHours(day, start, end)
		if err != nil {
			t.Fatalf("ShiftHours(%s, %s): %v", start, end, err)
		}
		if got != 1.5 {
			t.Errorf("ShiftHours(%s, %s) = %v, want 1.5", start, end, got)
		}
	}
}

func TestShiftHoursOvernightAddsDay(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for h := 1; h < 24; h++ {
		start := timecalc.Clock{Hour: h}
		end := timecalc.Clock{Hour: h - 1}
		got, err := timecalc.ShiftHours(day, start, end)
		if err != nil {
			t.Fatalf("ShiftHours(%s, %s): %v", start, end, err)
		}
		if got != 23 {
			t.Errorf("ShiftHours(%s, %s) = %v, want 23", start, end, got)
		}
	}
}

func TestShiftHoursEqualRejected(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	c := timecalc.Clock{Hour: 9}
	_, err := timecalc.ShiftHours(day, c, c)
	var verr *timecalc.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ShiftHours equal times: err = %v, want ValidationError", err)
	}
	if verr.Field != timecalc.FieldEnd || verr.Kind != timecalc.NotAfterStart {
		t.Errorf("ValidationError = %+v, want end field / NotAfterStart", verr)
	}
	if verr.Error() != "end must be after start" {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestParseClockErrors(t *testing.T) {
	tests := []struct {
		value string
		kind  timecalc.ValidationKind
	}{
		{"", timecalc.Missing},
		{"   ", timecalc.Missing},
		{"9:5", timecalc.Malformed},
		{"24:00", timecalc.Malformed},
		{"12:60", timecalc.Malformed},
		{"noon", timecalc.Malformed},
		{"12:3a", timecalc.Malformed},
	}
	for _, tt := range tests {
		_, err := timecalc.ParseClock(timecalc.FieldStart, tt.value)
		var verr *timecalc.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ParseClock(%q) err = %v, want ValidationError", tt.value, err)
			continue
		}
		if verr.Kind != tt.kind {
			t.Errorf("ParseClock(%q) kind = %v, want %v", tt.value, verr.Kind, tt.kind)
		}
		if verr.Field != timecalc.FieldStart {
			t.Errorf("ParseClock(%q) field = %q", tt.value, verr.Field)
		}
	}
}

func TestParseClockNormalises(t *testing.T) {
	c, err := timecalc.ParseClock(timecalc.FieldStart, "7:05")
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "07:05" {
		t.Errorf("String() = %q, want %q", c.String(), "07:05")
	}
}

func TestNormalizeClockInput(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0930", "09:30"},
		{"09:30", "09:30"},
		{"9:30", "9:30"},
		{"17", "17"},
		{"173000", "17:30"},
		{"1a7b3c0", "17:30"},
		{"", ""},
	}
	for _, tt := range tests {
		got := timecalc.NormalizeClockInput(tt.raw)
		if got != tt.want {
			t.Errorf("NormalizeClockInput(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestMonthRange(t *testing.T) {
	first, last := timecalc.MonthRange(time.Date(2024, 2, 17, 13, 0, 0, 0, time.UTC))
	if got := timecalc.DateKey(first); got != "2024-02-01" {
		t.Errorf("first = %s", got)
	}
	if got := timecalc.DateKey(last); got != "2024-02-29" {
		t.Errorf("last = %s", got)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
	if w := timecalc.ISOWeek(fri); w != 9 {
		t.Errorf("ISOWeek = %d, want 9", w)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 4, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want string
	}{
		{"today", "2026-10-16"},
		{"", "2026-10-16"},
		{"Yesterday", "2026-10-15"},
		{"2026-01-31", "2026-01-31"},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseDate(tt.in, now)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.in, err)
		}
		if timecalc.DateKey(got) != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, timecalc.DateKey(got), tt.want)
		}
	}
	if _, err := timecalc.ParseDate("31/01/2026", now); err == nil {
		t.Error("ParseDate: expected error for non-ISO date")
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 4, 0, 0, time.UTC)
	m, err := timecalc.ParseMonth("", now)
	if err != nil {
		t.Fatal(err)
	}
	if timecalc.DateKey(m) != "2026-10-01" {
		t.Errorf("ParseMonth(\"\") = %s", timecalc.DateKey(m))
	}
	m, err = timecalc.ParseMonth("2025-02", now)
	if err != nil {
		t.Fatal(err)
	}
	if timecalc.DateKey(m) != "2025-02-01" {
		t.Errorf("ParseMonth(2025-02) = %s", timecalc.DateKey(m))
	}
	if _, err := timecalc.ParseMonth("2025-13", now); err == nil {
		t.Error("ParseMonth: expected error for month 13")
	}
}
