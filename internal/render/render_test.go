package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/grid"
	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/summary"
)

func TestResolveTheme(t *testing.T) {
	tests := []struct {
		mode string
		dark bool
		want string
	}{
		{"light", true, "light"},
		{"DARK", false, "dark"},
		{"system", true, "dark"},
		{"system", false, "light"},
		{"", false, "light"},
	}
	for _, tt := range tests {
		got := resolveTheme(tt.mode, func() bool { return tt.dark })
		if got.Name != tt.want {
			t.Errorf("resolveTheme(%q, dark=%v) = %s, want %s", tt.mode, tt.dark, got.Name, tt.want)
		}
	}
}

func TestCellText(t *testing.T) {
	day := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		entry *model.WorkEntry
		want  string
	}{
		{nil, " 5"},
		{&model.WorkEntry{IsRestDay: true}, " 5 rest"},
		{&model.WorkEntry{Hours: 8.5}, " 5 8.5h"},
		{&model.WorkEntry{Hours: 8}, " 5 8h"},
		{&model.WorkEntry{Hours: 7.25}, " 5 7.25h"},
	}
	for _, tt := range tests {
		got := cellText(model.CalendarCell{Date: day, Entry: tt.entry})
		if got != tt.want {
			t.Errorf("cellText(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestMonth(t *testing.T) {
	entries := map[string]model.WorkEntry{
		"2026-10-12": {Date: "2026-10-12", StartTime: "09:00", EndTime: "17:00", Hours: 8},
		"2026-10-13": {Date: "2026-10-13", StartTime: "09:00", EndTime: "17:00", Hours: 8},
		"2026-10-14": {Date: "2026-10-14", IsRestDay: true},
	}
	lookup := func(k string) (model.WorkEntry, bool) { e, ok := entries[k]; return e, ok }
	month := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	cells := grid.Build(month, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), lookup)

	var buf bytes.Buffer
	if err := Month(&buf, LightTheme, month, cells, summary.Month(month, lookup)); err != nil {
		t.Fatalf("Month: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"October 2026", "Mon", "Sun", "12 8h", "14 rest", "16h 0m · 2 days", "1 rest days"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	// Title, blank, header, five weeks, blank, month line.
	if n := strings.Count(out, "\n"); n != 10 {
		t.Errorf("got %d lines, want 10:\n%s", n, out)
	}
}

func TestEntry(t *testing.T) {
	got := Entry(model.WorkEntry{Date: "2026-10-13", StartTime: "22:00", EndTime: "06:00", Hours: 8, Notes: "night"})
	if got != "2026-10-13  22:00–06:00  8h 0m  night" {
		t.Errorf("Entry = %q", got)
	}
	if got := Entry(model.WorkEntry{Date: "2026-10-14", IsRestDay: true}); got != "2026-10-14  rest day" {
		t.Errorf("Entry rest = %q", got)
	}
}
