// Package render draws the month grid and summaries for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/hours-calendar/internal/grid"
	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/summary"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

const cellWidth = 10

// Theme holds the styles of one colour scheme.
type Theme struct {
	Name    string
	Title   lipgloss.Style
	Header  lipgloss.Style
	Day     lipgloss.Style
	Outside lipgloss.Style
	Today   lipgloss.Style
	Worked  lipgloss.Style
	Rest    lipgloss.Style
	Summary lipgloss.Style
	Hint    lipgloss.Style
}

// DarkTheme is used on dark terminals.
var DarkTheme = Theme{
	Name:    "dark",
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
	Day:     lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")),
	Outside: lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#6C7086")),
	Today:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#F9E2AF")),
	Worked:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
	Rest:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	Summary: lipgloss.NewStyle().Foreground(lipgloss.Color("#CBA6F7")),
	Hint:    lipgloss.NewStyle().Faint(true),
}

// LightTheme is used on light terminals.
var LightTheme = Theme{
	Name:    "light",
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#40A02B")),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E66F5")),
	Day:     lipgloss.NewStyle().Foreground(lipgloss.Color("#4C4F69")),
	Outside: lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#9CA0B0")),
	Today:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#DF8E1D")),
	Worked:  lipgloss.NewStyle().Foreground(lipgloss.Color("#40A02B")),
	Rest:    lipgloss.NewStyle().Foreground(lipgloss.Color("#D20F39")),
	Summary: lipgloss.NewStyle().Foreground(lipgloss.Color("#8839EF")),
	Hint:    lipgloss.NewStyle().Faint(true),
}

// ResolveTheme picks the theme for mode ("light", "dark" or "system").
// System asks the terminal for its background colour.
func ResolveTheme(mode string) Theme {
	return resolveTheme(mode, lipgloss.HasDarkBackground)
}

func resolveTheme(mode string, dark func() bool) Theme {
	switch strings.ToLower(mode) {
	case "light":
		return LightTheme
	case "dark":
		return DarkTheme
	}
	if dark() {
		return DarkTheme
	}
	return LightTheme
}

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Month writes the grid of cells for month, one row per week followed by
// the week's totals, then the month's totals.
func Month(w io.Writer, th Theme, month time.Time, cells []model.CalendarCell, total summary.Summary) error {
	var b strings.Builder
	b.WriteString(th.Title.Render(month.Format("January 2006")))
	b.WriteString("\n\n")

	for _, d := range weekdays {
		b.WriteString(th.Header.Width(cellWidth).Render(d))
	}
	b.WriteString(th.Header.Render("Week"))
	b.WriteString("\n")

	for _, week := range grid.Weeks(cells) {
		for _, c := range week {
			b.WriteString(cellStyle(th, c).Width(cellWidth).Render(cellText(c)))
		}
		b.WriteString(th.Summary.Render(SummaryLine(summary.Week(week))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(th.Title.Render("Month: "))
	b.WriteString(th.Summary.Render(MonthLine(total)))
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func cellStyle(th Theme, c model.CalendarCell) lipgloss.Style {
	switch {
	case c.IsToday:
		return th.Today
	case !c.InCurrentMonth:
		return th.Outside
	case c.Entry != nil && c.Entry.IsRestDay:
		return th.Rest
	case c.Entry != nil:
		return th.Worked
	}
	return th.Day
}

// cellText is the day number and what was recorded, e.g. "14 8.5h".
func cellText(c model.CalendarCell) string {
	day := fmt.Sprintf("%2d", c.Date.Day())
	switch {
	case c.Entry == nil:
		return day
	case c.Entry.IsRestDay:
		return day + " rest"
	default:
		return fmt.Sprintf("%s %sh", day, strings.TrimSuffix(strings.TrimRight(timecalc.FormatDecimal(c.Entry.Hours), "0"), "."))
	}
}

// SummaryLine formats a week total, e.g. "16h 0m · 2 days".
func SummaryLine(s summary.Summary) string {
	return fmt.Sprintf("%s · %d days", timecalc.FormatHours(s.HoursWorked), s.DaysWorked)
}

// MonthLine formats a month total including rest days.
func MonthLine(s summary.Summary) string {
	return fmt.Sprintf("%s · %d days worked · %d rest days", timecalc.FormatHours(s.HoursWorked), s.DaysWorked, s.RestDays)
}

// Entry formats a single entry for list output.
func Entry(e model.WorkEntry) string {
	if e.IsRestDay {
		line := e.Date + "  rest day"
		if e.Notes != "" {
			line += "  " + e.Notes
		}
		return line
	}
	line := fmt.Sprintf("%s  %s–%s  %s", e.Date, e.StartTime, e.EndTime, timecalc.FormatHours(e.Hours))
	if e.Notes != "" {
		line += "  " + e.Notes
	}
	return line
}
