// Package export writes a month of work entries as CSV, JSON, XLSX or PDF.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/summary"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

// Format is an output format name.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

// ParseFormat accepts csv, json, xlsx and pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, XLSX, PDF:
		return f, nil
	case "":
		return CSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json, xlsx or pdf)", s)
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool { return f == XLSX || f == PDF }

// Report is one exported month.
type Report struct {
	Month     time.Time
	Generated time.Time
	Email     string
	Entries   []model.WorkEntry
	Summary   summary.Summary
}

// header is the column row following the two metadata lines.
var header = []string{"Date", "Start", "End", "Hours", "Rest day", "Notes", "ISO week"}

// metadata returns the two lines written before the header.
func (r Report) metadata() [][]string {
	title := "Work hours " + r.Month.Format("2006-01")
	if r.Email != "" {
		title += " (" + r.Email + ")"
	}
	return [][]string{
		{title},
		{"Generated " + r.Generated.Format(time.RFC3339)},
	}
}

// rows returns one record per entry in header order.
func (r Report) rows() [][]string {
	out := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		week := ""
		if d, err := time.Parse(model.DateLayout, e.Date); err == nil {
			week = strconv.Itoa(timecalc.ISOWeek(d))
		}
		out = append(out, []string{
			e.Date,
			e.StartTime,
			e.EndTime,
			timecalc.FormatDecimal(e.Hours),
			yesNo(e.IsRestDay),
			e.Notes,
			week,
		})
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case CSV:
		return WriteCSV(w, r)
	case JSON:
		return WriteJSON(w, r)
	case XLSX:
		return WriteXLSX(w, r)
	case PDF:
		return WritePDF(w, r)
	}
	return fmt.Errorf("unknown export format %q", f)
}

type jsonReport struct {
	Month     string            `json:"month"`
	Generated time.Time         `json:"generated"`
	Email     string            `json:"email,omitempty"`
	Summary   summary.Summary   `json:"summary"`
	Entries   []model.WorkEntry `json:"entries"`
}

// WriteJSON writes the report as an indented JSON document.
func WriteJSON(w io.Writer, r Report) error {
	entries := r.Entries
	if entries == nil {
		entries = []model.WorkEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Month:     r.Month.Format("2006-01"),
		Generated: r.Generated,
		Email:     r.Email,
		Summary:   r.Summary,
		Entries:   entries,
	})
}

// Filename suggests an output file name for r in format f.
func Filename(f Format, r Report) string {
	return fmt.Sprintf("hours-%s.%s", r.Month.Format("2006-01"), f)
}
