package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/grid"
	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/render"
	"github.com/Tiliavir/hours-calendar/internal/summary"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

var (
	reportMonth  string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show weekly and monthly totals",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Month to report (YYYY-MM, default current)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// weekRow is one grid row of the report. Weeks include days spilling into
// the neighbouring months.
type weekRow struct {
	Week    string          `json:"week"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Summary summary.Summary `json:"summary"`
}

type monthReport struct {
	Month string          `json:"month"`
	Weeks []weekRow       `json:"weeks"`
	Total summary.Summary `json:"total"`
}

func runReport(cmd *cobra.Command, args []string) error {
	a := current
	month, err := a.parseMonth(reportMonth)
	if err != nil {
		return err
	}
	if err := a.open(cmd.Context(), month); err != nil {
		return err
	}
	r := buildReport(month, a.engine.Grid(month), a.engine.MonthlySummary(month))

	w := out(cmd)
	switch reportFormat {
	case "csv":
		return writeReportCSV(w, r)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "md", "":
		writeReportText(w, r)
		return nil
	}
	return fmt.Errorf("unknown report format %q (want md, csv or json)", reportFormat)
}

func buildReport(month time.Time, cells []model.CalendarCell, total summary.Summary) monthReport {
	r := monthReport{Month: month.Format("2006-01"), Total: total}
	for _, week := range grid.Weeks(cells) {
		if len(week) == 0 {
			continue
		}
		first, last := week[0], week[len(week)-1]
		r.Weeks = append(r.Weeks, weekRow{
			Week:    timecalc.ISOWeekLabel(first.Date),
			From:    first.Key,
			To:      last.Key,
			Summary: summary.Week(week),
		})
	}
	return r
}

func writeReportText(w io.Writer, r monthReport) {
	fmt.Fprintf(w, "Month %s\n", r.Month)
	fmt.Fprintln(w, "--------------------------------------------")
	for _, wk := range r.Weeks {
		fmt.Fprintf(w, "%-10s%-24s%s\n", wk.Week, wk.From+" – "+wk.To, render.SummaryLine(wk.Summary))
	}
	fmt.Fprintln(w, "--------------------------------------------")
	fmt.Fprintf(w, "%-34s%s\n", "Total", render.MonthLine(r.Total))
}

func writeReportCSV(w io.Writer, r monthReport) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"week", "from", "to", "hours_worked", "days_worked", "rest_days"})
	for _, wk := range r.Weeks {
		_ = cw.Write(summaryRecord(wk.Week, wk.From, wk.To, wk.Summary))
	}
	_ = cw.Write(summaryRecord("total", r.Month, r.Month, r.Total))
	cw.Flush()
	return cw.Error()
}

func summaryRecord(label, from, to string, s summary.Summary) []string {
	return []string{
		label, from, to,
		timecalc.FormatDecimal(s.HoursWorked),
		strconv.Itoa(s.DaysWorked),
		strconv.Itoa(s.RestDays),
	}
}
