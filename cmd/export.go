package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Tiliavir/hours-calendar/internal/export"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

var (
	exportMonth  string
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a month of entries",
	Long: `Export a month of entries as CSV, JSON, XLSX or PDF.

CSV output quotes every field and starts with two metadata lines (title
and generation time) before the header row. XLSX and PDF are not written
to a terminal: without --output they go to hours-YYYY-MM.<format>.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export (YYYY-MM, default current)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, xlsx, pdf")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	a := current
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	month, err := a.parseMonth(exportMonth)
	if err != nil {
		return err
	}
	if err := a.open(cmd.Context(), month); err != nil {
		return err
	}

	from, to := timecalc.MonthRange(month)
	r := export.Report{
		Month:     month,
		Generated: now().In(a.engine.Location()),
		Entries:   a.engine.Store().Range(from, to),
		Summary:   a.engine.MonthlySummary(month),
	}
	if s, err := a.sessions.Load(); err == nil {
		r.Email = s.Email
	}

	path := exportOutput
	if path == "" && format.Binary() && isTerminal(out(cmd)) {
		path = export.Filename(format, r)
	}
	if path == "" {
		return export.Write(out(cmd), format, r)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(f, format, r); err != nil {
		f.Close()
		return a.fail("Export failed", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	a.log.Debug("exported", "path", path, "format", format, "entries", len(r.Entries))
	a.notifier.Info("Export complete", fmt.Sprintf("%d entries written to %s", len(r.Entries), path))
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
