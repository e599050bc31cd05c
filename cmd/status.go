package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/render"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's entry and this week's total",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := current
	today := a.today()
	if err := a.open(cmd.Context(), today); err != nil {
		return err
	}

	w := out(cmd)
	if e, ok := a.engine.Store().Get(timecalc.DateKey(today)); ok {
		fmt.Fprintf(w, "Today: %s\n", render.Entry(e))
	} else {
		fmt.Fprintf(w, "Today: no entry for %s.\n", timecalc.DateKey(today))
	}
	fmt.Fprintf(w, "Week %s: %s\n", timecalc.ISOWeekLabel(today), render.SummaryLine(a.engine.WeekOf(today)))
	return nil
}
