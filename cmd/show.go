package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/render"
)

var showMonth string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the month calendar with weekly and monthly totals",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showMonth, "month", "", "Month to show (YYYY-MM, default current)")
}

func runShow(cmd *cobra.Command, args []string) error {
	a := current
	month, err := a.parseMonth(showMonth)
	if err != nil {
		return err
	}
	if err := a.open(cmd.Context(), month); err != nil {
		return err
	}
	return render.Month(out(cmd), a.theme, month, a.engine.Grid(month), a.engine.MonthlySummary(month))
}
