package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/render"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

var (
	listMonth string
	listWeek  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of a month or of this week",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listMonth, "month", "", "Month to list (YYYY-MM, default current)")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "List this week's entries")
}

func runList(cmd *cobra.Command, args []string) error {
	a := current

	var from, to time.Time
	if listWeek {
		from, to = timecalc.WeekRange(a.today())
	} else {
		month, err := a.parseMonth(listMonth)
		if err != nil {
			return err
		}
		from, to = timecalc.MonthRange(month)
	}
	if err := a.open(cmd.Context(), from); err != nil {
		return err
	}

	printList(out(cmd), a.engine.Store().Range(from, to))
	return nil
}

// printList groups entries by ISO week and prints them.
func printList(w io.Writer, entries []model.WorkEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	var currentWeek string
	for _, e := range entries {
		if d, err := time.Parse(model.DateLayout, e.Date); err == nil {
			if week := timecalc.ISOWeekLabel(d); week != currentWeek {
				fmt.Fprintln(w, week)
				currentWeek = week
			}
		}
		fmt.Fprintf(w, "  %s\n", render.Entry(e))
	}
}
