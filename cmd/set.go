package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

var (
	setStart string
	setEnd   string
	setNotes string
)

var setCmd = &cobra.Command{
	Use:   "set [date]",
	Short: "Record a shift for a day (default today)",
	Long: `Record the shift worked on a day. Times are 24-hour HH:mm; "0930" is
read as 09:30. An end before the start means the shift ended the next
morning, so --start 22:00 --end 06:00 is 8 hours.

Flags left out keep the values already stored for that day.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setStart, "start", "", "Start time (HH:mm)")
	setCmd.Flags().StringVar(&setEnd, "end", "", "End time (HH:mm)")
	setCmd.Flags().StringVar(&setNotes, "notes", "", "Notes for the day")
}

func runSet(cmd *cobra.Command, args []string) error {
	a := current
	day, err := a.parseDay(args)
	if err != nil {
		return err
	}
	if err := a.open(cmd.Context(), day); err != nil {
		return err
	}

	ed := a.engine.Editor()
	if err := ed.OpenFor(day); err != nil {
		return err
	}
	d := ed.Draft()
	ed.Cancel()

	d.IsRestDay = false
	if cmd.Flags().Changed("start") {
		d.StartTime = timecalc.NormalizeClockInput(setStart)
	}
	if cmd.Flags().Changed("end") {
		d.EndTime = timecalc.NormalizeClockInput(setEnd)
	}
	if cmd.Flags().Changed("notes") {
		d.Notes = setNotes
	}
	return a.saveDraft(cmd.Context(), out(cmd), cmd.ErrOrStderr(), day, d)
}
