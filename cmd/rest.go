package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/editor"
)

var restNotes string

var restCmd = &cobra.Command{
	Use:   "rest [date]",
	Short: "Mark a day as a rest day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRest,
}

func init() {
	restCmd.Flags().StringVar(&restNotes, "notes", "", "Notes for the day")
}

func runRest(cmd *cobra.Command, args []string) error {
	a := current
	day, err := a.parseDay(args)
	if err != nil {
		return err
	}
	if err := a.open(cmd.Context(), day); err != nil {
		return err
	}
	return a.saveDraft(cmd.Context(), out(cmd), cmd.ErrOrStderr(), day, editor.Draft{IsRestDay: true, Notes: restNotes})
}
