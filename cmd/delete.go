package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [date]",
	Short: "Delete the entry of a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
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
	defer ed.Cancel()

	key := timecalc.DateKey(day)
	if _, ok := ed.Seed(); !ok {
		fmt.Fprintf(out(cmd), "No entry for %s.\n", key)
		return nil
	}
	if err := ed.Delete(cmd.Context()); err != nil {
		return a.fail("Delete failed", err)
	}
	fmt.Fprintf(out(cmd), "Deleted %s.\n", key)
	return nil
}
