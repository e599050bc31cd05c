package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry of the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	a := current
	if err := a.open(cmd.Context(), a.today()); err != nil {
		return err
	}
	n := len(a.engine.Store().All())

	if !clearYes {
		fmt.Fprintf(cmd.ErrOrStderr(), "Delete all %d entries? [y/N] ", n)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			return errors.New("aborted")
		}
	}

	if err := a.engine.ClearAll(cmd.Context()); err != nil {
		return a.fail("Clear failed", err)
	}
	fmt.Fprintf(out(cmd), "Deleted %d entries.\n", n)
	return nil
}
