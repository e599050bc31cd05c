package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/remind"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

var remindOnce bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Remind on schedule when today has no entry",
	Long: `Run in the foreground and check reminder.schedule (a five-field cron
expression, default "0 18 * * 1-5") for a missing entry on the current
day. With --once the check runs immediately and the command exits.`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().BoolVar(&remindOnce, "once", false, "Check once now and exit")
}

func runRemind(cmd *cobra.Command, args []string) error {
	a := current
	if !a.cfg.Reminder.Enabled && !remindOnce {
		return errors.New("reminders are disabled (set reminder.enabled: true)")
	}

	has := func(ctx context.Context, day time.Time) (bool, error) {
		if err := a.engine.Open(ctx, day); err != nil {
			return false, err
		}
		_, ok := a.engine.Store().Get(timecalc.DateKey(day))
		return ok, nil
	}
	r, err := remind.New(a.cfg.Reminder.Schedule, a.cfg.ReminderLocation(), has, a.notifier.Info, a.log.With("component", "remind"))
	if err != nil {
		return err
	}

	if remindOnce {
		sent, err := r.Check(cmd.Context(), now())
		if err != nil {
			return a.fail("Reminder failed", err)
		}
		if !sent {
			fmt.Fprintln(out(cmd), "Today already has an entry.")
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(out(cmd), "Reminding on %q, next at %s. Press Ctrl+C to stop.\n",
		a.cfg.Reminder.Schedule, r.Next(now()).Format("2006-01-02 15:04"))
	return r.Run(ctx)
}
