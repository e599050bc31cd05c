package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/editor"
	"github.com/Tiliavir/hours-calendar/internal/render"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

// today returns the current day in the configured zone.
func (a *app) today() time.Time {
	return a.engine.Today()
}

// parseDay reads an optional date argument (YYYY-MM-DD, today, yesterday).
func (a *app) parseDay(args []string) (time.Time, error) {
	s := ""
	if len(args) > 0 {
		s = args[0]
	}
	return timecalc.ParseDate(s, now().In(a.engine.Location()))
}

// parseMonth reads a --month flag value (YYYY-MM, empty = current month).
func (a *app) parseMonth(s string) (time.Time, error) {
	return timecalc.ParseMonth(s, now().In(a.engine.Location()))
}

// open loads the signed-in user's entries for month.
func (a *app) open(ctx context.Context, month time.Time) error {
	if err := a.engine.Open(ctx, month); err != nil {
		return a.fail("Could not load entries", err)
	}
	return nil
}

// printFieldErrors writes one line per invalid field.
func printFieldErrors(w io.Writer, fe *editor.FieldErrors) {
	if fe.Start != nil {
		fmt.Fprintf(w, "  --start: %v\n", fe.Start)
	}
	if fe.End != nil {
		fmt.Fprintf(w, "  --end: %v\n", fe.End)
	}
}

// saveDraft saves d for day through the editor and reports the outcome.
func (a *app) saveDraft(ctx context.Context, w, errw io.Writer, day time.Time, d editor.Draft) error {
	ed := a.engine.Editor()
	if err := ed.OpenFor(day); err != nil {
		return err
	}
	defer ed.Cancel()

	entry, err := ed.Save(ctx, d)
	var fe *editor.FieldErrors
	if errors.As(err, &fe) {
		fmt.Fprintln(errw, "Invalid times:")
		printFieldErrors(errw, fe)
		return errors.New("entry not saved")
	}
	if err != nil {
		return a.fail("Save failed", err)
	}
	a.log.Debug("saved", "date", entry.Date, "id", entry.ID)
	fmt.Fprintf(w, "Saved %s\n", render.Entry(entry))
	return nil
}
