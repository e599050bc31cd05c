// Package notify shows user-facing messages: always on the terminal and,
// when enabled, as desktop notifications.
package notify

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gen2brain/beeep"
)

const appName = "hcal"

// Notifier prints messages to w and optionally mirrors them to the desktop.
type Notifier struct {
	w       io.Writer
	desktop bool
	log     *slog.Logger

	// send is replaced in tests.
	send func(title, message string) error
}

// New returns a notifier writing to w.
func New(w io.Writer, desktop bool, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Notifier{w: w, desktop: desktop, log: log, send: desktopNotify}
}

// Info reports a success.
func (n *Notifier) Info(title, message string) {
	fmt.Fprintf(n.w, "%s\n", message)
	n.toDesktop(title, message)
}

// Error reports a failure the user should see, e.g. a persistence error.
func (n *Notifier) Error(title string, err error) {
	fmt.Fprintf(n.w, "Error: %v\n", err)
	n.toDesktop(title, err.Error())
}

// Alert mirrors a failure to the desktop only, for errors the caller prints
// itself.
func (n *Notifier) Alert(title string, err error) {
	n.toDesktop(title, err.Error())
}

func (n *Notifier) toDesktop(title, message string) {
	if !n.desktop {
		return
	}
	if err := n.send(appName+": "+title, message); err != nil {
		n.log.Debug("desktop notification failed", "err", err)
	}
}

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// MissingEntry formats the reminder for a day without an entry.
func MissingEntry(day string) (string, string) {
	return "Log your hours", fmt.Sprintf("No entry for %s yet. Run: hcal set %s --start HH:mm --end HH:mm", day, day)
}
