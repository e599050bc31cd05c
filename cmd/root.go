package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hours-calendar/internal/calendar"
	"github.com/Tiliavir/hours-calendar/internal/config"
	"github.com/Tiliavir/hours-calendar/internal/logging"
	"github.com/Tiliavir/hours-calendar/internal/notify"
	"github.com/Tiliavir/hours-calendar/internal/remote"
	"github.com/Tiliavir/hours-calendar/internal/render"
	"github.com/Tiliavir/hours-calendar/internal/session"
	"github.com/Tiliavir/hours-calendar/internal/storage"
	"github.com/Tiliavir/hours-calendar/internal/store"
)

var (
	cfgPath string
	verbose bool

	// current is the app built for the running command.
	current *app
)

var rootCmd = &cobra.Command{
	Use:   "hcal",
	Short: "hcal – a work-hours calendar",
	Long: `hcal records one entry per day (a shift or a rest day), shows a
Monday-first month calendar with weekly and monthly totals, and exports
months as CSV, JSON, XLSX or PDF. Entries live in a local SQLite database
(~/.hcal/) or on a hosted backend.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute is the entry point called from main.
func Execute() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	_ = teardown(rootCmd, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default ~/.hcal/config.yaml, or $HCAL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(restCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(remindCmd)
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	sessions *session.Manager
	auth     session.Authenticator
	engine   *calendar.Engine
	notifier *notify.Notifier
	theme    render.Theme
	close    func() error
}

// backend is what both backends provide.
type backend interface {
	store.Backend
	session.Authenticator
}

// now is the clock used by every command.
var now = time.Now

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logging.New(level, cmd.ErrOrStderr())
	sessions := session.NewManager(cfg.DataDir)

	var (
		be      backend
		closeFn = func() error { return nil }
	)
	switch cfg.Backend {
	case config.BackendRemote:
		be = remote.New(remote.Config{
			URL:      cfg.Remote.URL,
			APIKey:   cfg.Remote.APIKey,
			ClientID: cfg.Remote.ClientID,
			TokenURL: cfg.Remote.TokenURL,
			Timeout:  cfg.Remote.Timeout,
		}, sessions, log.With("component", "remote"))
	default:
		db, err := storage.Open(storage.Path(cfg.DataDir), sessions)
		if err != nil {
			return err
		}
		be, closeFn = db, db.Close
	}
	log.Debug("backend ready", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	current = &app{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		auth:     be,
		engine: calendar.New(be, calendar.Options{
			Location: cfg.Location(),
			Now:      now,
			Logger:   log,
			Session:  sessions,
		}),
		notifier: notify.New(cmd.ErrOrStderr(), cfg.Notifications.Desktop, log),
		theme:    render.ResolveTheme(cfg.Theme),
		close:    closeFn,
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if current == nil {
		return nil
	}
	err := current.close()
	current = nil
	return err
}

// fail reports err to the user and returns it for cobra.
func (a *app) fail(title string, err error) error {
	var perr *store.PersistenceError
	switch {
	case errors.Is(err, store.ErrAuthRequired):
		err = errors.New("sign in first: run hcal login (or hcal signup)")
		a.notifier.Alert("Sign in required", err)
	case errors.As(err, &perr):
		a.notifier.Alert(title, err)
	case errors.Is(err, remote.ErrUnauthorized):
		a.notifier.Alert("Session expired", err)
	}
	return err
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
