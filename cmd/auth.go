package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Tiliavir/hours-calendar/internal/session"
)

var (
	authEmail         string
	authPasswordStdin bool
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the password from stdin")
		_ = c.MarkFlagRequired("email")
	}
}

// readPassword prompts without echo on a terminal, otherwise reads one line.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !authPasswordStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	return authenticate(cmd, true)
}

func runLogin(cmd *cobra.Command, args []string) error {
	return authenticate(cmd, false)
}

func authenticate(cmd *cobra.Command, signUp bool) error {
	a := current
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	var s session.Session
	if signUp {
		s, err = a.auth.SignUp(cmd.Context(), authEmail, password)
	} else {
		s, err = a.auth.SignIn(cmd.Context(), authEmail, password)
	}
	if err != nil {
		title := "Sign-in failed"
		if signUp {
			title = "Sign-up failed"
		}
		a.notifier.Alert(title, err)
		return err
	}
	if err := a.sessions.Save(s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	msg := "Signed in as " + s.Email
	if signUp {
		msg = "Account created. " + msg
	}
	a.notifier.Info("Welcome", msg)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a := current
	if err := a.engine.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(out(cmd), "Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	s, err := current.sessions.Load()
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(out(cmd), "Not signed in.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "%s (%s backend)\n", s.Email, s.Backend)
	return nil
}
