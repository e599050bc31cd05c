// Package session persists who is signed in between hcal invocations.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrNoSession is returned by Load when nobody is signed in.
	ErrNoSession = errors.New("not signed in")
	// ErrInvalidCredentials is returned when email and password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned by SignUp for an already registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWeakPassword is returned by SignUp for passwords below MinPasswordLen.
	ErrWeakPassword = errors.New("password too short")
)

// MinPasswordLen is the shortest password accepted at sign-up.
const MinPasswordLen = 6

// Session is a signed-in user. Token is set only for the remote backend.
type Session struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	Backend   string        `json:"backend"`
	Token     *oauth2.Token `json:"token,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Authenticator signs users up and in.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
}

// CheckCredentials validates the shape of an email/password pair before it
// is sent anywhere.
func CheckCredentials(email, password string, signUp bool) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email %q", email)
	}
	if password == "" {
		return "", errors.New("password is required")
	}
	if signUp && len(password) < MinPasswordLen {
		return "", fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, MinPasswordLen)
	}
	return email, nil
}

// Manager stores the session as JSON in a single file.
type Manager struct {
	path string
}

// NewManager returns a manager keeping session.json in dir.
func NewManager(dir string) *Manager {
	return &Manager{path: filepath.Join(dir, "session.json")}
}

// Path returns the session file location.
func (m *Manager) Path() string { return m.path }

// Load returns the saved session, or ErrNoSession. A corrupt file is moved
// aside to <path>.corrupt.
func (m *Manager) Load() (Session, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session %s: %w", m.path, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		backupPath := m.path + ".corrupt"
		_ = os.Rename(m.path, backupPath)
		return Session{}, fmt.Errorf("corrupt session in %s (backed up to %s): %w", m.path, backupPath, err)
	}
	if s.UserID == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Save atomically writes s.
func (m *Manager) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving session file: %w", err)
	}
	return nil
}

// SaveToken replaces the token of the saved session. It is a no-op when
// nobody is signed in.
func (m *Manager) SaveToken(tok *oauth2.Token) error {
	s, err := m.Load()
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	s.Token = tok
	return m.Save(s)
}

// Clear removes the session file. Clearing twice is not an error.
func (m *Manager) Clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
