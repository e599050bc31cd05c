// Package storage is the local backend: accounts and work entries in a
// SQLite file under the data directory.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/session"
	"github.com/Tiliavir/hours-calendar/internal/store"
)

// BackendName is recorded in sessions created by this package.
const BackendName = "local"

// ErrNotFound is returned when an entry ID does not exist.
var ErrNotFound = errors.New("entry not found")

//go:embed schema.sql
var schemaFS embed.FS

// SessionSource yields the saved session.
type SessionSource interface {
	Load() (session.Session, error)
}

// DB is a SQLite-backed store.Backend and session.Authenticator.
type DB struct {
	db       *sql.DB
	sessions SessionSource
	now      func() time.Time
}

// Path returns the database file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, "hcal.db")
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string, sessions SessionSource) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=journal_mode(WAL)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage error opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db, sessions: sessions, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(b)); err != nil {
		return errors.Join(errors.New("storage error applying schema"), err)
	}
	return nil
}

// Close closes the database.
func (d *DB) Close() error { return d.db.Close() }

// SignUp registers a new account.
func (d *DB) SignUp(ctx context.Context, email, password string) (session.Session, error) {
	email, err := session.CheckCredentials(email, password, true)
	if err != nil {
		return session.Session{}, err
	}
	var exists int
	err = d.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		return session.Session{}, fmt.Errorf("storage error looking up user: %w", err)
	}
	if exists > 0 {
		return session.Session{}, session.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return session.Session{}, fmt.Errorf("hashing password: %w", err)
	}
	now := d.now().UTC()
	id := uuid.NewString()
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, email, hash, now.Format(time.RFC3339))
	if err != nil {
		return session.Session{}, fmt.Errorf("storage error creating user: %w", err)
	}
	return session.Session{UserID: id, Email: email, Backend: BackendName, CreatedAt: now}, nil
}

// SignIn checks email and password against the stored hash.
func (d *DB) SignIn(ctx context.Context, email, password string) (session.Session, error) {
	email, err := session.CheckCredentials(email, password, false)
	if err != nil {
		return session.Session{}, err
	}
	var (
		id   string
		hash []byte
	)
	err = d.db.QueryRowContext(ctx, `SELECT id, password_hash FROM users WHERE email = ?`, email).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, session.ErrInvalidCredentials
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("storage error looking up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return session.Session{}, session.ErrInvalidCredentials
	}
	return session.Session{UserID: id, Email: email, Backend: BackendName, CreatedAt: d.now().UTC()}, nil
}

// CurrentUser returns the user of the saved local session if that account
// still exists, "" otherwise.
func (d *DB) CurrentUser(ctx context.Context) (string, error) {
	if d.sessions == nil {
		return "", nil
	}
	s, err := d.sessions.Load()
	if errors.Is(err, session.ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if s.Backend != BackendName {
		return "", nil
	}
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, s.UserID).Scan(&n); err != nil {
		return "", fmt.Errorf("storage error looking up user: %w", err)
	}
	if n == 0 {
		return "", nil
	}
	return s.UserID, nil
}

const entryColumns = `id, date, start_time, end_time, hours, is_rest_day, notes`

// FetchEntries returns every entry of userID ordered by date.
func (d *DB) FetchEntries(ctx context.Context, userID string) ([]model.WorkEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM work_entries WHERE user_id = ? ORDER BY date`, userID)
	if err != nil {
		return nil, fmt.Errorf("storage error fetching entries: %w", err)
	}
	defer rows.Close()

	var out []model.WorkEntry
	for rows.Next() {
		var (
			e          model.WorkEntry
			start, end sql.NullString
			notes      sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Date, &start, &end, &e.Hours, &e.IsRestDay, &notes); err != nil {
			return nil, fmt.Errorf("storage error scanning entry: %w", err)
		}
		e.StartTime, e.EndTime, e.Notes = start.String, end.String, notes.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertEntry stores entry for userID. An entry already stored for the same
// date is overwritten and keeps its ID.
func (d *DB) InsertEntry(ctx context.Context, userID string, entry model.WorkEntry) (model.WorkEntry, error) {
	entry.ID = uuid.NewString()
	_, err := d.db.ExecContext(ctx, `
INSERT INTO work_entries (id, user_id, date, start_time, end_time, hours, is_rest_day, notes, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, date) DO UPDATE SET
    start_time = excluded.start_time,
    end_time = excluded.end_time,
    hours = excluded.hours,
    is_rest_day = excluded.is_rest_day,
    notes = excluded.notes,
    updated_at = excluded.updated_at`,
		entry.ID, userID, entry.Date, nullable(entry.StartTime), nullable(entry.EndTime),
		entry.Hours, entry.IsRestDay, nullable(entry.Notes), d.stamp())
	if err != nil {
		return model.WorkEntry{}, fmt.Errorf("storage error inserting entry %s: %w", entry.Date, err)
	}
	err = d.db.QueryRowContext(ctx,
		`SELECT id FROM work_entries WHERE user_id = ? AND date = ?`, userID, entry.Date).Scan(&entry.ID)
	if err != nil {
		return model.WorkEntry{}, fmt.Errorf("storage error reading entry id: %w", err)
	}
	return entry, nil
}

// owner returns the signed-in account that id-based writes are scoped to.
func (d *DB) owner(ctx context.Context) (string, error) {
	user, err := d.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user == "" {
		return "", store.ErrAuthRequired
	}
	return user, nil
}

// UpdateEntry overwrites the signed-in user's entry with the given id.
// Entries of other accounts are reported as ErrNotFound.
func (d *DB) UpdateEntry(ctx context.Context, id string, entry model.WorkEntry) error {
	user, err := d.owner(ctx)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx, `
UPDATE work_entries
SET date = ?, start_time = ?, end_time = ?, hours = ?, is_rest_day = ?, notes = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		entry.Date, nullable(entry.StartTime), nullable(entry.EndTime),
		entry.Hours, entry.IsRestDay, nullable(entry.Notes), d.stamp(), id, user)
	if err != nil {
		return fmt.Errorf("storage error updating entry %s: %w", id, err)
	}
	return expectOne(res, id)
}

// DeleteEntry removes the signed-in user's entry with the given id.
func (d *DB) DeleteEntry(ctx context.Context, id string) error {
	user, err := d.owner(ctx)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx, `DELETE FROM work_entries WHERE id = ? AND user_id = ?`, id, user)
	if err != nil {
		return fmt.Errorf("storage error deleting entry %s: %w", id, err)
	}
	return expectOne(res, id)
}

// DeleteAllEntries removes every entry of userID.
func (d *DB) DeleteAllEntries(ctx context.Context, userID string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM work_entries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("storage error clearing entries: %w", err)
	}
	return nil
}

func (d *DB) stamp() string {
	return d.now().UTC().Format(time.RFC3339)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
