// Package store keeps the in-memory projection of a user's work entries and
// reconciles it with a Backend. Local state changes only after the backend
// has confirmed a write.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Tiliavir/hours-calendar/internal/model"
	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

// Store maps date keys to the signed-in user's entries.
type Store struct {
	backend Backend
	log     *slog.Logger

	mu      sync.RWMutex
	userID  string
	month   time.Time
	entries map[string]model.WorkEntry
}

// New returns an empty store on top of backend. A nil logger discards.
func New(backend Backend, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{
		backend: backend,
		log:     log,
		entries: map[string]model.WorkEntry{},
	}
}

// Load replaces the local entries with everything the backend holds for
// userID. The backend is not filtered by month: the whole set is cached and
// month records which month triggered the load. On failure the store is
// left empty.
func (s *Store) Load(ctx context.Context, userID string, month time.Time) error {
	if userID == "" {
		return ErrAuthRequired
	}
	fetched, err := s.backend.FetchEntries(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]model.WorkEntry{}
	s.userID = userID
	if err != nil {
		s.month = time.Time{}
		s.log.Error("load entries failed", "user", userID, "err", err)
		return wrapErr("load", "", err)
	}
	for _, e := range fetched {
		s.entries[e.Date] = e
	}
	s.month = timecalc.StartOfMonth(month)
	s.log.Debug("entries loaded", "user", userID, "count", len(fetched), "month", s.month.Format("2006-01"))
	return nil
}

// Upsert writes entry to the backend, updating by ID when one is known for
// the entry or its date and inserting otherwise, then replaces the local
// value for entry.Date. It returns the stored entry.
func (s *Store) Upsert(ctx context.Context, entry model.WorkEntry) (model.WorkEntry, error) {
	s.mu.RLock()
	userID := s.userID
	existing, hasExisting := s.entries[entry.Date]
	s.mu.RUnlock()

	if userID == "" {
		return model.WorkEntry{}, ErrAuthRequired
	}
	if err := entry.Validate(); err != nil {
		return model.WorkEntry{}, fmt.Errorf("upsert %s: %w", entry.Date, err)
	}
	if entry.ID == "" && hasExisting {
		entry.ID = existing.ID
	}

	if entry.ID != "" {
		if err := s.backend.UpdateEntry(ctx, entry.ID, entry); err != nil {
			s.log.Error("update entry failed", "date", entry.Date, "id", entry.ID, "err", err)
			return model.WorkEntry{}, wrapErr("update", entry.Date, err)
		}
	} else {
		stored, err := s.backend.InsertEntry(ctx, userID, entry)
		if err != nil {
			s.log.Error("insert entry failed", "date", entry.Date, "err", err)
			return model.WorkEntry{}, wrapErr("insert", entry.Date, err)
		}
		entry.ID = stored.ID
	}

	s.mu.Lock()
	s.entries[entry.Date] = entry
	s.mu.Unlock()
	s.log.Debug("entry stored", "date", entry.Date, "id", entry.ID)
	return entry, nil
}

// Delete removes the entry keyed to date. When nothing is stored locally for
// date no backend call is made. An empty id falls back to the local entry's.
func (s *Store) Delete(ctx context.Context, id, date string) error {
	s.mu.RLock()
	userID := s.userID
	existing, ok := s.entries[date]
	s.mu.RUnlock()

	if userID == "" {
		return ErrAuthRequired
	}
	if !ok {
		return nil
	}
	if id == "" {
		id = existing.ID
	}
	if err := s.backend.DeleteEntry(ctx, id); err != nil {
		s.log.Error("delete entry failed", "date", date, "id", id, "err", err)
		return wrapErr("delete", date, err)
	}

	s.mu.Lock()
	delete(s.entries, date)
	s.mu.Unlock()
	return nil
}

// ClearAll deletes every entry owned by userID and empties the store. Asking
// the user for confirmation is the caller's job.
func (s *Store) ClearAll(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if err := s.backend.DeleteAllEntries(ctx, userID); err != nil {
		s.log.Error("clear entries failed", "user", userID, "err", err)
		return wrapErr("clear", "", err)
	}
	s.mu.Lock()
	s.entries = map[string]model.WorkEntry{}
	s.mu.Unlock()
	return nil
}

// Apply carries out an editor result.
func (s *Store) Apply(ctx context.Context, r model.EditResult) error {
	switch r := r.(type) {
	case model.Upsert:
		_, err := s.Upsert(ctx, r.Entry)
		return err
	case model.Delete:
		return s.Delete(ctx, r.ID, r.Date)
	default:
		return fmt.Errorf("unknown edit result %T", r)
	}
}

// Get returns the entry for a date key.
func (s *Store) Get(date string) (model.WorkEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[date]
	return e, ok
}

// Range returns the entries dated within [from, to], oldest first.
func (s *Store) Range(from, to time.Time) []model.WorkEntry {
	lo, hi := timecalc.DateKey(from), timecalc.DateKey(to)
	s.mu.RLock()
	var out []model.WorkEntry
	for k, e := range s.entries {
		if k >= lo && k <= hi {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// All returns every cached entry, oldest first.
func (s *Store) All() []model.WorkEntry {
	s.mu.RLock()
	out := make([]model.WorkEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// UserID returns the user the store was last loaded for.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Month returns the month of the last successful load.
func (s *Store) Month() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.month
}

// Reset forgets the user and every cached entry. Called on sign-out.
func (s *Store) Reset() {
	s.mu.Lock()
	s.userID = ""
	s.month = time.Time{}
	s.entries = map[string]model.WorkEntry{}
	s.mu.Unlock()
}
