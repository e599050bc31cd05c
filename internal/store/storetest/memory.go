// Package storetest provides an in-memory store.Backend for tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Tiliavir/hours-calendar/internal/model"
)

// ErrNotFound is returned when an ID is not held by the backend.
var ErrNotFound = errors.New("entry not found")

// Memory keeps entries per user in maps. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu      sync.Mutex
	user    string
	nextID  int
	owners  map[string]string
	entries map[string]model.WorkEntry

	// FailNext, when set, is returned by the next call and then cleared.
	FailNext error
	// Calls counts backend calls by method name.
	Calls map[string]int
}

// NewMemory returns an empty backend signed in as user ("" for signed out).
func NewMemory(user string) *Memory {
	return &Memory{
		user:    user,
		owners:  map[string]string{},
		entries: map[string]model.WorkEntry{},
		Calls:   map[string]int{},
	}
}

// SignIn switches the current user.
func (m *Memory) SignIn(user string) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
}

// Seed stores entries for user directly, assigning IDs where missing.
func (m *Memory) Seed(user string, entries ...model.WorkEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if e.ID == "" {
			e.ID = m.newID()
		}
		m.entries[e.ID] = e
		m.owners[e.ID] = user
	}
}

func (m *Memory) newID() string {
	m.nextID++
	return fmt.Sprintf("mem-%d", m.nextID)
}

func (m *Memory) call(name string) error {
	m.Calls[name]++
	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	return nil
}

func (m *Memory) CurrentUser(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CurrentUser"); err != nil {
		return "", err
	}
	return m.user, nil
}

func (m *Memory) FetchEntries(ctx context.Context, userID string) ([]model.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("FetchEntries"); err != nil {
		return nil, err
	}
	var out []model.WorkEntry
	for id, e := range m.entries {
		if m.owners[id] == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *Memory) InsertEntry(ctx context.Context, userID string, entry model.WorkEntry) (model.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("InsertEntry"); err != nil {
		return model.WorkEntry{}, err
	}
	entry.ID = m.newID()
	m.entries[entry.ID] = entry
	m.owners[entry.ID] = userID
	return entry, nil
}

func (m *Memory) UpdateEntry(ctx context.Context, id string, entry model.WorkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("UpdateEntry"); err != nil {
		return err
	}
	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	entry.ID = id
	m.entries[id] = entry
	return nil
}

func (m *Memory) DeleteEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteEntry"); err != nil {
		return err
	}
	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(m.entries, id)
	delete(m.owners, id)
	return nil
}

func (m *Memory) DeleteAllEntries(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteAllEntries"); err != nil {
		return err
	}
	for id, owner := range m.owners {
		if owner == userID {
			delete(m.entries, id)
			delete(m.owners, id)
		}
	}
	return nil
}

// Len returns the number of entries held for all users.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
