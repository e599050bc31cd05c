package store

import (
	"context"

	"github.com/Tiliavir/hours-calendar/internal/model"
)

// Backend is the durable, authenticated home of work entries. Timeouts and
// retries are the backend's business; the store issues each call once.
//
//go:generate mockgen -source=backend.go -destination=mock_backend_test.go -package=store
type Backend interface {
	// CurrentUser returns the signed-in user ID, or "" when signed out.
	CurrentUser(ctx context.Context) (string, error)
	FetchEntries(ctx context.Context, userID string) ([]model.WorkEntry, error)
	// InsertEntry stores a new entry and returns it with its assigned ID.
	InsertEntry(ctx context.Context, userID string, entry model.WorkEntry) (model.WorkEntry, error)
	UpdateEntry(ctx context.Context, id string, entry model.WorkEntry) error
	DeleteEntry(ctx context.Context, id string) error
	DeleteAllEntries(ctx context.Context, userID string) error
}
