package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Tiliavir/hours-calendar/internal/model"
)

const entriesPath = "/rest/v1/work_entries"

// entryRow is a work_entries row. Empty times and notes travel as null.
type entryRow struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"user_id,omitempty"`
	Date      string  `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Hours     float64 `json:"hours"`
	IsRestDay bool    `json:"is_rest_day"`
	Notes     *string `json:"notes"`
}

func toRow(userID string, e model.WorkEntry) entryRow {
	return entryRow{
		UserID:    userID,
		Date:      e.Date,
		StartTime: nullable(e.StartTime),
		EndTime:   nullable(e.EndTime),
		Hours:     e.Hours,
		IsRestDay: e.IsRestDay,
		Notes:     nullable(e.Notes),
	}
}

func (r entryRow) entry() model.WorkEntry {
	return model.WorkEntry{
		ID:        r.ID,
		Date:      r.Date,
		StartTime: deref(r.StartTime),
		EndTime:   deref(r.EndTime),
		Hours:     r.Hours,
		IsRestDay: r.IsRestDay,
		Notes:     deref(r.Notes),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var returnRepresentation = http.Header{"Prefer": {"return=representation"}}

func eq(column, value string) string {
	return url.Values{column: {"eq." + value}}.Encode()
}

// FetchEntries returns every row of userID ordered by date.
func (c *Client) FetchEntries(ctx context.Context, userID string) ([]model.WorkEntry, error) {
	hc, err := c.authorized(ctx)
	if err != nil {
		return nil, err
	}
	var rows []entryRow
	path := entriesPath + "?select=*&order=date.asc&" + eq("user_id", userID)
	if err := c.do(ctx, hc, http.MethodGet, path, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	out := make([]model.WorkEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry())
	}
	return out, nil
}

// InsertEntry creates a row and returns it with the ID the service assigned.
func (c *Client) InsertEntry(ctx context.Context, userID string, entry model.WorkEntry) (model.WorkEntry, error) {
	hc, err := c.authorized(ctx)
	if err != nil {
		return model.WorkEntry{}, err
	}
	var rows []entryRow
	if err := c.do(ctx, hc, http.MethodPost, entriesPath, returnRepresentation, toRow(userID, entry), &rows); err != nil {
		return model.WorkEntry{}, fmt.Errorf("inserting entry %s: %w", entry.Date, err)
	}
	if len(rows) == 0 || rows[0].ID == "" {
		return model.WorkEntry{}, fmt.Errorf("inserting entry %s: service returned no row", entry.Date)
	}
	return rows[0].entry(), nil
}

// UpdateEntry overwrites the row with the given id.
func (c *Client) UpdateEntry(ctx context.Context, id string, entry model.WorkEntry) error {
	hc, err := c.authorized(ctx)
	if err != nil {
		return err
	}
	var rows []entryRow
	if err := c.do(ctx, hc, http.MethodPatch, entriesPath+"?"+eq("id", id), returnRepresentation, toRow("", entry), &rows); err != nil {
		return fmt.Errorf("updating entry %s: %w", id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// DeleteEntry removes the row with the given id.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	hc, err := c.authorized(ctx)
	if err != nil {
		return err
	}
	if err := c.do(ctx, hc, http.MethodDelete, entriesPath+"?"+eq("id", id), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	return nil
}

// DeleteAllEntries removes every row of userID.
func (c *Client) DeleteAllEntries(ctx context.Context, userID string) error {
	hc, err := c.authorized(ctx)
	if err != nil {
		return err
	}
	if err := c.do(ctx, hc, http.MethodDelete, entriesPath+"?"+eq("user_id", userID), nil, nil, nil); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	return nil
}
