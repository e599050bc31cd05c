package store

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned by data operations attempted while signed out.
var ErrAuthRequired = errors.New("sign in required")

// PersistenceError wraps a failed backend round trip. Local state is left
// as it was before the call.
type PersistenceError struct {
	Op   string
	Date string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Date != "" {
		return fmt.Sprintf("%s entry %s: %v", e.Op, e.Date, e.Err)
	}
	return fmt.Sprintf("%s entries: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func wrapErr(op, date string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Date: date, Err: err}
}
