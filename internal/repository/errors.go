package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced by every repository. Callers branch with errors.Is.
var (
	// ErrNotFound marks a lookup for an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConstraint marks a write rejected by a uniqueness or foreign key
	// constraint. No partial state is committed.
	ErrConstraint = errors.New("constraint violation")
)

// wrapWriteErr classifies a driver error from an INSERT/UPDATE/DELETE.
// modernc.org/sqlite reports constraint failures only through the message
// text, so matching on it is the available option.
func wrapWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "CHECK constraint failed") {
		return fmt.Errorf("%s: %w: %v", op, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
