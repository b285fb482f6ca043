package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure classes the mutation layer adds on top
// of the repository sentinels. Callers branch with errors.Is.
var (
	// ErrValidation marks input rejected before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrDenied marks an operation the acting user is not allowed to
	// perform. Nothing is written, not even an audit row.
	ErrDenied = errors.New("authorization denied")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func deniedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDenied, fmt.Sprintf(format, args...))
}
