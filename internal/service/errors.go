package service

import (
	"errors"
	"fmt"

	"github.com/splitledger/splitledger/internal/storage"
)

var (
	// ErrNotFound indicates a referenced group, split expense, settle-up
	// or goal does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a request is missing required identifiers
	// or carries values that fail boundary validation.
	ErrValidation = errors.New("validation failed")
)

// notFoundf wraps ErrNotFound with a formatted message.
func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// validationf wraps ErrValidation with a formatted message.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// isMissing reports whether err is a storage or service not-found error.
func isMissing(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, ErrNotFound)
}
