package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUpstream        = errors.New("upstream failure")
)

func validationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

func conflictError(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

func upstreamError(message string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, message, err)
}

// Message returns the caller-facing text of a service error: the wrapped
// message when there is one, otherwise the sentinel's own text.
func Message(err error) string {
	text := err.Error()
	for _, sentinel := range []error{ErrValidation, ErrUnauthenticated, ErrNotFound, ErrConflict} {
		prefix := sentinel.Error() + ": "
		if errors.Is(err, sentinel) && strings.HasPrefix(text, prefix) {
			return strings.TrimPrefix(text, prefix)
		}
	}
	if errors.Is(err, ErrUpstream) {
		return "internal server error"
	}
	return text
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
