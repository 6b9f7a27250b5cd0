// Package apperr defines the application error taxonomy shared across layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means an entity id did not resolve. Rename and update
	// surface it; delete deliberately does not. An unresolvable id on delete
	// is a silent no-op throughout the system.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName means a uniqueness constraint on a name was violated.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrAssistantUnavailable means the completion service is unreachable or
	// unconfigured. Distinct from an answer saying the stored data cannot
	// answer the question, which is a normal response.
	ErrAssistantUnavailable = errors.New("assistant unavailable")
)

// ValidationError reports malformed or missing input, optionally naming the
// offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Validation builds a ValidationError without a field hint.
func Validation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ValidationField builds a ValidationError naming the offending field.
func ValidationField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
