package views

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog is returned by operations that need at least one movie.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrInvalidInput matches every ValidationError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports a value the user supplied, or a stored value, that
// cannot be used as a number.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid value %q: %s", e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}
