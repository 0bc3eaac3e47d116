package cursor

import (
	"errors"
	"fmt"
)

// ErrEmptyCursor is returned when an operation needs at least one icon.
var ErrEmptyCursor = errors.New("cursor is empty")

// ValidationError reports a value that violates a model invariant, such as a
// hotspot outside of the bitmap or a negative delay.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid returns a new ValidationError.
func Invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// IsValidationError returns whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
