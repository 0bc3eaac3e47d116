package formats

import (
	"errors"
	"fmt"
)

// FormatError reports that data does not follow the structure of a format:
// wrong magic bytes, malformed lengths or unexpected fields.
type FormatError struct {
	Format string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Format, e.Reason)
}

// Errorf returns a new FormatError for the given format.
func Errorf(format string, reason string, args ...interface{}) *FormatError {
	return &FormatError{
		Format: format,
		Reason: fmt.Sprintf(reason, args...),
	}
}

// IsFormatError returns whether err is or wraps a FormatError.
func IsFormatError(err error) bool {
	var fErr *FormatError
	return errors.As(err, &fErr)
}
