package league

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced player or match does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by SavePlayer when the record changed underneath
	// the caller. The caller should re-read the record and re-apply its update.
	ErrConflict = errors.New("version conflict")
)

// ValidationError marks malformed or out-of-range input. It is raised before
// any mutation, so nothing is ever partially applied when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
