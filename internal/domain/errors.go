package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo functions when the requested resource does
// not exist in the database. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails validation (e.g. missing window
// dates, start after end, empty taxi type). It is raised before any fetch is
// attempted. Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrValidationMessage wraps ErrValidation with a human-readable detail, so
// callers can both match with errors.Is and surface the message.
func ErrValidationMessage(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
