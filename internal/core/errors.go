package core

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Operation failure kinds. Handlers map these to transport statuses;
// anything else is a server error.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("incorrect management code")
	ErrForbidden    = errors.New("access denied")
	ErrFull         = errors.New("session is full")
	ErrNoFields     = errors.New("no fields to update")
	ErrConflict     = errors.New("generated code collided")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}

// isUniqueViolation reports whether err comes from a UNIQUE index.
// The sqlite driver only maps to gorm.ErrDuplicatedKey when error
// translation is enabled, so the message check stays as a fallback.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
