package booking

import (
	"errors"
	"strings"

	"github.com/ghm/hotel-booking/internal/repository"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ErrForbidden is returned when a client acts on another user's bookings.
// It is the repository sentinel so callers can test either name.
var ErrForbidden = repository.ErrForbidden

// ValidationError reports a request the service refused before touching
// the store.  Fields lists the offending JSON field names.
type ValidationError struct {
	Fields []string
	Msg    string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	return e.Msg + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func missing(fields ...string) error {
	return &ValidationError{Fields: fields, Msg: "missing required fields"}
}

func invalid(msg string, fields ...string) error {
	return &ValidationError{Fields: fields, Msg: msg}
}
