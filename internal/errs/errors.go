package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError is a field-level validation failure. It blocks the state
// transition that triggered it and is rendered inline next to the field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// FieldErrors collects validation failures across a whole form so every
// invalid field can show its message at once.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(e))
}

// AsFieldErrors converts any error into a field->message map. A single
// ValidationError becomes a one-entry map.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return FieldErrors{ve.Field: ve.Message}, true
	}
	return nil, false
}
