// Package repositories holds the errors shared by every repository.
package repositories

import (
	"errors"
)

var (
	ErrOperationNotSupported = errors.New("operation not supported")
	ErrNotFound              = errors.New("record not found")
	ErrInvalidInput          = errors.New("invalid input")
)

// FieldError reports a single invalid input field. It matches ErrInvalidInput
// with errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewFieldError constructs a FieldError.
func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
