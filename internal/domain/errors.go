package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidation indicates a missing or malformed input field.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound indicates a missing record.
	ErrNotFound = errors.New("not found")
)

// ValidationError lists the required fields that were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Is makes errors.Is(err, ErrValidation) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
