package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/service-requests/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts service and repository errors to a DomainError.
// Anything unrecognised becomes INTERNAL_ERROR with the cause kept for logging.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		de := NewDomainError("VALIDATION_FAILED", validationErr.Error(), http.StatusBadRequest,
			map[string]any{"fields": validationErr.Fields})
		de.Err = err
		return de
	case errors.Is(err, domain.ErrValidation):
		return &DomainError{Code: "VALIDATION_FAILED", Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return &DomainError{Code: "EMAIL_TAKEN", Message: domain.ErrDuplicateEmail.Error(), HTTPStatus: http.StatusConflict, Err: err}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return &DomainError{Code: "INVALID_CREDENTIALS", Message: domain.ErrInvalidCredentials.Error(), HTTPStatus: http.StatusUnauthorized, Err: err}
	case errors.Is(err, domain.ErrNotFound):
		return &DomainError{Code: "NOT_FOUND", Message: "resource not found", HTTPStatus: http.StatusNotFound, Err: err}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
