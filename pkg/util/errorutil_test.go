package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/service-requests/internal/domain"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", &domain.ValidationError{Fields: []string{"title"}}, "VALIDATION_FAILED", http.StatusBadRequest},
		{"wrapped duplicate", fmt.Errorf("register: %w", domain.ErrDuplicateEmail), "EMAIL_TAKEN", http.StatusConflict},
		{"invalid credentials", domain.ErrInvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"not found", domain.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{"unauthorized passthrough", NewUnauthorized("login required"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}
}

func TestToDomainErrorValidationDetails(t *testing.T) {
	de := ToDomainError(&domain.ValidationError{Fields: []string{"title", "priority"}})

	assert.Equal(t, "missing required fields: title, priority", de.Message)
	assert.Equal(t, []string{"title", "priority"}, de.Details["fields"])
	assert.ErrorIs(t, de, domain.ErrValidation)
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("connection reset")
	de := ToDomainError(cause)

	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
	assert.Nil(t, ToDomainError(nil))
}
