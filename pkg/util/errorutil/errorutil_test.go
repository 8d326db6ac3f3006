package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewNotFound("ticket", nil), "NOT_FOUND", http.StatusNotFound},
		{NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{NewConflict("stale", nil), "CONFLICT", http.StatusConflict},
		{NewInvalidTransition("Open", "Closed"), "INVALID_TRANSITION", http.StatusUnprocessableEntity},
		{NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			domainErr := ToDomainError(tc.err)
			require.NotNil(t, domainErr)
			assert.Equal(t, tc.code, domainErr.Code)
			assert.Equal(t, tc.status, domainErr.HTTPStatus)
			assert.True(t, IsCode(tc.err, tc.code))
		})
	}
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := NewInvalidTransition("Open", "Resolved")

	domainErr := ToDomainError(err)
	assert.Equal(t, "Open", domainErr.Details["current_status"])
	assert.Equal(t, "Resolved", domainErr.Details["requested_status"])
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("disk on fire")

	domainErr := ToDomainError(plain)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.ErrorIs(t, domainErr, plain)

	assert.Nil(t, ToDomainError(nil))
}

func TestIsCodeSeesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFound("ticket", nil))

	assert.True(t, IsCode(wrapped, "NOT_FOUND"))
	assert.False(t, IsCode(wrapped, "CONFLICT"))
	assert.False(t, IsCode(errors.New("plain"), "NOT_FOUND"))
}
