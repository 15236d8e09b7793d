package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/inbox-ai/internal/api/shared"
	"github.com/phrazzld/inbox-ai/internal/service"
	"github.com/phrazzld/inbox-ai/internal/service/auth"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{auth.ErrMissingToken, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("lookup: %w", service.ErrOperationNotFound), http.StatusNotFound},
		{store.ErrResultNotFound, http.StatusNotFound},
		{fmt.Errorf("submit: %w", task.ErrQueueFull), http.StatusServiceUnavailable},
		{ErrInvalidOperationRequest, http.StatusBadRequest},
		{task.ErrInvalidOperation, http.StatusBadRequest},
		{service.ErrInvalidLimit, http.StatusBadRequest},
		{store.ErrInvalidEntity, http.StatusBadRequest},
		{shared.ErrEmptyBody, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, MapErrorToStatusCode(tt.err), tt.err.Error())
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Token expired", GetSafeErrorMessage(auth.ErrExpiredToken))
	assert.Equal(t, "Operation not found", GetSafeErrorMessage(store.ErrResultNotFound))
	assert.Equal(t, "Limit must be between 1 and 100", GetSafeErrorMessage(service.ErrInvalidLimit))

	leaky := fmt.Errorf("query failed: %w", errors.New("password=hunter2 rejected"))
	msg := GetSafeErrorMessage(leaky)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "hunter2")
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&TokenRequest{ClientSecret: "x"})
	assert.Equal(t, "Invalid ClientID: required field", SanitizeValidationError(err))

	err = shared.ValidateRequest(&SubmitOperationRequest{Type: "translate"})
	assert.Equal(t, "Invalid Type: invalid value", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
