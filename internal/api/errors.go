package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/inbox-ai/internal/api/shared"
	"github.com/phrazzld/inbox-ai/internal/service"
	"github.com/phrazzld/inbox-ai/internal/service/auth"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

// ErrInvalidOperationRequest indicates a submit request that does not
// describe a valid operation.
var ErrInvalidOperationRequest = errors.New("invalid operation request")

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrOperationNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, task.ErrQueueFull):
		return http.StatusServiceUnavailable

	case errors.Is(err, ErrInvalidOperationRequest),
		errors.Is(err, task.ErrInvalidOperation),
		errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that reveals
// nothing about internals.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrOperationNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Operation not found"

	case errors.Is(err, task.ErrQueueFull):
		return "Operation queue is full, retry later"

	case errors.Is(err, ErrInvalidOperationRequest),
		errors.Is(err, task.ErrInvalidOperation):
		return "Invalid operation"
	case errors.Is(err, service.ErrInvalidLimit):
		return fmt.Sprintf("Limit must be between 1 and %d", service.MaxResultLimit)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body required"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a message naming the
// first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", first.Field(), validationTagMessage(first.Tag()))
	}
	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte":
		return "must not be negative"
	default:
		return "validation failed"
	}
}

// respondWithMappedError writes the status and safe message for err and logs
// the redacted detail.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
