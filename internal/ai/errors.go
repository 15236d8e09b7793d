package ai

import (
	"context"
	"errors"
	"net"
)

// Common errors returned by Service implementations
var (
	// ErrProviderUnavailable is returned when the model endpoint cannot be reached
	ErrProviderUnavailable = errors.New("AI provider is unavailable")

	// ErrRateLimited is returned when the provider rejects a call for quota or rate reasons
	ErrRateLimited = errors.New("AI provider rate limit exceeded")

	// ErrContentFiltered is returned when the provider blocks the content with safety filters
	ErrContentFiltered = errors.New("content was filtered by AI provider")

	// ErrInvalidResponse is returned when the provider response cannot be parsed
	ErrInvalidResponse = errors.New("invalid response from AI provider")

	// ErrInvalidConfig is returned when the service configuration is invalid
	ErrInvalidConfig = errors.New("invalid AI service configuration")

	// ErrTransientFailure is returned when retries were exhausted on a temporary error
	ErrTransientFailure = errors.New("transient AI provider failure")

	// ErrEmptyInput is returned when required text is empty
	ErrEmptyInput = errors.New("input text cannot be empty")
)

// IsRetryable reports whether err is worth retrying against the provider.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrContentFiltered),
		errors.Is(err, ErrInvalidResponse),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrEmptyInput):
		return false
	case errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrTransientFailure),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
