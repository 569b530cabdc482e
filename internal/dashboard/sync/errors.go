package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the session token was missing, invalid or
	// expired. No retry will help until the caller re-authenticates.
	ErrUnauthorized = errors.New("unauthorized: no valid session")

	// ErrNotFound means the server no longer knows the task id, usually
	// because another view of the data deleted it.
	ErrNotFound = errors.New("task not found")

	// ErrServerUnavailable is returned while the circuit breaker is open.
	ErrServerUnavailable = errors.New("server unavailable")
)

// ValidationError reports input rejected before any store mutation or
// network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// APIError is a non-OK response that is neither an auth nor a not-found
// failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}
