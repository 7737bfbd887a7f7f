package api

import (
	"fmt"
	"net/http"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitUsage     = 2
	ExitAuth      = 3
	ExitNotFound  = 4
	ExitRateLimit = 5
)

// APIError is the error form of a failed Result. StatusCode is 0 for
// failures that never produced an HTTP response.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	RetryAfter int // seconds, 429 only
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}

	return e.Message
}

func (e *APIError) ExitCode() int {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ExitAuth
	case http.StatusNotFound:
		return ExitNotFound
	case http.StatusTooManyRequests:
		return ExitRateLimit
	default:
		return ExitError
	}
}

// IsTransport reports whether the request failed before any HTTP status was received.
func (e *APIError) IsTransport() bool {
	return e.StatusCode == 0
}
