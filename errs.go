package xiangxinai

import (
	"errors"
	"fmt"
)

var (
	// ErrAPIKeyRequired is returned by New when no API key was provided.
	ErrAPIKeyRequired = errors.New("API key is required")
)

// AuthenticationError means the API rejected the credentials (HTTP 401).
// Requests failing this way are never retried.
type AuthenticationError struct {
	Detail string
}

// Error returns a string representation of the error.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Detail)
}

// RateLimitError means the account's request quota was exceeded (HTTP 429).
// The client retries rate-limited requests with exponential backoff before
// surfacing this error.
type RateLimitError struct {
	Detail string
}

// Error returns a string representation of the error.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s", e.Detail)
}

// ValidationError means the caller's input was malformed, either detected
// locally before dispatch or reported by the server as HTTP 422. Never
// retried.
type ValidationError struct {
	Detail string
}

// Error returns a string representation of the error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Detail)
}

// NetworkError means a transport-level failure (connection refused, timeout,
// DNS) persisted through all retry attempts. The underlying error is
// available via Unwrap:
//
//	var netErr *xiangxinai.NetworkError
//	if errors.As(err, &netErr) {
//		log.Printf("transport failure: %v", netErr.Unwrap())
//	}
type NetworkError struct {
	Detail string
	Err    error
}

// Error returns a string representation of the error.
func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("network error: %s", e.Detail)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is any other non-2xx response from the service. It carries the
// HTTP status code and the detail message parsed from the response body.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error returns a string representation of the error.
func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Detail)
}
