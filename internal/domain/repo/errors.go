package repo

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by GitHubClient implementations. Callers classify them with
// errors.Is and errors.As.

// ErrNotFound means the requested resource does not exist or is hidden from
// the current token.
var ErrNotFound = errors.New("github: resource not found")

// ErrUnauthorized means GitHub rejected the access token.
var ErrUnauthorized = errors.New("github: authorization failed")

// RateLimitError means the API rate limit is exhausted until Reset.
type RateLimitError struct {
	Reset time.Time
	Err   error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.Reset.UTC().Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// APIError is any other error response from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}
