package fetch

import (
	"errors"
	"fmt"
)

// Common errors returned by the fetch client.
var (
	// ErrNotFound indicates the provider has no record for the key.
	ErrNotFound = errors.New("record not found")

	// ErrRateLimited indicates the provider rejected the request rate.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNetworkError indicates a transport-level failure.
	ErrNetworkError = errors.New("network error")
)

// StatusError represents a non-2xx HTTP response other than the sentinel
// cases above.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == 404
	}
	return false
}
