// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors returned by the catalog client.
var (
	// ErrNotFound indicates the catalog has no paper for the identifier.
	ErrNotFound = errors.New("paper not found in catalog")

	// ErrNoIDs is returned by BatchGet when called with no identifiers.
	ErrNoIDs = errors.New("batch lookup requires at least one paper id")

	// ErrEmptyQuery is returned by Search for a blank query.
	ErrEmptyQuery = errors.New("empty catalog query")

	// ErrRateLimited indicates the catalog kept answering HTTP 429.
	ErrRateLimited = errors.New("catalog rate limit exceeded")

	// ErrInvalidResponse indicates a body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from catalog")
)

// APIError is a non-2xx answer from the catalog.
type APIError struct {
	StatusCode int
	Message    string
	PaperID    string
}

func (e *APIError) Error() string {
	if e.PaperID != "" {
		return fmt.Sprintf("catalog API error (status %d): %s (paper: %s)", e.StatusCode, e.Message, e.PaperID)
	}
	return fmt.Sprintf("catalog API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err means the requested paper does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited reports whether err comes from catalog rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// checkStatus converts a non-2xx status into an error.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
}
