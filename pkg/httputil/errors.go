package httputil

import "errors"

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected status codes).
	ErrNetwork = errors.New("network error")
)
