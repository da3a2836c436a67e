package content

import "errors"

// Common store errors.
var (
	// ErrNotFound is returned when a post or term is not found.
	ErrNotFound = errors.New("content not found")
)
