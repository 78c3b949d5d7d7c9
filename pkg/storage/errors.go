package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when no record matches the filter. The
	// pipeline maps it to a 401-class rejection, never to a 500.
	ErrNotFound = errors.New("record not found")
)
