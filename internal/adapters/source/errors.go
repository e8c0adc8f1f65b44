package source

import "errors"

// Sentinel errors for fetch failures. A failed fetch is never an empty
// dataset: callers keep what they had.
var (
	ErrFetch    = errors.New("fetch failed")
	ErrNotFound = errors.New("source not found")
)
