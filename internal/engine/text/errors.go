package text

import "errors"

// Errors returned by buffer operations.
var (
	// ErrOutOfRange indicates a position outside the document.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidRange indicates a range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid range")

	// ErrReadOnly indicates the buffer rejects mutations.
	ErrReadOnly = errors.New("buffer is read-only")
)
