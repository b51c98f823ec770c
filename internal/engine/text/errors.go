package text

import "errors"

// Errors returned by store operations.
var (
	// ErrOutOfRange indicates a line, column, or offset outside the text.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidRange indicates a range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid range")
)
