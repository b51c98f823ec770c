package engine

import (
	"errors"
	"fmt"

	"github.com/dshills/quill/internal/engine/search"
	"github.com/dshills/quill/internal/engine/text"
)

// Errors returned by buffer operations.
var (
	// ErrOutOfRange indicates a line or column outside the buffer.
	ErrOutOfRange = text.ErrOutOfRange

	// ErrInvalidRange indicates a range whose end precedes its start.
	ErrInvalidRange = text.ErrInvalidRange

	// ErrRegex indicates a search pattern that failed to compile or run.
	ErrRegex = search.ErrRegex

	// ErrNoBoundPath indicates a save on a buffer with no file path.
	ErrNoBoundPath = errors.New("buffer has no file path")

	// ErrIO is matched by every file read or write failure.
	ErrIO = errors.New("i/o error")

	// ErrNotFound indicates a term that does not occur where it was looked for.
	ErrNotFound = errors.New("text not found")

	// ErrReadOnly indicates an edit on a read-only buffer.
	ErrReadOnly = errors.New("buffer is read-only")

	// ErrStaleHistory indicates an undo or redo whose recorded text no longer
	// matches the buffer.
	ErrStaleHistory = errors.New("history does not match buffer")
)

// PathError records a failed file operation.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIO) true for every PathError.
func (e *PathError) Is(target error) bool { return target == ErrIO }
