package app

import (
	"errors"
	"fmt"
)

// Shell errors.
var (
	// ErrBufferNotFound indicates a buffer ID that is not open.
	ErrBufferNotFound = errors.New("buffer not found")

	// ErrNoActiveBuffer indicates no buffer is currently active.
	ErrNoActiveBuffer = errors.New("no active buffer")

	// ErrUnsavedChanges indicates a close that would discard changes.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrAlreadyOpen indicates a save-as onto a path another buffer holds.
	ErrAlreadyOpen = errors.New("file already open in another buffer")

	// ErrWatchDisabled indicates Watch was called with watching turned off.
	ErrWatchDisabled = errors.New("file watching is disabled")

	// ErrChangedOnDisk indicates a watched file changed while its buffer
	// had unsaved edits.
	ErrChangedOnDisk = errors.New("file changed on disk")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "save", "open", "close")
	Target string // File path or buffer name
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorList collects multiple errors. It is not safe for concurrent use.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// Len returns the number of errors.
func (e *ErrorList) Len() int {
	return len(e.errors)
}

// Errors returns a copy of the collected errors.
func (e *ErrorList) Errors() []error {
	if len(e.errors) == 0 {
		return nil
	}
	out := make([]error, len(e.errors))
	copy(out, e.errors)
	return out
}

func (e *ErrorList) Error() string {
	switch len(e.errors) {
	case 0:
		return ""
	case 1:
		return e.errors[0].Error()
	default:
		return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
	}
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	return e.errors
}

// AsError returns nil if there are no errors, otherwise returns the ErrorList.
func (e *ErrorList) AsError() error {
	if len(e.errors) == 0 {
		return nil
	}
	return e
}
