package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/search"
)

// StatusMessage turns an error from the shell or the editing core into a
// one-line message for the status bar. A nil error yields "".
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}

	prefix := ""
	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Target != "" {
		prefix = opErr.Target + ": "
	}

	var patErr *search.PatternError
	var pathErr *engine.PathError

	switch {
	case errors.As(err, &patErr):
		return fmt.Sprintf("invalid pattern %q: %v", patErr.Pattern, patErr.Err)
	case errors.Is(err, history.ErrNothingToUndo):
		return "already at oldest change"
	case errors.Is(err, history.ErrNothingToRedo):
		return "already at newest change"
	case errors.Is(err, engine.ErrNoBoundPath):
		return prefix + "no file name (use save as)"
	case errors.Is(err, engine.ErrReadOnly):
		return prefix + "buffer is read-only"
	case errors.Is(err, engine.ErrStaleHistory):
		return prefix + "history no longer matches the buffer"
	case errors.Is(err, engine.ErrOutOfRange):
		return prefix + "position out of range"
	case errors.Is(err, engine.ErrInvalidRange):
		return prefix + "range end precedes start"
	case errors.Is(err, engine.ErrNotFound):
		return prefix + "pattern not found"
	case errors.Is(err, ErrUnsavedChanges):
		return prefix + "unsaved changes (add ! to discard)"
	case errors.Is(err, ErrChangedOnDisk):
		return prefix + "changed on disk, buffer has unsaved changes"
	case errors.Is(err, ErrAlreadyOpen):
		return prefix + "already open in another buffer"
	case errors.As(err, &pathErr):
		return fmt.Sprintf("cannot %s %s: %s", pathErr.Op, pathErr.Path, ioReason(pathErr.Err))
	default:
		return err.Error()
	}
}

func ioReason(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "no such file or directory"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	default:
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return pe.Err.Error()
		}
		return err.Error()
	}
}
