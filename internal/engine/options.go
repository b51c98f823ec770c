package engine

import (
	"time"

	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/search"
	"github.com/dshills/quill/internal/engine/text"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = history.DefaultMaxEntries
	DefaultRegexTimeout   = search.DefaultTimeout
)

// Option configures a Buffer during creation.
type Option func(*Buffer)

// WithContent sets the initial content of the buffer.
// Line endings are normalized to "\n".
func WithContent(content string) Option {
	return func(b *Buffer) {
		b.initContent = content
	}
}

// WithLineEnding sets the line ending used when the buffer is saved.
// Files loaded from disk keep the style they were read with.
func WithLineEnding(ending text.LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = ending
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(b *Buffer) {
		if max > 0 {
			b.maxUndoEntries = max
		}
	}
}

// WithRegexTimeout bounds each regex match attempt.
func WithRegexTimeout(d time.Duration) Option {
	return func(b *Buffer) {
		if d > 0 {
			b.regexTimeout = d
		}
	}
}

// WithPreserveLineEndings controls whether files loaded with CRLF or CR
// line endings are written back the same way. When disabled, saves use the
// buffer's configured line ending.
func WithPreserveLineEndings(preserve bool) Option {
	return func(b *Buffer) {
		b.preserveEndings = preserve
	}
}

// WithReadOnly creates a read-only buffer.
// Edit operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}

// WithClock replaces the time source used for LastModified.
func WithClock(now func() time.Time) Option {
	return func(b *Buffer) {
		if now != nil {
			b.now = now
		}
	}
}
