package engine

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/search"
	"github.com/dshills/quill/internal/engine/text"
	"github.com/dshills/quill/internal/highlight"
)

// Re-export commonly used types for convenience.
type (
	// Point is a zero-indexed line/column position.
	Point = text.Point

	// Range is a span between two points.
	Range = text.Range

	// LineEnding specifies the line ending style used on disk.
	LineEnding = text.LineEnding

	// SearchQuery describes an advanced search.
	SearchQuery = search.Query

	// SearchResult is a single-line match.
	SearchResult = search.Result
)

// Re-export constants.
const (
	LineEndingLF   = text.LineEndingLF
	LineEndingCRLF = text.LineEndingCRLF
	LineEndingCR   = text.LineEndingCR
)

// Buffer is the editing façade for one document. It owns the text, its
// undo history, the search state and the highlight cache, and tracks the
// file it is bound to.
//
// A Buffer is not safe for concurrent use; the editor shell serializes
// access to it.
type Buffer struct {
	id      uuid.UUID
	text    *text.Store
	history *history.History

	// Search state
	results         []search.Result
	current         int
	lastQuery       *search.Query
	lastReplacement *string

	// File state
	filePath     string
	fileType     string
	modified     bool
	lastModified time.Time
	lineEnding   text.LineEnding

	// Highlight cache
	highlights     []highlight.Span
	highlightDirty bool

	// Configuration
	maxUndoEntries  int
	regexTimeout    time.Duration
	preserveEndings bool
	readOnly        bool
	now             func() time.Time
	initContent     string
}

// New creates a buffer. Without WithContent the buffer is empty.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		id:              uuid.New(),
		maxUndoEntries:  DefaultMaxUndoEntries,
		regexTimeout:    DefaultRegexTimeout,
		preserveEndings: true,
		lineEnding:      text.LineEndingLF,
		now:             time.Now,
		highlightDirty:  true,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.text = text.FromString(text.NormalizeLineEndings(b.initContent))
	b.initContent = ""
	b.history = history.New(b.maxUndoEntries)
	b.lastModified = b.now()
	return b
}

// Open creates a buffer bound to path. A missing file yields an empty
// buffer bound to that path.
func Open(path string, opts ...Option) (*Buffer, error) {
	b := New(opts...)
	err := b.Load(path)
	if err == nil {
		return b, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		b.bind(path)
		return b, nil
	}
	return nil, err
}

// ID returns the buffer's unique identifier.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Load replaces the buffer content with the file at path and binds the
// buffer to it. History and search state are reset; loading is not
// undoable.
func (b *Buffer) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &PathError{Op: "load", Path: path, Err: err}
	}

	content := string(data)
	if b.preserveEndings {
		b.lineEnding = text.DetectLineEnding(content)
	}

	b.text = text.FromString(text.NormalizeLineEndings(content))
	b.history.Clear()
	b.ClearSearch()
	b.bind(path)
	b.modified = false
	b.lastModified = b.now()
	b.invalidateHighlights()
	return nil
}

// Reload reloads the bound file, discarding unsaved changes.
func (b *Buffer) Reload() error {
	if b.filePath == "" {
		return ErrNoBoundPath
	}
	return b.Load(b.filePath)
}

// Save writes the buffer to its bound path.
func (b *Buffer) Save() error {
	if b.filePath == "" {
		return ErrNoBoundPath
	}
	return b.write(b.filePath)
}

// SaveAs writes the buffer to path and binds the buffer to it.
func (b *Buffer) SaveAs(path string) error {
	if err := b.write(path); err != nil {
		return err
	}
	if b.filePath != path {
		b.bind(path)
		b.invalidateHighlights()
	}
	return nil
}

func (b *Buffer) write(path string) error {
	var buf bytes.Buffer
	buf.Grow(b.text.ByteLen())
	if _, err := b.text.WriteTo(&buf); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}

	data := b.lineEnding.Apply(buf.String())
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}

	b.modified = false
	b.lastModified = b.now()
	return nil
}

func (b *Buffer) bind(path string) {
	b.filePath = path
	b.fileType = fileTypeOf(path)
}

// fileTypeOf returns the lower-cased extension of path without its dot.
func fileTypeOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// FilePath returns the bound file path, or "" if none.
func (b *Buffer) FilePath() string {
	return b.filePath
}

// FileType returns the lower-cased extension of the bound file, or "".
func (b *Buffer) FileType() string {
	return b.fileType
}

// IsModified returns true if the buffer has unsaved changes.
func (b *Buffer) IsModified() bool {
	return b.modified
}

// LastModified returns the time of the last edit, load or save.
func (b *Buffer) LastModified() time.Time {
	return b.lastModified
}

// LineEnding returns the line ending used when saving.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// SetLineEnding changes the line ending used when saving.
func (b *Buffer) SetLineEnding(le LineEnding) {
	if le != b.lineEnding {
		b.lineEnding = le
		b.modified = true
	}
}

// IsReadOnly returns true if edits are rejected.
func (b *Buffer) IsReadOnly() bool {
	return b.readOnly
}

// Text returns the full buffer content with "\n" line endings.
func (b *Buffer) Text() string {
	return b.text.String()
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return b.text.Len()
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return b.text.LineCount()
}

// LineLen returns the length of a line in characters, or 0 if it does
// not exist.
func (b *Buffer) LineLen(line int) int {
	return b.text.LineLen(line)
}

// Line returns the text of a line without its newline. The second result
// is false iff line >= LineCount().
func (b *Buffer) Line(line int) (string, bool) {
	return b.text.Line(line)
}

// Lines returns every line of the buffer.
func (b *Buffer) Lines() []string {
	return b.text.Lines()
}

// EndPoint returns the position just past the last character.
func (b *Buffer) EndPoint() Point {
	return b.text.EndPoint()
}

// CanUndo returns true if undo is available.
func (b *Buffer) CanUndo() bool {
	return b.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (b *Buffer) CanRedo() bool {
	return b.history.CanRedo()
}

// History exposes the undo history for inspection.
func (b *Buffer) History() *history.History {
	return b.history
}
