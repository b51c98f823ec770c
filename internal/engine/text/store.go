package text

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dshills/quill/internal/engine/rope"
)

// Store is an editable sequence of characters partitioned into lines by
// "\n". Offsets and columns are measured in runes.
type Store struct {
	rope rope.Rope
}

// New creates an empty store.
func New() *Store {
	return &Store{rope: rope.New()}
}

// FromString creates a store holding s.
func FromString(s string) *Store {
	return &Store{rope: rope.FromString(s)}
}

// FromReader creates a store from the contents of r.
// The text is stored as read; line endings are not normalized.
func FromReader(r io.Reader) (*Store, error) {
	rp, err := rope.FromReader(r)
	if err != nil {
		return nil, err
	}
	return &Store{rope: rp}, nil
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return &Store{rope: s.rope}
}

// Len returns the number of characters in the store.
func (s *Store) Len() int {
	return s.rope.Len()
}

// ByteLen returns the UTF-8 size of the text.
func (s *Store) ByteLen() int {
	return s.rope.ByteLen()
}

// IsEmpty returns true if the store holds no text.
func (s *Store) IsEmpty() bool {
	return s.rope.IsEmpty()
}

// LineCount returns the number of lines. An empty store has one line.
func (s *Store) LineCount() int {
	return s.rope.LineCount()
}

// LineLen returns the length of a line in characters, excluding the newline.
// It returns 0 for lines that do not exist.
func (s *Store) LineLen(line int) int {
	if line < 0 || line >= s.LineCount() {
		return 0
	}
	return s.rope.LineLen(line)
}

// LineStart returns the offset of the first character of line.
func (s *Store) LineStart(line int) (int, error) {
	if line < 0 || line >= s.LineCount() {
		return 0, fmt.Errorf("line %d of %d: %w", line, s.LineCount(), ErrOutOfRange)
	}
	return s.rope.LineStart(line), nil
}

// LineColToOffset converts a line and column to an absolute offset.
// The column may equal the line length (the position after the last
// character) but not exceed it.
func (s *Store) LineColToOffset(line, col int) (int, error) {
	if line < 0 || line >= s.LineCount() {
		return 0, fmt.Errorf("line %d of %d: %w", line, s.LineCount(), ErrOutOfRange)
	}
	if n := s.rope.LineLen(line); col < 0 || col > n {
		return 0, fmt.Errorf("column %d on line %d of length %d: %w", col, line, n, ErrOutOfRange)
	}
	return s.rope.LineStart(line) + col, nil
}

// PointToOffset is LineColToOffset for a Point.
func (s *Store) PointToOffset(p Point) (int, error) {
	return s.LineColToOffset(p.Line, p.Col)
}

// OffsetToLineCol converts an absolute offset to a line and column.
func (s *Store) OffsetToLineCol(offset int) (Point, error) {
	if offset < 0 || offset > s.Len() {
		return Point{}, fmt.Errorf("offset %d of %d: %w", offset, s.Len(), ErrOutOfRange)
	}
	p := s.rope.OffsetToPoint(offset)
	return Point{Line: p.Line, Col: p.Column}, nil
}

// Insert inserts text at offset.
func (s *Store) Insert(offset int, text string) error {
	if offset < 0 || offset > s.Len() {
		return fmt.Errorf("insert at %d of %d: %w", offset, s.Len(), ErrOutOfRange)
	}
	s.rope = s.rope.Insert(offset, text)
	return nil
}

// Remove deletes the characters in [start, end).
func (s *Store) Remove(start, end int) error {
	if end < start {
		return fmt.Errorf("remove [%d,%d): %w", start, end, ErrInvalidRange)
	}
	if start < 0 || end > s.Len() {
		return fmt.Errorf("remove [%d,%d) of %d: %w", start, end, s.Len(), ErrOutOfRange)
	}
	s.rope = s.rope.Delete(start, end)
	return nil
}

// Slice returns the text in [start, end). The range is clamped to the store.
func (s *Store) Slice(start, end int) string {
	return s.rope.Slice(start, end)
}

// SliceRange returns the text covered by r.
func (s *Store) SliceRange(r Range) (string, error) {
	start, err := s.PointToOffset(r.Start)
	if err != nil {
		return "", err
	}
	end, err := s.PointToOffset(r.End)
	if err != nil {
		return "", err
	}
	if end < start {
		return "", fmt.Errorf("range %s: %w", r, ErrInvalidRange)
	}
	return s.rope.Slice(start, end), nil
}

// Line returns the text of a line without its newline.
// The second result is false iff line >= LineCount().
func (s *Store) Line(line int) (string, bool) {
	if line < 0 || line >= s.LineCount() {
		return "", false
	}
	return s.rope.LineText(line), true
}

// Lines returns every line of the text. The result always holds
// LineCount() elements. This is O(n) in the size of the text.
func (s *Store) Lines() []string {
	return s.rope.Lines()
}

// EachLine calls fn for every line in order until fn returns false.
func (s *Store) EachLine(fn func(line int, text string) bool) {
	it := s.rope.LineIter()
	for it.Next() {
		if !fn(it.Line(), it.Text()) {
			return
		}
	}
}

// EndPoint returns the position just after the last character.
func (s *Store) EndPoint() Point {
	last := s.LineCount() - 1
	return Point{Line: last, Col: s.rope.LineLen(last)}
}

// String returns the full text.
func (s *Store) String() string {
	return s.rope.String()
}

// WriteTo writes the text to w.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	return s.rope.WriteTo(w)
}

// Equal reports whether two stores hold the same text.
func (s *Store) Equal(other *Store) bool {
	return s.rope.Equals(other.rope)
}

// PointAfter returns the position reached by starting at p and typing text.
func PointAfter(p Point, text string) Point {
	i := strings.LastIndexByte(text, '\n')
	if i < 0 {
		return Point{Line: p.Line, Col: p.Col + utf8.RuneCountInString(text)}
	}
	return Point{
		Line: p.Line + strings.Count(text, "\n"),
		Col:  utf8.RuneCountInString(text[i+1:]),
	}
}
