package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// The zero value is an empty rope.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// buildFromChunks builds a rope from a slice of chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	leaves := make([]*Node, 0, (len(chunks)+MaxChunksPerLeaf-1)/MaxChunksPerLeaf)
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}

	return Rope{root: buildNodeFromChildren(leaves)}
}

// Len returns the total number of characters.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Chars
}

// ByteLen returns the total UTF-8 byte length.
func (r Rope) ByteLen() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Bytes
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.ByteLen() == 0
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}

	var sb strings.Builder
	sb.Grow(r.ByteLen())
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the character range [start, end).
func (r Rope) Slice(start, end int) string {
	start = max(start, 0)
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return ""
	}

	var sb strings.Builder
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// Insert inserts text at the given character offset.
// Offsets past the end append.
func (r Rope) Insert(at int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.IsEmpty() {
		return FromString(text)
	}
	if at <= 0 {
		return FromString(text).Concat(r)
	}
	if at >= r.Len() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(at)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes the characters in [start, end).
// The range is clamped to the rope.
func (r Rope) Delete(start, end int) Rope {
	start = max(start, 0)
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return r
	}

	if start == 0 && end == r.Len() {
		return New()
	}

	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace replaces the characters in [start, end) with text.
func (r Rope) Replace(start, end int, text string) Rope {
	return r.Delete(start, end).Insert(start, text)
}

// Split splits the rope at a character offset.
// Left contains [0, at), right contains [at, end).
func (r Rope) Split(at int) (Rope, Rope) {
	if r.root == nil || at <= 0 {
		return New(), r
	}
	if at >= r.Len() {
		return r, New()
	}

	left, right := r.root.split(at)
	return Rope{root: left}, Rope{root: right}
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.IsEmpty() {
		if other.root == nil {
			return New()
		}
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// LineStart returns the character offset of the start of the given line.
// Lines past the end report the rope length.
func (r Rope) LineStart(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.root.lineStart(line)
}

// LineEnd returns the character offset of the end of the given line,
// not including the newline.
func (r Rope) LineEnd(line int) int {
	if line < 0 {
		return 0
	}
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	return r.LineStart(line+1) - 1
}

// LineLen returns the character length of a line, excluding the newline.
func (r Rope) LineLen(line int) int {
	return r.LineEnd(line) - r.LineStart(line)
}

// LineText returns the text of the given line (not including newline).
func (r Rope) LineText(line int) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// Lines returns every line of the rope without trailing newlines.
func (r Rope) Lines() []string {
	return strings.Split(r.String(), "\n")
}

// OffsetToPoint converts a character offset to a line/column position.
// Offsets past the end clamp to the end.
func (r Rope) OffsetToPoint(offset int) Point {
	if r.root == nil || offset <= 0 {
		return Point{}
	}
	offset = min(offset, r.Len())

	line := r.root.linesBefore(offset)
	return Point{Line: line, Column: offset - r.LineStart(line)}
}

// PointToOffset converts a line/column position to a character offset.
// Columns past the end of the line clamp to the line end.
func (r Rope) PointToOffset(p Point) int {
	if r.root == nil {
		return 0
	}

	start := r.LineStart(p.Line)
	end := r.LineEnd(p.Line)
	if start+p.Column >= end {
		return end
	}
	return start + max(p.Column, 0)
}

// Height returns the height of the rope tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
func (r Rope) ChunkCount() int {
	count := 0
	it := r.Chunks()
	for it.Next() {
		count++
	}
	return count
}

// Equals returns true if two ropes contain the same text.
func (r Rope) Equals(other Rope) bool {
	if r.ByteLen() != other.ByteLen() {
		return false
	}
	return r.String() == other.String()
}

// WriteTo writes the rope's text to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
