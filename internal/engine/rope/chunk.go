package rope

import "unicode/utf8"

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the minimum bytes per chunk (except for the last chunk).
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk represents a bounded string stored in leaf nodes.
// Chunks are immutable once created.
type Chunk struct {
	data    string
	summary TextSummary
}

// NewChunk creates a chunk from a string.
func NewChunk(s string) Chunk {
	return Chunk{
		data:    s,
		summary: ComputeSummary(s),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Len returns the byte length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// Chars returns the number of characters in the chunk.
func (c Chunk) Chars() int {
	return c.summary.Chars
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// byteIndex converts a character index within the chunk to a byte index.
func (c Chunk) byteIndex(char int) int {
	if c.summary.IsASCII() {
		if char > len(c.data) {
			return len(c.data)
		}
		return char
	}
	return CharToByte(c.data, char)
}

// Slice returns the text between two character indexes.
func (c Chunk) Slice(start, end int) string {
	return c.data[c.byteIndex(start):c.byteIndex(end)]
}

// Split splits a chunk at a character index, returning two chunks.
func (c Chunk) Split(char int) (Chunk, Chunk) {
	if char <= 0 {
		return Chunk{}, c
	}
	if char >= c.summary.Chars {
		return c, Chunk{}
	}

	at := c.byteIndex(char)
	return NewChunk(c.data[:at]), NewChunk(c.data[at:])
}

// lineStart returns the character index just past the nth newline (1-indexed).
func (c Chunk) lineStart(n int) int {
	if n <= 0 {
		return 0
	}
	seen, chars := 0, 0
	for _, r := range c.data {
		chars++
		if r == '\n' {
			seen++
			if seen == n {
				return chars
			}
		}
	}
	return chars
}

// linesBefore counts the newlines in the first char characters.
func (c Chunk) linesBefore(char int) int {
	if char <= 0 || c.summary.Lines == 0 {
		return 0
	}
	lines, chars := 0, 0
	for _, r := range c.data {
		if chars == char {
			break
		}
		if r == '\n' {
			lines++
		}
		chars++
	}
	return lines
}

// splitIntoChunks splits a string into chunks of appropriate size.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}

	var chunks []Chunk
	remaining := s

	for len(remaining) > 0 {
		if len(remaining) <= MaxChunkSize {
			chunks = append(chunks, NewChunk(remaining))
			break
		}

		splitPoint := findUTF8Boundary(remaining, TargetChunkSize)
		chunks = append(chunks, NewChunk(remaining[:splitPoint]))
		remaining = remaining[splitPoint:]
	}

	return chunks
}

// findUTF8Boundary finds a valid UTF-8 boundary near the target position.
// It prefers splitting after a newline if one exists nearby.
func findUTF8Boundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}
	if target <= 0 {
		return 0
	}

	searchStart := max(target-MinChunkSize/4, 0)
	searchEnd := min(target+MinChunkSize/4, len(s))

	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	pos := target
	for pos > 0 && !utf8.RuneStart(s[pos]) {
		pos--
	}
	if pos == 0 {
		// A run of continuation bytes longer than target; cut forward instead.
		pos = target
		for pos < len(s) && !utf8.RuneStart(s[pos]) {
			pos++
		}
	}
	return pos
}
