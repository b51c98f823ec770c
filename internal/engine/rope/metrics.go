package rope

import (
	"strings"
	"unicode/utf8"
)

// Point represents a line/column position.
// Line and Column are both 0-indexed; Column counts characters.
type Point struct {
	Line   int
	Column int
}

// TextSummary holds aggregated metrics for a text span.
// Summaries form a monoid under Add, which lets internal nodes cache the
// totals of their subtrees.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the number of Unicode scalar values.
	Chars int

	// Lines is the number of newline characters.
	Lines int

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all characters are ASCII (< 128).
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines
)

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
		Flags: (s.Flags & other.Flags & FlagASCII) | ((s.Flags | other.Flags) & FlagHasNewlines),
	}
}

// IsZero returns true if this is the zero/identity summary.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// IsASCII returns true if every character is a single byte.
func (s TextSummary) IsASCII() bool {
	return s.Flags&FlagASCII != 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	if len(s) == 0 {
		return TextSummary{Flags: FlagASCII}
	}

	sum := TextSummary{
		Bytes: len(s),
		Lines: strings.Count(s, "\n"),
		Flags: FlagASCII,
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			sum.Flags &^= FlagASCII
			break
		}
	}
	if sum.IsASCII() {
		sum.Chars = len(s)
	} else {
		sum.Chars = utf8.RuneCountInString(s)
	}
	if sum.Lines > 0 {
		sum.Flags |= FlagHasNewlines
	}
	return sum
}

// CharToByte converts a character index within s to a byte index.
// Indexes past the end map to len(s).
func CharToByte(s string, char int) int {
	if char <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == char {
			return i
		}
		n++
	}
	return len(s)
}
