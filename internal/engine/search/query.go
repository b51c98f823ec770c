package search

import (
	"errors"
	"fmt"

	"github.com/dshills/quill/internal/engine/text"
)

// ErrRegex is matched by every error caused by a bad or runaway pattern.
var ErrRegex = errors.New("regex error")

// PatternError reports a pattern that failed to compile or to run.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("regex %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRegex) true for every PatternError.
func (e *PatternError) Is(target error) bool { return target == ErrRegex }

// Query describes what to search for.
type Query struct {
	Pattern       string
	CaseSensitive bool
	UseRegex      bool
	WholeWord     bool

	// InSelection restricts results to matches lying entirely inside
	// Selection.
	InSelection bool
	Selection   text.Range
}

// Result is a single-line match. EndCol is exclusive.
type Result struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Start returns the position of the first matched character.
func (r Result) Start() text.Point {
	return text.Point{Line: r.StartLine, Col: r.StartCol}
}

// End returns the position just past the match.
func (r Result) End() text.Point {
	return text.Point{Line: r.EndLine, Col: r.EndCol}
}

// Range returns the match as a text range.
func (r Result) Range() text.Range {
	return text.Range{Start: r.Start(), End: r.End()}
}

// Len returns the number of matched characters.
func (r Result) Len() int {
	return r.EndCol - r.StartCol
}

// Shift returns the result moved delta columns along its line.
func (r Result) Shift(delta int) Result {
	r.StartCol += delta
	r.EndCol += delta
	return r
}

// Lines is the text being searched.
type Lines interface {
	EachLine(fn func(line int, text string) bool)
}
