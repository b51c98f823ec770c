// Package text provides the editable text store used by the editor engine.
//
// A Store wraps an immutable rope and exposes the two addressing schemes the
// engine works with:
//
//   - Offsets: character (rune) positions in the range [0, Len()]
//   - Points: zero-indexed line and column pairs, column measured in runes
//
// Every (line, column) pair is converted to an offset before a mutation is
// applied. Conversions are strict: a line at or past LineCount() or a column
// past the end of its line fails with ErrOutOfRange.
//
// Basic usage:
//
//	s := text.FromString("hello\nworld")
//	off, _ := s.LineColToOffset(1, 0) // 6
//	_ = s.Insert(off, "big ")          // "hello\nbig world"
//
// Because the rope is immutable, Clone is O(1). Callers that need to apply
// several edits atomically stage them on a clone and keep it only when every
// edit succeeds.
//
// A Store is not safe for concurrent use.
package text
