// Package rope provides an immutable rope data structure for text storage.
//
// A rope is a balanced tree whose leaves hold bounded text chunks and whose
// internal nodes cache aggregated metrics (bytes, characters, newlines).
// Positions are expressed as character offsets, where a character is one
// Unicode scalar value, so callers never deal with UTF-8 byte arithmetic.
//
// Key features:
//   - O(log n) insertion, deletion, and offset/line lookup
//   - Immutable operations return new ropes; originals are never modified
//   - Copy-on-write structural sharing makes snapshots free
//
// Basic usage:
//
//	r := rope.FromString("héllo world")
//	r = r.Insert(5, ",")     // "héllo, world"
//	r = r.Delete(0, 7)       // "world"
//	line := r.LineText(0)    // "world"
package rope
