// Package engine provides the editing core of quill.
//
// A Buffer is the façade the editor shell works with. It combines:
//
//   - text: a character-indexed text store backed by an immutable rope
//   - history: the undo/redo stacks of invertible operations
//   - search: plain and regex search producing single-line matches
//
// and tracks the file the buffer is bound to, its modification state and a
// cache of syntax highlight spans.
//
// # Positions
//
// Lines and columns are zero-based and count characters (Unicode code
// points), never bytes. A column may equal the line length, which denotes
// the end of the line.
//
// # Edits and history
//
// Every edit is staged on a copy of the text and committed only when all
// of its steps succeed, so a failed edit leaves the buffer unchanged and
// records nothing. Each successful edit becomes one undo step; edits that
// consist of several operations, such as ReplaceAll, are recorded as a
// single compound step.
//
//	b := engine.New(engine.WithContent("hello"))
//	_ = b.Insert(0, 5, " world")
//	pos, ok, _ := b.Undo() // pos = {0 5}, text = "hello"
//
// Undo and Redo replay operations through the same path as ordinary edits
// with the history in replay mode, so replaying never records new entries.
//
// # Search and replace
//
// Search and AdvancedSearch replace the current result list. ReplaceCurrent
// consumes the selected match, ReplaceAll consumes every match in one undo
// step, and ReplaceRegex rewrites the buffer using the last regex query
// with group references in the replacement.
//
// # Files
//
// Content is held with "\n" line endings. The line ending found when a file
// is loaded is restored when it is saved, unless WithPreserveLineEndings
// disables it. File failures are reported as *PathError, which matches
// ErrIO.
package engine
