// Package history provides undo/redo bookkeeping for the editor engine.
//
// # Operations
//
// An Operation is a closed set of reversible edits addressed by line and
// column: Insert, Delete, Replace, and Compound. Each carries the text it
// affects, so Invert builds the exact inverse without reading the document:
//
//   - Insert inverts to Delete of the same text at the same position
//   - Delete inverts to Insert of the removed text
//   - Replace inverts by swapping old and new text
//   - Compound inverts each operation, in reverse order
//
// # History Stack
//
// History keeps bounded undo and redo stacks of Entry values (an undo and a
// redo Operation). It never applies operations itself:
//
//	h := history.New(1000)
//	h.Record(history.Insert(0, 0, "hello"))
//
//	op, ok := h.Undo()    // op deletes "hello"; replay mode is on
//	defer h.FinishUndoRedo()
//	// ... apply op to the document ...
//
// While replaying, Push is a no-op so applying op through the normal edit
// path does not record it again.
//
// # Compound Entries
//
// Several edits can be committed as a single undo step:
//
//	h.StartCompound("Replace All")
//	// ... multiple edits ...
//	h.EndCompound()
//
// StartCompound does not nest; a second call while a compound is open is
// ignored. Transaction and CompoundScope wrap the same calls for use with
// error returns and defer.
package history
