package history

import "errors"

// DefaultMaxEntries is the undo stack bound used when none is given.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History records reversible edits for one document.
//
// History never touches the document. Undo and Redo hand back the operation
// to apply and enter replay mode; while replaying, Push is ignored so the
// caller can apply the operation through its normal edit path without
// re-recording it. The caller ends replay mode with FinishUndoRedo, or with
// CancelUndoRedo if the operation could not be applied.
type History struct {
	undoStack []Entry
	redoStack []Entry

	replaying bool
	pending   *replay

	// Compound state
	compound     bool
	compoundName string
	compoundOps  []Entry

	maxEntries int
}

// replay remembers the entry moved by the last Undo or Redo.
type replay struct {
	entry Entry
	undo  bool
}

// New creates a history holding at most maxEntries undo entries.
// A non-positive value selects DefaultMaxEntries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records an entry.
//
// While replaying, Push does nothing. While a compound is open, the entry
// joins the compound. Otherwise the redo stack is cleared and the entry is
// appended to the undo stack, evicting the oldest entry when the stack
// exceeds its bound.
func (h *History) Push(e Entry) {
	if h.replaying {
		return
	}
	if h.compound {
		h.compoundOps = append(h.compoundOps, e)
		return
	}
	h.commit(e)
}

// Record is shorthand for Push(NewEntry(op)).
func (h *History) Record(op Operation) {
	h.Push(NewEntry(op))
}

func (h *History) commit(e Entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = append(h.undoStack[:0:0], h.undoStack[excess:]...)
	}
}

// Undo pops the newest entry, moves it to the redo stack and returns the
// operation that reverts it. The history is left in replay mode.
// An open compound is committed first, so it is the entry undone.
func (h *History) Undo() (Operation, bool) {
	h.EndCompound()
	if len(h.undoStack) == 0 {
		return Operation{}, false
	}

	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	h.replaying = true
	h.pending = &replay{entry: e, undo: true}
	return e.Undo, true
}

// Redo pops the newest undone entry, moves it back to the undo stack and
// returns the operation that reapplies it. The history is left in replay mode.
// An open compound is committed first; if it recorded anything, the redo
// stack is cleared and there is nothing to redo.
func (h *History) Redo() (Operation, bool) {
	h.EndCompound()
	if len(h.redoStack) == 0 {
		return Operation{}, false
	}

	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	h.replaying = true
	h.pending = &replay{entry: e, undo: false}
	return e.Redo, true
}

// FinishUndoRedo leaves replay mode.
func (h *History) FinishUndoRedo() {
	h.replaying = false
	h.pending = nil
}

// CancelUndoRedo leaves replay mode and puts the entry moved by the last
// Undo or Redo back where it came from.
func (h *History) CancelUndoRedo() {
	if p := h.pending; p != nil {
		if p.undo {
			h.redoStack = h.redoStack[:len(h.redoStack)-1]
			h.undoStack = append(h.undoStack, p.entry)
		} else {
			h.undoStack = h.undoStack[:len(h.undoStack)-1]
			h.redoStack = append(h.redoStack, p.entry)
		}
	}
	h.FinishUndoRedo()
}

// IsReplaying returns true between Undo/Redo and FinishUndoRedo.
func (h *History) IsReplaying() bool {
	return h.replaying
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// StartCompound opens a compound entry. Entries pushed until EndCompound are
// committed as a single undo step. Calling StartCompound while a compound is
// already open does nothing.
func (h *History) StartCompound(name string) {
	if h.compound {
		return
	}
	h.compound = true
	h.compoundName = name
	h.compoundOps = nil
}

// EndCompound closes the open compound and commits it.
// An empty compound records nothing; a compound of one entry records that
// entry as is.
func (h *History) EndCompound() {
	if !h.compound {
		return
	}

	entries := h.compoundOps
	name := h.compoundName
	h.compound = false
	h.compoundName = ""
	h.compoundOps = nil

	switch len(entries) {
	case 0:
		return
	case 1:
		e := entries[0]
		if e.Name == "" {
			e.Name = name
		}
		h.commit(e)
	default:
		h.commit(CompoundEntry(name, entries))
	}
}

// AbortCompound closes the open compound without recording it and returns
// the entries it had collected, in recording order.
// Edits already applied to the document are not reverted.
func (h *History) AbortCompound() []Entry {
	entries := h.compoundOps
	h.compound = false
	h.compoundName = ""
	h.compoundOps = nil
	return entries
}

// InCompound returns true while a compound is open.
func (h *History) InCompound() bool {
	return h.compound
}

// Clear removes all undo/redo history and closes any open compound.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.compound = false
	h.compoundName = ""
	h.compoundOps = nil
	h.replaying = false
	h.pending = nil
}

// UndoInfo returns info about available undo entries, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	result := make([]OperationInfo, len(h.undoStack))
	for i, e := range h.undoStack {
		result[i] = e.info()
	}
	return result
}

// RedoInfo returns info about available redo entries, oldest first.
func (h *History) RedoInfo() []OperationInfo {
	result := make([]OperationInfo, len(h.redoStack))
	for i, e := range h.redoStack {
		result[i] = e.info()
	}
	return result
}

// PeekUndo returns info about the next undo entry without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo entry without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	h.maxEntries = max

	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = append(h.undoStack[:0:0], h.undoStack[excess:]...)
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	return h.maxEntries
}
