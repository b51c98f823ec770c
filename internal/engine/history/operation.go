package history

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dshills/quill/internal/engine/text"
)

// Kind identifies the variant of an Operation.
type Kind uint8

const (
	KindInsert Kind = iota
	KindDelete
	KindReplace
	KindCompound
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindReplace:
		return "replace"
	case KindCompound:
		return "compound"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Operation is a single reversible edit addressed by line and column.
//
// Every variant carries the text it affects, so its inverse can be built
// without consulting the document:
//
//   - Insert: Text is inserted at (Line, Col)
//   - Delete: Text is removed starting at (Line, Col)
//   - Replace: Text is replaced by NewText at (Line, Col)
//   - Compound: Ops are applied in order
type Operation struct {
	Kind    Kind
	Line    int
	Col     int
	Text    string
	NewText string
	Ops     []Operation
}

// Insert creates an operation inserting text at (line, col).
func Insert(line, col int, text string) Operation {
	return Operation{Kind: KindInsert, Line: line, Col: col, Text: text}
}

// Delete creates an operation removing text that starts at (line, col).
func Delete(line, col int, text string) Operation {
	return Operation{Kind: KindDelete, Line: line, Col: col, Text: text}
}

// Replace creates an operation replacing oldText at (line, col) with newText.
func Replace(line, col int, oldText, newText string) Operation {
	return Operation{Kind: KindReplace, Line: line, Col: col, Text: oldText, NewText: newText}
}

// Compound creates an operation applying ops in order.
func Compound(ops ...Operation) Operation {
	owned := make([]Operation, len(ops))
	copy(owned, ops)
	return Operation{Kind: KindCompound, Ops: owned}
}

// Invert returns the operation that undoes op.
// Inverting twice yields an operation equal to op.
func (op Operation) Invert() Operation {
	switch op.Kind {
	case KindInsert:
		return Delete(op.Line, op.Col, op.Text)
	case KindDelete:
		return Insert(op.Line, op.Col, op.Text)
	case KindReplace:
		return Replace(op.Line, op.Col, op.NewText, op.Text)
	case KindCompound:
		inv := make([]Operation, len(op.Ops))
		for i, sub := range op.Ops {
			inv[len(op.Ops)-1-i] = sub.Invert()
		}
		return Operation{Kind: KindCompound, Ops: inv}
	}
	return op
}

// Start returns the position at which the operation begins.
// For a compound it is the start of its first operation.
func (op Operation) Start() text.Point {
	if op.Kind == KindCompound {
		if len(op.Ops) == 0 {
			return text.Point{}
		}
		return op.Ops[0].Start()
	}
	return text.Point{Line: op.Line, Col: op.Col}
}

// IsNoop returns true if applying the operation changes nothing.
func (op Operation) IsNoop() bool {
	switch op.Kind {
	case KindInsert, KindDelete:
		return op.Text == ""
	case KindReplace:
		return op.Text == op.NewText
	case KindCompound:
		for _, sub := range op.Ops {
			if !sub.IsNoop() {
				return false
			}
		}
	}
	return true
}

// CharsDelta returns the change in document length, in characters.
func (op Operation) CharsDelta() int {
	switch op.Kind {
	case KindInsert:
		return utf8.RuneCountInString(op.Text)
	case KindDelete:
		return -utf8.RuneCountInString(op.Text)
	case KindReplace:
		return utf8.RuneCountInString(op.NewText) - utf8.RuneCountInString(op.Text)
	case KindCompound:
		total := 0
		for _, sub := range op.Ops {
			total += sub.CharsDelta()
		}
		return total
	}
	return 0
}

// Description returns a short human-readable summary of the operation.
func (op Operation) Description() string {
	switch op.Kind {
	case KindInsert:
		return fmt.Sprintf("insert %d chars at %s", utf8.RuneCountInString(op.Text), op.Start())
	case KindDelete:
		return fmt.Sprintf("delete %d chars at %s", utf8.RuneCountInString(op.Text), op.Start())
	case KindReplace:
		return fmt.Sprintf("replace %q with %q at %s", op.Text, op.NewText, op.Start())
	case KindCompound:
		return fmt.Sprintf("%d edits", len(op.Ops))
	}
	return op.Kind.String()
}

// Entry pairs an operation with its inverse.
type Entry struct {
	Undo      Operation
	Redo      Operation
	Name      string
	Timestamp time.Time
}

// NewEntry creates an entry whose redo side is op.
func NewEntry(op Operation) Entry {
	return Entry{
		Undo:      op.Invert(),
		Redo:      op,
		Timestamp: time.Now(),
	}
}

// CompoundEntry combines entries, in the order they were recorded, into one
// entry. Redoing it replays the entries in order; undoing it reverts them in
// reverse order.
func CompoundEntry(name string, entries []Entry) Entry {
	redo := make([]Operation, len(entries))
	undo := make([]Operation, len(entries))
	for i, e := range entries {
		redo[i] = e.Redo
		undo[len(entries)-1-i] = e.Undo
	}
	return Entry{
		Undo:      Operation{Kind: KindCompound, Ops: undo},
		Redo:      Operation{Kind: KindCompound, Ops: redo},
		Name:      name,
		Timestamp: time.Now(),
	}
}

// Description returns the entry's name, falling back to its redo operation.
func (e Entry) Description() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Redo.Description()
}

// OperationInfo provides read-only info about an entry.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
	CharsDelta  int
}

func (e Entry) info() OperationInfo {
	return OperationInfo{
		Description: e.Description(),
		Timestamp:   e.Timestamp,
		CharsDelta:  e.Redo.CharsDelta(),
	}
}
