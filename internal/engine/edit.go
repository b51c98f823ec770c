package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/text"
)

// editTx applies operations to a staged copy of the text. Nothing reaches
// the buffer until commit, so a failed edit leaves the buffer untouched.
type editTx struct {
	store   *text.Store
	entries []history.Entry

	// Position where the last applied operation started, and the position
	// just past the text it left behind.
	start text.Point
	end   text.Point
}

func (b *Buffer) begin() *editTx {
	return &editTx{store: b.text.Clone()}
}

// apply performs op on the staged text.
func (tx *editTx) apply(op history.Operation) error {
	switch op.Kind {
	case history.KindInsert:
		off, err := tx.store.LineColToOffset(op.Line, op.Col)
		if err != nil {
			return err
		}
		if err := tx.store.Insert(off, op.Text); err != nil {
			return err
		}
		tx.moved(op.Start(), op.Text)

	case history.KindDelete:
		if err := tx.remove(op.Line, op.Col, op.Text); err != nil {
			return err
		}
		tx.moved(op.Start(), "")

	case history.KindReplace:
		if err := tx.remove(op.Line, op.Col, op.Text); err != nil {
			return err
		}
		off, _ := tx.store.LineColToOffset(op.Line, op.Col)
		if err := tx.store.Insert(off, op.NewText); err != nil {
			return err
		}
		tx.moved(op.Start(), op.NewText)

	case history.KindCompound:
		for _, sub := range op.Ops {
			if err := tx.apply(sub); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown operation kind %s", op.Kind)
	}

	if !op.IsNoop() {
		tx.entries = append(tx.entries, history.NewEntry(op))
	}
	return nil
}

// remove deletes want from (line, col), checking that it is really there.
func (tx *editTx) remove(line, col int, want string) error {
	start, err := tx.store.LineColToOffset(line, col)
	if err != nil {
		return err
	}
	end := start + utf8.RuneCountInString(want)
	if end > tx.store.Len() {
		return fmt.Errorf("remove %d chars at (%d:%d): %w", end-start, line, col, ErrStaleHistory)
	}
	if got := tx.store.Slice(start, end); got != want {
		return fmt.Errorf("remove %q at (%d:%d), found %q: %w", want, line, col, got, ErrStaleHistory)
	}
	return tx.store.Remove(start, end)
}

func (tx *editTx) moved(start text.Point, inserted string) {
	tx.start = start
	tx.end = text.PointAfter(start, inserted)
}

// commit installs the staged text and records its operations as a single
// undo step named name. While replaying, nothing is recorded.
func (b *Buffer) commit(name string, tx *editTx) {
	b.text = tx.store

	switch {
	case b.history.IsReplaying(), len(tx.entries) == 0:
	case len(tx.entries) == 1:
		b.history.Push(tx.entries[0])
	default:
		scope := b.history.CompoundScope(name)
		for _, e := range tx.entries {
			b.history.Push(e)
		}
		scope.End()
	}

	b.touch()
}

// touch marks the buffer as edited.
func (b *Buffer) touch() {
	b.modified = true
	b.lastModified = b.now()
	b.invalidateHighlights()
}

func (b *Buffer) writable() error {
	if b.readOnly {
		return ErrReadOnly
	}
	return nil
}

// Insert inserts text at (line, col). The column may equal the line length
// but not exceed it; out-of-bounds positions fail with ErrOutOfRange.
func (b *Buffer) Insert(line, col int, s string) error {
	if err := b.writable(); err != nil {
		return err
	}

	s = text.NormalizeLineEndings(s)
	tx := b.begin()
	if err := tx.apply(history.Insert(line, col, s)); err != nil {
		return err
	}
	b.commit("insert", tx)
	return nil
}

// Delete removes the text between (startLine, startCol) and
// (endLine, endCol). Both ends must be valid positions and the end must
// not precede the start.
func (b *Buffer) Delete(startLine, startCol, endLine, endCol int) error {
	if err := b.writable(); err != nil {
		return err
	}

	removed, err := b.text.SliceRange(text.NewRange(startLine, startCol, endLine, endCol))
	if err != nil {
		return err
	}

	tx := b.begin()
	if err := tx.apply(history.Delete(startLine, startCol, removed)); err != nil {
		return err
	}
	b.commit("delete", tx)
	return nil
}

// Replace replaces the text between two positions with s as a single
// undo step.
func (b *Buffer) Replace(startLine, startCol, endLine, endCol int, s string) error {
	if err := b.writable(); err != nil {
		return err
	}

	old, err := b.text.SliceRange(text.NewRange(startLine, startCol, endLine, endCol))
	if err != nil {
		return err
	}

	tx := b.begin()
	if err := tx.apply(history.Replace(startLine, startCol, old, text.NormalizeLineEndings(s))); err != nil {
		return err
	}
	b.commit("replace", tx)
	return nil
}

// InsertAt inserts text at (line, col), clamping instead of failing: lines
// past the end are created and the column is clamped to the line length.
// It reports whether the buffer accepted the edit.
func (b *Buffer) InsertAt(line, col int, s string) bool {
	if s == "" {
		return true
	}
	if line < 0 || b.writable() != nil {
		return false
	}

	tx := b.begin()
	if missing := line - tx.store.LineCount() + 1; missing > 0 {
		end := tx.store.EndPoint()
		if err := tx.apply(history.Insert(end.Line, end.Col, strings.Repeat("\n", missing))); err != nil {
			return false
		}
	}

	col = min(max(col, 0), tx.store.LineLen(line))
	if err := tx.apply(history.Insert(line, col, text.NormalizeLineEndings(s))); err != nil {
		return false
	}
	b.commit("insert", tx)
	return true
}

// DeleteAt deletes up to count characters from (line, col) without
// crossing the end of the line. The column is clamped to the line length.
// It reports whether the buffer accepted the edit.
func (b *Buffer) DeleteAt(line, col, count int) bool {
	if b.writable() != nil {
		return false
	}
	if count <= 0 {
		return true
	}
	s, ok := b.text.Line(line)
	if !ok {
		return false
	}

	n := utf8.RuneCountInString(s)
	start := min(max(col, 0), n)
	end := min(start+count, n)
	if start == end {
		return true
	}
	return b.Delete(line, start, line, end) == nil
}

// ReplaceTerm replaces the first occurrence of term on line at or after
// col with newText and returns the cursor position just after the
// replacement.
func (b *Buffer) ReplaceTerm(line, col int, term, newText string) (Point, error) {
	if err := b.writable(); err != nil {
		return Point{}, err
	}

	s, ok := b.text.Line(line)
	if !ok {
		return Point{}, fmt.Errorf("line %d: %w", line, ErrOutOfRange)
	}
	runes := []rune(s)
	if term == "" || col < 0 || col >= len(runes) {
		return Point{}, fmt.Errorf("%q on line %d: %w", term, line, ErrNotFound)
	}

	i := strings.Index(string(runes[col:]), term)
	if i < 0 {
		return Point{}, fmt.Errorf("%q on line %d: %w", term, line, ErrNotFound)
	}
	start := col + utf8.RuneCountInString(string(runes[col:])[:i])

	tx := b.begin()
	if err := tx.apply(history.Replace(line, start, term, text.NormalizeLineEndings(newText))); err != nil {
		return Point{}, err
	}
	b.commit("replace", tx)
	return tx.end, nil
}

// StartCompound groups the edits that follow into a single undo step,
// until EndCompound. Nested calls are ignored.
func (b *Buffer) StartCompound(name string) {
	b.history.StartCompound(name)
}

// EndCompound commits the edits since StartCompound as one undo step.
func (b *Buffer) EndCompound() {
	b.history.EndCompound()
}
