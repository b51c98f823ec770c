package engine

import "github.com/dshills/quill/internal/engine/history"

// Undo reverts the most recent undo step and returns the position where
// the reverted edit started. The second result is false when there was
// nothing to undo.
func (b *Buffer) Undo() (Point, bool, error) {
	if err := b.writable(); err != nil {
		return Point{}, false, err
	}
	op, ok := b.history.Undo()
	if !ok {
		return Point{}, false, nil
	}

	tx, err := b.replay(op)
	if err != nil {
		return Point{}, false, err
	}
	return tx.start, true, nil
}

// Redo reapplies the most recently undone step and returns the position
// just past the reinserted text (the start of the edit for a deletion).
// The second result is false when there was nothing to redo.
func (b *Buffer) Redo() (Point, bool, error) {
	if err := b.writable(); err != nil {
		return Point{}, false, err
	}
	op, ok := b.history.Redo()
	if !ok {
		return Point{}, false, nil
	}

	tx, err := b.replay(op)
	if err != nil {
		return Point{}, false, err
	}
	return tx.end, true, nil
}

// replay applies an operation handed out by Undo or Redo. History stays in
// replay mode for the duration, so the edit is not recorded again; on
// failure the history entry is put back and the text is left unchanged.
func (b *Buffer) replay(op history.Operation) (tx *editTx, err error) {
	defer func() {
		if err != nil {
			b.history.CancelUndoRedo()
			return
		}
		b.history.FinishUndoRedo()
	}()

	tx = b.begin()
	if err = tx.apply(op); err != nil {
		return nil, err
	}
	b.commit("", tx)
	return tx, nil
}
