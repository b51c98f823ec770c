package history

import (
	"errors"
	"testing"

	"github.com/dshills/quill/internal/engine/text"
)

// Operation Tests

func TestOperationInvert(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want Operation
	}{
		{"insert", Insert(1, 2, "abc"), Delete(1, 2, "abc")},
		{"delete", Delete(0, 4, "x\ny"), Insert(0, 4, "x\ny")},
		{"replace", Replace(3, 0, "old", "new"), Replace(3, 0, "new", "old")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op.Invert()
			if got.Kind != tt.want.Kind || got.Line != tt.want.Line || got.Col != tt.want.Col ||
				got.Text != tt.want.Text || got.NewText != tt.want.NewText {
				t.Errorf("Invert() = %+v, want %+v", got, tt.want)
			}
			back := got.Invert()
			if back.Kind != tt.op.Kind || back.Text != tt.op.Text || back.NewText != tt.op.NewText {
				t.Errorf("double Invert() = %+v, want %+v", back, tt.op)
			}
		})
	}
}

func TestCompoundInvertReversesOrder(t *testing.T) {
	op := Compound(Insert(0, 0, "a"), Delete(0, 5, "b"), Replace(1, 0, "c", "d"))
	inv := op.Invert()

	if inv.Kind != KindCompound || len(inv.Ops) != 3 {
		t.Fatalf("unexpected inverse %+v", inv)
	}
	if inv.Ops[0].Kind != KindReplace || inv.Ops[0].Text != "d" || inv.Ops[0].NewText != "c" {
		t.Errorf("first inverse op = %+v", inv.Ops[0])
	}
	if inv.Ops[1].Kind != KindInsert || inv.Ops[1].Text != "b" {
		t.Errorf("second inverse op = %+v", inv.Ops[1])
	}
	if inv.Ops[2].Kind != KindDelete || inv.Ops[2].Text != "a" {
		t.Errorf("third inverse op = %+v", inv.Ops[2])
	}

	if op.Ops[0].Kind != KindInsert {
		t.Error("Invert modified the original")
	}
}

func TestOperationStart(t *testing.T) {
	if got := Insert(2, 7, "x").Start(); got != (text.Point{Line: 2, Col: 7}) {
		t.Errorf("Start() = %v", got)
	}
	c := Compound(Delete(4, 1, "y"), Insert(0, 0, "z"))
	if got := c.Start(); got != (text.Point{Line: 4, Col: 1}) {
		t.Errorf("compound Start() = %v", got)
	}
	if got := Compound().Start(); got != (text.Point{}) {
		t.Errorf("empty compound Start() = %v", got)
	}
}

func TestOperationCharsDelta(t *testing.T) {
	tests := []struct {
		op   Operation
		want int
	}{
		{Insert(0, 0, "héllo"), 5},
		{Delete(0, 0, "abc"), -3},
		{Replace(0, 0, "a", "xyz"), 2},
		{Compound(Insert(0, 0, "ab"), Delete(0, 0, "a")), 1},
	}

	for _, tt := range tests {
		if got := tt.op.CharsDelta(); got != tt.want {
			t.Errorf("%s CharsDelta() = %d, want %d", tt.op.Kind, got, tt.want)
		}
	}
}

func TestOperationIsNoop(t *testing.T) {
	if !Insert(0, 0, "").IsNoop() {
		t.Error("empty insert should be a noop")
	}
	if !Replace(0, 0, "same", "same").IsNoop() {
		t.Error("identity replace should be a noop")
	}
	if Compound(Insert(0, 0, ""), Delete(0, 0, "x")).IsNoop() {
		t.Error("compound with a delete is not a noop")
	}
}

// History Tests

func TestHistoryPushAndUndo(t *testing.T) {
	h := New(0)
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("expected default max entries, got %d", h.MaxEntries())
	}

	h.Record(Insert(0, 0, "hello"))
	if !h.CanUndo() || h.CanRedo() {
		t.Fatal("expected undo available and no redo")
	}

	op, ok := h.Undo()
	if !ok {
		t.Fatal("undo should succeed")
	}
	if op.Kind != KindDelete || op.Text != "hello" {
		t.Errorf("undo op = %+v", op)
	}
	if !h.IsReplaying() {
		t.Error("history should be replaying after Undo")
	}
	h.FinishUndoRedo()

	if h.CanUndo() || !h.CanRedo() {
		t.Error("entry should have moved to the redo stack")
	}
}

func TestHistoryRedo(t *testing.T) {
	h := New(10)
	h.Record(Replace(1, 1, "a", "b"))

	h.Undo()
	h.FinishUndoRedo()

	op, ok := h.Redo()
	if !ok {
		t.Fatal("redo should succeed")
	}
	h.FinishUndoRedo()

	if op.Kind != KindReplace || op.Text != "a" || op.NewText != "b" {
		t.Errorf("redo op = %+v", op)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("counts = %d/%d", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := New(10)
	if _, ok := h.Undo(); ok {
		t.Error("undo on empty history should fail")
	}
	if _, ok := h.Redo(); ok {
		t.Error("redo on empty history should fail")
	}
	if h.IsReplaying() {
		t.Error("failed undo should not enter replay mode")
	}
}

func TestHistoryRedoClearedOnPush(t *testing.T) {
	h := New(10)
	h.Record(Insert(0, 0, "a"))
	h.Undo()
	h.FinishUndoRedo()

	h.Record(Insert(0, 0, "b"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared by a new edit")
	}
}

func TestHistoryPushIgnoredWhileReplaying(t *testing.T) {
	h := New(10)
	h.Record(Insert(0, 0, "a"))
	h.Record(Insert(0, 1, "b"))

	h.Undo()
	h.Record(Delete(0, 1, "b"))
	h.FinishUndoRedo()

	if h.UndoCount() != 1 || h.RedoCount() != 1 {
		t.Errorf("push during replay was recorded: undo=%d redo=%d", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryCancelUndoRedo(t *testing.T) {
	h := New(10)
	h.Record(Insert(0, 0, "a"))

	h.Undo()
	h.CancelUndoRedo()
	if h.UndoCount() != 1 || h.RedoCount() != 0 || h.IsReplaying() {
		t.Errorf("cancelled undo not restored: undo=%d redo=%d", h.UndoCount(), h.RedoCount())
	}

	h.Undo()
	h.FinishUndoRedo()
	h.Redo()
	h.CancelUndoRedo()
	if h.UndoCount() != 0 || h.RedoCount() != 1 {
		t.Errorf("cancelled redo not restored: undo=%d redo=%d", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Record(Insert(0, i, "x"))
	}

	if h.UndoCount() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.UndoCount())
	}

	// The two oldest edits were evicted.
	for want := 4; want >= 2; want-- {
		op, _ := h.Undo()
		h.FinishUndoRedo()
		if op.Col != want {
			t.Errorf("undo col = %d, want %d", op.Col, want)
		}
	}

	h.SetMaxEntries(1)
	if h.UndoCount() != 0 {
		t.Errorf("undo count after shrink = %d", h.UndoCount())
	}
}

func TestHistoryCompound(t *testing.T) {
	h := New(10)

	h.StartCompound("Replace All")
	h.StartCompound("ignored")
	h.Record(Replace(0, 8, "foo", "bazz"))
	h.Record(Replace(0, 0, "foo", "bazz"))
	if h.CanUndo() {
		t.Error("compound entries must not be visible before EndCompound")
	}
	h.EndCompound()

	if h.UndoCount() != 1 {
		t.Fatalf("expected one compound entry, got %d", h.UndoCount())
	}
	info, _ := h.PeekUndo()
	if info.Description != "Replace All" {
		t.Errorf("description = %q", info.Description)
	}
	if info.CharsDelta != 2 {
		t.Errorf("chars delta = %d", info.CharsDelta)
	}

	op, _ := h.Undo()
	h.FinishUndoRedo()
	if op.Kind != KindCompound || len(op.Ops) != 2 {
		t.Fatalf("undo op = %+v", op)
	}
	// Undo reverts the last recorded edit first.
	if op.Ops[0].Col != 0 || op.Ops[1].Col != 8 {
		t.Errorf("undo order = %d, %d", op.Ops[0].Col, op.Ops[1].Col)
	}

	op, _ = h.Redo()
	h.FinishUndoRedo()
	if op.Ops[0].Col != 8 || op.Ops[1].Col != 0 {
		t.Errorf("redo order = %d, %d", op.Ops[0].Col, op.Ops[1].Col)
	}
}

func TestHistoryCompoundEdgeCases(t *testing.T) {
	h := New(10)

	h.StartCompound("empty")
	h.EndCompound()
	if h.CanUndo() {
		t.Error("empty compound should record nothing")
	}

	h.StartCompound("single")
	h.Record(Insert(0, 0, "a"))
	h.EndCompound()
	op, _ := h.Undo()
	h.FinishUndoRedo()
	if op.Kind != KindDelete {
		t.Errorf("single-entry compound should unwrap, got %s", op.Kind)
	}

	h.StartCompound("aborted")
	h.Record(Insert(0, 0, "a"))
	h.Record(Insert(0, 1, "b"))
	dropped := h.AbortCompound()
	if len(dropped) != 2 || h.InCompound() {
		t.Errorf("AbortCompound returned %d entries", len(dropped))
	}
	if h.CanUndo() {
		t.Error("aborted compound should not be recorded")
	}
}

func TestHistoryUndoClosesOpenCompound(t *testing.T) {
	h := New(10)
	h.Record(Insert(0, 0, "abc"))

	h.StartCompound("typing")
	h.Record(Insert(0, 3, "X"))
	h.Record(Insert(0, 4, "Y"))

	op, ok := h.Undo()
	h.FinishUndoRedo()
	if !ok || h.InCompound() {
		t.Fatalf("Undo() ok=%v, InCompound=%v", ok, h.InCompound())
	}
	if op.Kind != KindCompound || len(op.Ops) != 2 {
		t.Fatalf("expected the open compound to be undone, got %+v", op)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 1 {
		t.Errorf("undo=%d redo=%d, want 1 and 1", h.UndoCount(), h.RedoCount())
	}

	// A later EndCompound has nothing left to commit.
	h.EndCompound()
	if h.UndoCount() != 1 || h.RedoCount() != 1 {
		t.Errorf("after EndCompound undo=%d redo=%d", h.UndoCount(), h.RedoCount())
	}

	op, _ = h.Undo()
	h.FinishUndoRedo()
	if op.Kind != KindDelete || op.Text != "abc" {
		t.Errorf("second undo = %+v", op)
	}
}

func TestHistoryRedoClosesOpenCompound(t *testing.T) {
	h := New(10)
	h.Record(Insert(0, 0, "a"))
	h.Undo()
	h.FinishUndoRedo()

	h.StartCompound("empty")
	if _, ok := h.Redo(); !ok {
		t.Fatal("an empty compound should not block redo")
	}
	h.FinishUndoRedo()
	if h.InCompound() {
		t.Error("Redo left the compound open")
	}

	h.Undo()
	h.FinishUndoRedo()
	h.StartCompound("typing")
	h.Record(Insert(0, 0, "b"))
	if _, ok := h.Redo(); ok {
		t.Error("Redo after new edits should have nothing to redo")
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("undo=%d redo=%d, want 1 and 0", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryTransaction(t *testing.T) {
	h := New(10)

	err := h.Transaction("edit", func() error {
		h.Record(Insert(0, 0, "a"))
		h.Record(Insert(0, 1, "b"))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if h.UndoCount() != 1 {
		t.Errorf("expected 1 entry, got %d", h.UndoCount())
	}

	boom := errors.New("boom")
	err = h.Transaction("failing", func() error {
		h.Record(Insert(0, 2, "c"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if h.UndoCount() != 1 || h.InCompound() {
		t.Error("failed transaction should leave no trace")
	}
}

func TestCompoundScopeJoinsOuter(t *testing.T) {
	h := New(10)
	h.StartCompound("outer")

	func() {
		defer h.CompoundScope("inner").End()
		h.Record(Insert(0, 0, "a"))
	}()
	if !h.InCompound() {
		t.Fatal("inner scope closed the outer compound")
	}

	h.Record(Insert(0, 1, "b"))
	h.EndCompound()

	info, _ := h.PeekUndo()
	if h.UndoCount() != 1 || info.Description != "outer" {
		t.Errorf("expected a single outer entry, got %d (%q)", h.UndoCount(), info.Description)
	}
}

func TestHistoryClear(t *testing.T) {
	h := New(10)
	h.Record(Insert(0, 0, "a"))
	h.Undo()
	h.StartCompound("open")
	h.Clear()

	if h.CanUndo() || h.CanRedo() || h.InCompound() || h.IsReplaying() {
		t.Error("Clear should reset all state")
	}
}

func TestHistoryInfo(t *testing.T) {
	h := New(10)
	h.Record(Insert(0, 0, "ab"))
	h.Record(Delete(0, 0, "a"))

	infos := h.UndoInfo()
	if len(infos) != 2 {
		t.Fatalf("expected 2 infos, got %d", len(infos))
	}
	if infos[0].CharsDelta != 2 || infos[1].CharsDelta != -1 {
		t.Errorf("unexpected deltas %d, %d", infos[0].CharsDelta, infos[1].CharsDelta)
	}
	if infos[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	if _, ok := h.PeekRedo(); ok {
		t.Error("nothing to redo yet")
	}
	h.Undo()
	h.FinishUndoRedo()
	if len(h.RedoInfo()) != 1 {
		t.Error("expected one redo entry")
	}
}
