package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const eventTimeout = 3 * time.Second

func newWatcher(t *testing.T, opts ...Option) *FileWatcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
}

func waitEvent(t *testing.T, w *FileWatcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case err := <-w.Errors():
		t.Fatalf("watcher error = %v", err)
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestAddRemove(t *testing.T) {
	w := newWatcher(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "a")

	if err := w.Add(path); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("should be watching path")
	}
	if err := w.Add(path); err != ErrAlreadyWatching {
		t.Errorf("Add again error = %v, want ErrAlreadyWatching", err)
	}

	other := filepath.Join(dir, "b.txt")
	if err := w.Add(other); err != nil {
		t.Fatalf("Add sibling error = %v", err)
	}
	if got := w.Files(); len(got) != 2 || got[0] != path {
		t.Errorf("Files() = %v", got)
	}

	if err := w.Remove(path); err != nil {
		t.Fatalf("Remove error = %v", err)
	}
	if w.IsWatching(path) {
		t.Error("should not be watching path after Remove")
	}
	if err := w.Remove(path); err != ErrNotWatching {
		t.Errorf("Remove again error = %v, want ErrNotWatching", err)
	}
	if err := w.Remove(other); err != nil {
		t.Fatalf("Remove sibling error = %v", err)
	}
}

func TestAddMissingDirectory(t *testing.T) {
	w := newWatcher(t)
	err := w.Add(filepath.Join(t.TempDir(), "missing", "a.txt"))
	if err != ErrPathNotExist {
		t.Errorf("Add error = %v, want ErrPathNotExist", err)
	}
}

func TestWriteEvent(t *testing.T) {
	w := newWatcher(t, WithDebounce(0))
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "one")

	if err := w.Add(path); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	writeFile(t, path, "two")

	ev := waitEvent(t, w)
	if ev.Path != path {
		t.Errorf("Path = %q, want %q", ev.Path, path)
	}
	if !ev.Op.Has(OpWrite) {
		t.Errorf("Op = %v, want WRITE", ev.Op)
	}
	if ev.Gone() {
		t.Error("written file should not be gone")
	}
}

func TestCreateEventForMissingFile(t *testing.T) {
	w := newWatcher(t, WithDebounce(0))
	path := filepath.Join(t.TempDir(), "new.txt")

	if err := w.Add(path); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	writeFile(t, path, "hello")

	ev := waitEvent(t, w)
	if !ev.Op.Has(OpCreate) {
		t.Errorf("Op = %v, want CREATE", ev.Op)
	}
}

func TestRemoveEvent(t *testing.T) {
	w := newWatcher(t, WithDebounce(0))
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "x")

	if err := w.Add(path); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, w)
	if !ev.Gone() {
		t.Errorf("Op = %v, want the file to be gone", ev.Op)
	}
}

func TestSiblingFilesIgnored(t *testing.T) {
	w := newWatcher(t, WithDebounce(0))
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "x")

	if err := w.Add(path); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	writeFile(t, filepath.Join(dir, "other.txt"), "y")

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDebounceCoalesces(t *testing.T) {
	w := newWatcher(t, WithDebounce(150*time.Millisecond))
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "0")

	if err := w.Add(path); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	for i := 0; i < 5; i++ {
		writeFile(t, path, string(rune('a'+i)))
	}

	ev := waitEvent(t, w)
	if !ev.Op.Has(OpWrite) {
		t.Errorf("Op = %v, want WRITE", ev.Op)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("expected a single event, got another %+v", ev)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestFlush(t *testing.T) {
	w := newWatcher(t, WithDebounce(time.Hour))
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "0")

	if err := w.Add(path); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	writeFile(t, path, "1")

	deadline := time.Now().Add(eventTimeout)
	for {
		w.Flush()
		select {
		case ev := <-w.Events():
			if ev.Path != path {
				t.Errorf("Path = %q, want %q", ev.Path, path)
			}
			return
		case <-time.After(20 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for flushed event")
		}
	}
}

func TestClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if err := w.Add("x"); err != ErrWatcherClosed {
		t.Errorf("Add after Close error = %v, want ErrWatcherClosed", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("events channel should be closed")
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpWrite, "WRITE"},
		{OpCreate | OpWrite, "CREATE|WRITE"},
		{OpRemove | OpRename, "REMOVE|RENAME"},
		{0, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestEventGone(t *testing.T) {
	if !(Event{Op: OpRemove}).Gone() {
		t.Error("removed file should be gone")
	}
	if (Event{Op: OpRename | OpCreate}).Gone() {
		t.Error("renamed and recreated file should not be gone")
	}
}
