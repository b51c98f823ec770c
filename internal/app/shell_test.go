package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/highlight"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newShell(t *testing.T, opts ...Option) *Shell {
	t.Helper()
	cfg := config.Default()
	cfg.Highlight.Enabled = false
	return New(cfg, opts...)
}

func TestOpenReturnsExistingBuffer(t *testing.T) {
	s := newShell(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "hello\n")

	b1, err := s.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", b1.Text())

	other, err := s.Open(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	assert.Same(t, other, s.Active())

	b2, err := s.Open(filepath.Join(dir, ".", "a.txt"))
	require.NoError(t, err)
	assert.Same(t, b1, b2)
	assert.Same(t, b1, s.Active())
	assert.Len(t, s.Buffers(), 2)

	found, ok := s.Lookup(path)
	require.True(t, ok)
	assert.Same(t, b1, found)
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s := newShell(t)
	path := filepath.Join(t.TempDir(), "new.go")

	b, err := s.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "", b.Text())
	assert.Equal(t, path, b.FilePath())
	assert.Equal(t, "go", b.FileType())
}

func TestOpenDirectoryFails(t *testing.T) {
	s := newShell(t)
	dir := t.TempDir()

	_, err := s.Open(dir)
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "open", opErr.Op)
	assert.ErrorIs(t, err, engine.ErrIO)
	assert.Empty(t, s.Buffers())
}

func TestOpenUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.History.MaxEntries = 3
	s := New(cfg)

	b := s.Scratch()
	assert.Equal(t, 3, b.History().MaxEntries())
}

func TestScratchBuffers(t *testing.T) {
	s := newShell(t)
	a := s.Scratch()
	b := s.Scratch()

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Same(t, b, s.Active())

	got, ok := s.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	require.NoError(t, s.SetActive(a.ID()))
	assert.Same(t, a, s.Active())
	assert.ErrorIs(t, s.SetActive(uuid.New()), ErrBufferNotFound)
}

func TestCloseRefusesUnsavedChanges(t *testing.T) {
	s := newShell(t)
	first := s.Scratch()
	b := s.Scratch()
	require.NoError(t, b.Insert(0, 0, "x"))

	err := s.Close(b.ID(), false)
	require.ErrorIs(t, err, ErrUnsavedChanges)
	_, ok := s.Get(b.ID())
	assert.True(t, ok)

	require.NoError(t, s.Close(b.ID(), true))
	_, ok = s.Get(b.ID())
	assert.False(t, ok)
	assert.Same(t, first, s.Active())

	require.NoError(t, s.Close(first.ID(), false))
	assert.Nil(t, s.Active())
	assert.ErrorIs(t, s.Close(first.ID(), false), ErrBufferNotFound)
}

func TestCloseForgetsPath(t *testing.T) {
	s := newShell(t)
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "one")

	b, err := s.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close(b.ID(), false))

	_, ok := s.Lookup(path)
	assert.False(t, ok)

	reopened, err := s.Open(path)
	require.NoError(t, err)
	assert.NotEqual(t, b.ID(), reopened.ID())
}

func TestSaveAndSaveAs(t *testing.T) {
	s := newShell(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")

	b := s.Scratch()
	require.NoError(t, b.Insert(0, 0, "text"))

	err := s.Save(b.ID())
	require.ErrorIs(t, err, engine.ErrNoBoundPath)
	assert.Equal(t, "[scratch]: no file name (use save as)", StatusMessage(err))

	require.NoError(t, s.SaveAs(b.ID(), path))
	assert.False(t, b.IsModified())
	got, ok := s.Lookup(path)
	require.True(t, ok)
	assert.Same(t, b, got)

	require.NoError(t, b.Insert(0, 4, "!"))
	require.NoError(t, s.Save(b.ID()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text!", string(data))

	moved := filepath.Join(dir, "b.txt")
	require.NoError(t, s.SaveAs(b.ID(), moved))
	_, ok = s.Lookup(path)
	assert.False(t, ok)
	_, ok = s.Lookup(moved)
	assert.True(t, ok)
}

func TestSaveAsOntoOpenFile(t *testing.T) {
	s := newShell(t)
	path := filepath.Join(t.TempDir(), "a.txt")
	_, err := s.Open(path)
	require.NoError(t, err)

	b := s.Scratch()
	err = s.SaveAs(b.ID(), path)
	assert.ErrorIs(t, err, ErrAlreadyOpen)
}

func TestSaveAll(t *testing.T) {
	s := newShell(t)
	dir := t.TempDir()

	a, err := s.Open(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	b, err := s.Open(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	scratch := s.Scratch()

	require.NoError(t, a.Insert(0, 0, "a"))
	require.NoError(t, b.Insert(0, 0, "b"))
	require.NoError(t, scratch.Insert(0, 0, "s"))

	require.NoError(t, s.SaveAll())
	assert.Equal(t, []*engine.Buffer{scratch}, s.Modified())

	// A vanished directory fails only that buffer.
	missing, err := s.Open(filepath.Join(dir, "gone", "c.txt"))
	require.NoError(t, err)
	require.NoError(t, missing.Insert(0, 0, "c"))
	require.NoError(t, a.Insert(0, 1, "a"))

	err = s.SaveAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrIO)
	assert.False(t, a.IsModified())

	var list *ErrorList
	require.True(t, errors.As(err, &list))
	assert.Equal(t, 1, list.Len())
}

func TestUndoRedoThroughShell(t *testing.T) {
	s := newShell(t)
	b := s.Scratch()

	_, err := s.Undo(b.ID())
	require.ErrorIs(t, err, history.ErrNothingToUndo)
	assert.Equal(t, "already at oldest change", StatusMessage(err))

	require.NoError(t, b.Insert(0, 0, "hello"))
	pos, err := s.Undo(b.ID())
	require.NoError(t, err)
	assert.Equal(t, engine.Point{Line: 0, Col: 0}, pos)

	pos, err = s.Redo(b.ID())
	require.NoError(t, err)
	assert.Equal(t, engine.Point{Line: 0, Col: 5}, pos)

	_, err = s.Redo(b.ID())
	assert.ErrorIs(t, err, history.ErrNothingToRedo)

	_, err = s.Undo(uuid.New())
	assert.ErrorIs(t, err, ErrBufferNotFound)
}

type stubHighlighter struct{ calls int }

func (h *stubHighlighter) Highlight(src, fileType, filePath string) ([]highlight.Span, error) {
	h.calls++
	return []highlight.Span{{Line: 0, StartCol: 0, EndCol: len(src), Style: highlight.StyleKeyword}}, nil
}

func TestHighlight(t *testing.T) {
	h := &stubHighlighter{}
	s := newShell(t, WithHighlighter(h))
	b := s.Scratch()
	require.NoError(t, b.Insert(0, 0, "func"))

	spans, err := s.Highlight(b.ID())
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, highlight.StyleKeyword, spans[0].Style)

	_, err = s.Highlight(b.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, h.calls)
}

func TestHighlightDisabled(t *testing.T) {
	s := newShell(t)
	b := s.Scratch()

	spans, err := s.Highlight(b.ID())
	require.NoError(t, err)
	assert.Nil(t, spans)
}

func TestHighlightFromConfig(t *testing.T) {
	s := New(config.Default())
	b, err := s.Open(filepath.Join(t.TempDir(), "main.go"))
	require.NoError(t, err)
	require.NoError(t, b.Insert(0, 0, "package main\n"))

	spans, err := s.Highlight(b.ID())
	require.NoError(t, err)
	assert.NotEmpty(t, spans)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})
	s := newShell(t, WithLogger(log))

	msg := s.Report(NewOperationError("close", "a.txt", ErrUnsavedChanges))
	assert.Equal(t, "a.txt: unsaved changes (add ! to discard)", msg)
	assert.Equal(t, msg, s.Status())
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), "component=shell")

	assert.Equal(t, "", s.Report(nil))
	assert.Equal(t, "", s.Status())
}
