// Package app is the headless editor shell around the editing core. It
// keeps the set of open buffers, serializes access to them, reloads files
// changed on disk and turns core errors into status messages.
package app

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/highlight"
	"github.com/dshills/quill/internal/watcher"
)

// Shell owns every open buffer. All buffer access from more than one
// goroutine must go through Do, which holds the shell lock.
type Shell struct {
	mu sync.Mutex

	cfg         *config.Config
	log         *Logger
	highlighter engine.Highlighter

	buffers map[uuid.UUID]*engine.Buffer
	paths   map[string]uuid.UUID // absolute path -> buffer
	order   []uuid.UUID          // open order
	active  uuid.UUID

	// On-disk state recorded at load and save, so the watcher can tell
	// our own writes from someone else's.
	stamps map[string]fileStamp

	watcher *watcher.FileWatcher
	status  string
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the shell logger.
func WithLogger(l *Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHighlighter overrides the highlighter built from the config.
func WithHighlighter(h engine.Highlighter) Option {
	return func(s *Shell) {
		s.highlighter = h
	}
}

// New creates a shell. A nil config means config.Default().
func New(cfg *config.Config, opts ...Option) *Shell {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Shell{
		cfg:     cfg,
		log:     NullLogger,
		buffers: make(map[uuid.UUID]*engine.Buffer),
		paths:   make(map[string]uuid.UUID),
		stamps:  make(map[string]fileStamp),
	}
	if cfg.Highlight.Enabled {
		s.highlighter = cfg.NewHighlighter()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("shell")
	return s
}

// Config returns the shell configuration.
func (s *Shell) Config() *config.Config {
	return s.cfg
}

// Open opens the file at path, or returns the buffer that already holds
// it. A missing file opens as an empty buffer bound to path. The opened
// buffer becomes active.
func (s *Shell) Open(path string) (*engine.Buffer, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.paths[absPath]; ok {
		s.active = id
		return s.buffers[id], nil
	}

	b, err := engine.Open(absPath, s.cfg.EngineOptions()...)
	if err != nil {
		return nil, NewOperationError("open", absPath, err)
	}

	s.add(b)
	s.paths[absPath] = b.ID()
	s.stamp(absPath)
	s.watch(absPath)
	s.log.Debug("opened %s (%d lines)", absPath, b.LineCount())
	return b, nil
}

// Scratch creates an empty buffer with no file and makes it active.
func (s *Shell) Scratch() *engine.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := engine.New(s.cfg.EngineOptions()...)
	s.add(b)
	return b
}

func (s *Shell) add(b *engine.Buffer) {
	s.buffers[b.ID()] = b
	s.order = append(s.order, b.ID())
	s.active = b.ID()
}

// Get returns an open buffer.
func (s *Shell) Get(id uuid.UUID) (*engine.Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buffers[id]
	return b, ok
}

// Lookup returns the buffer bound to path.
func (s *Shell) Lookup(path string) (*engine.Buffer, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.paths[absPath]
	if !ok {
		return nil, false
	}
	return s.buffers[id], true
}

// Buffers returns the open buffers in the order they were opened.
func (s *Shell) Buffers() []*engine.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*engine.Buffer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.buffers[id])
	}
	return out
}

// Modified returns the buffers with unsaved changes.
func (s *Shell) Modified() []*engine.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*engine.Buffer
	for _, id := range s.order {
		if b := s.buffers[id]; b.IsModified() {
			out = append(out, b)
		}
	}
	return out
}

// Active returns the active buffer, or nil when none is open.
func (s *Shell) Active() *engine.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffers[s.active]
}

// SetActive makes an open buffer active.
func (s *Shell) SetActive(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buffers[id]; !ok {
		return ErrBufferNotFound
	}
	s.active = id
	return nil
}

// Close closes a buffer. A modified buffer is only closed when force is
// set. If the active buffer is closed, the most recently opened remaining
// buffer becomes active.
func (s *Shell) Close(id uuid.UUID, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buffers[id]
	if !ok {
		return ErrBufferNotFound
	}
	if b.IsModified() && !force {
		return NewOperationError("close", s.name(b), ErrUnsavedChanges)
	}

	delete(s.buffers, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if path := b.FilePath(); path != "" {
		delete(s.paths, path)
		delete(s.stamps, path)
		s.unwatch(path)
	}

	if s.active == id {
		s.active = uuid.Nil
		if n := len(s.order); n > 0 {
			s.active = s.order[n-1]
		}
	}
	return nil
}

// Do runs fn on a buffer while holding the shell lock.
func (s *Shell) Do(id uuid.UUID, fn func(*engine.Buffer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buffers[id]
	if !ok {
		return ErrBufferNotFound
	}
	return fn(b)
}

// Save writes a buffer to its bound file.
func (s *Shell) Save(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buffers[id]
	if !ok {
		return ErrBufferNotFound
	}
	if err := b.Save(); err != nil {
		return NewOperationError("save", s.name(b), err)
	}
	s.stamp(b.FilePath())
	s.log.Info("saved %s", b.FilePath())
	return nil
}

// SaveAs writes a buffer to path and rebinds it there.
func (s *Shell) SaveAs(id uuid.UUID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return NewOperationError("save", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buffers[id]
	if !ok {
		return ErrBufferNotFound
	}
	if other, ok := s.paths[absPath]; ok && other != id {
		return NewOperationError("save", absPath, ErrAlreadyOpen)
	}

	old := b.FilePath()
	if err := b.SaveAs(absPath); err != nil {
		return NewOperationError("save", absPath, err)
	}
	if old != absPath {
		if old != "" {
			delete(s.paths, old)
			delete(s.stamps, old)
			s.unwatch(old)
		}
		s.paths[absPath] = id
		s.watch(absPath)
	}
	s.stamp(absPath)
	s.log.Info("saved %s", absPath)
	return nil
}

// SaveAll saves every modified buffer that has a file. Failures are
// collected and the remaining buffers are still saved.
func (s *Shell) SaveAll() error {
	var errs ErrorList
	for _, b := range s.Modified() {
		if b.FilePath() == "" {
			continue
		}
		errs.Add(s.Save(b.ID()))
	}
	return errs.AsError()
}

// Undo undoes the last change in a buffer and returns the new cursor.
func (s *Shell) Undo(id uuid.UUID) (engine.Point, error) {
	var pos engine.Point
	err := s.Do(id, func(b *engine.Buffer) error {
		p, ok, err := b.Undo()
		if err != nil {
			return err
		}
		if !ok {
			return history.ErrNothingToUndo
		}
		pos = p
		return nil
	})
	return pos, err
}

// Redo redoes the last undone change in a buffer and returns the new
// cursor.
func (s *Shell) Redo(id uuid.UUID) (engine.Point, error) {
	var pos engine.Point
	err := s.Do(id, func(b *engine.Buffer) error {
		p, ok, err := b.Redo()
		if err != nil {
			return err
		}
		if !ok {
			return history.ErrNothingToRedo
		}
		pos = p
		return nil
	})
	return pos, err
}

// Highlight returns the highlight spans for a buffer, recomputing them if
// the buffer changed. With highlighting disabled it returns nil.
func (s *Shell) Highlight(id uuid.UUID) ([]highlight.Span, error) {
	var spans []highlight.Span
	err := s.Do(id, func(b *engine.Buffer) error {
		if s.highlighter == nil {
			return nil
		}
		if err := b.ApplySyntaxHighlight(s.highlighter); err != nil {
			return err
		}
		spans, _ = b.Highlights()
		return nil
	})
	return spans, err
}

// Report records err as the status message and logs it. A nil error clears
// the status.
func (s *Shell) Report(err error) string {
	msg := StatusMessage(err)
	if err != nil {
		s.log.Warn("%v", err)
	}

	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
	return msg
}

// Status returns the current status message.
func (s *Shell) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// name returns a display name for a buffer. The caller holds mu.
func (s *Shell) name(b *engine.Buffer) string {
	if path := b.FilePath(); path != "" {
		return filepath.Base(path)
	}
	return "[scratch]"
}

// stamp records the on-disk state of path. The caller holds mu.
func (s *Shell) stamp(path string) {
	info, err := os.Stat(path)
	if err != nil {
		delete(s.stamps, path)
		return
	}
	s.stamps[path] = fileStamp{modTime: info.ModTime(), size: info.Size()}
}
