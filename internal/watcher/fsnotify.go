package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches individual files using fsnotify.
type FileWatcher struct {
	mu sync.Mutex

	// fsnotify watcher
	watcher *fsnotify.Watcher

	// Configuration
	config Config

	// Watched files, and how many of them live in each directory
	files map[string]bool
	dirs  map[string]int

	// Debounced events waiting for their timer
	pending map[string]*pendingEvent

	// Output channels
	events chan Event
	errors chan error

	// Lifecycle
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a file watcher.
func New(opts ...Option) (*FileWatcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FileWatcher{
		watcher: fsw,
		config:  config,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, config.BufferSize),
		errors:  make(chan error, config.BufferSize),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add starts watching the file at path. The file itself need not exist,
// but its directory must; creating the file is reported as an event.
func (w *FileWatcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.files[absPath] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return ErrPathNotExist
			}
			return err
		}
		if !info.IsDir() {
			return ErrPathNotExist
		}
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}

	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Remove stops watching the file at path.
func (w *FileWatcher) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}

	delete(w.files, absPath)
	if p, ok := w.pending[absPath]; ok {
		p.timer.Stop()
		delete(w.pending, absPath)
	}

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)

	// The directory may already be gone, which removes the watch.
	if err := w.watcher.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
		return err
	}
	return nil
}

// IsWatching returns true if the file at path is being watched.
func (w *FileWatcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[absPath]
}

// Files returns the watched files in sorted order.
func (w *FileWatcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Events returns the event channel. It is closed by Close.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Pending debounced events are dropped.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)

	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	// Wait for processLoop to finish
	w.closedWg.Wait()

	err := w.watcher.Close()

	// Timer callbacks check closed under the lock before sending.
	w.mu.Lock()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()

	return err
}

// processLoop handles incoming fsnotify events.
func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.sendError(err)
			w.mu.Unlock()
		}
	}
}

// handleFSEvent converts an fsnotify event for a watched file and either
// sends it or folds it into the pending event for that file.
func (w *FileWatcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Clean(fsEvent.Name)
	if w.closed || !w.files[path] {
		return
	}

	event := Event{Path: path, Op: op, Timestamp: time.Now()}
	if w.config.Debounce <= 0 {
		w.sendEvent(event)
		return
	}

	if p, ok := w.pending[path]; ok {
		p.event.Op |= op
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(w.config.Debounce)
		return
	}

	p := &pendingEvent{event: event}
	p.timer = time.AfterFunc(w.config.Debounce, func() {
		w.fire(path)
	})
	w.pending[path] = p
}

// fire sends the pending event for path.
func (w *FileWatcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || w.closed {
		return
	}
	delete(w.pending, path)
	w.sendEvent(p.event)
}

// Flush immediately sends every pending event.
func (w *FileWatcher) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
		w.sendEvent(p.event)
	}
}

// sendEvent sends an event without blocking. The caller holds mu.
func (w *FileWatcher) sendEvent(event Event) {
	select {
	case w.events <- event:
	default:
		w.sendError(errors.New("event channel full, dropping event for " + event.Path))
	}
}

// sendError sends an error without blocking. The caller holds mu.
func (w *FileWatcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		// Channel full, drop error
	}
}

// convertOp converts fsnotify.Op to watcher.Op. Permission changes are
// not reported.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
