package app

import (
	"context"
	"errors"
	"os"

	"github.com/dshills/quill/internal/watcher"
)

// Watch reloads buffers whose files change on disk until ctx is done.
// Unmodified buffers are reloaded; buffers with unsaved edits are left
// alone and the conflict is reported in the status message.
func (s *Shell) Watch(ctx context.Context) error {
	if !s.cfg.Watch.Enabled {
		return ErrWatchDisabled
	}

	w, err := watcher.New(watcher.WithDebounce(s.cfg.Watch.Debounce.Duration))
	if err != nil {
		return NewOperationError("watch", "", err)
	}
	defer w.Close()

	s.mu.Lock()
	s.watcher = w
	for path := range s.paths {
		s.watch(path)
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.watcher = nil
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			s.handleFileEvent(ev)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			s.log.Warn("watcher: %v", err)
		}
	}
}

// Watching reports whether Watch is running.
func (s *Shell) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watcher != nil
}

func (s *Shell) handleFileEvent(ev watcher.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.paths[ev.Path]
	if !ok {
		return
	}
	b := s.buffers[id]
	log := s.log.WithFields(map[string]any{"path": ev.Path, "op": ev.Op})

	info, err := os.Stat(ev.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			delete(s.stamps, ev.Path)
			s.status = s.name(b) + " was removed from disk"
			log.Warn("file removed")
			return
		}
		log.Error("stat: %v", err)
		return
	}

	if st, ok := s.stamps[ev.Path]; ok && st.size == info.Size() && st.modTime.Equal(info.ModTime()) {
		return
	}

	if b.IsModified() {
		s.status = StatusMessage(NewOperationError("reload", s.name(b), ErrChangedOnDisk))
		log.Warn("changed on disk with unsaved edits, not reloading")
		return
	}

	if err := b.Reload(); err != nil {
		s.status = StatusMessage(err)
		log.Error("reload: %v", err)
		return
	}
	s.stamp(ev.Path)
	s.status = s.name(b) + " reloaded"
	log.Info("reloaded")
}

// watch adds path to the running watcher. The caller holds mu.
func (s *Shell) watch(path string) {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Add(path); err != nil && !errors.Is(err, watcher.ErrAlreadyWatching) {
		s.log.Warn("watch %s: %v", path, err)
	}
}

// unwatch removes path from the running watcher. The caller holds mu.
func (s *Shell) unwatch(path string) {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Remove(path); err != nil && !errors.Is(err, watcher.ErrNotWatching) {
		s.log.Warn("unwatch %s: %v", path, err)
	}
}
