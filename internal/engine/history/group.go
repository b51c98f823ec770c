package history

// CompoundScope provides a convenient way to group edits using defer.
// Usage:
//
//	func replaceAll(h *History) {
//	    defer h.CompoundScope("Replace All").End()
//	    // ... multiple edits ...
//	}
type CompoundScope struct {
	history *History
	owner   bool
	active  bool
}

// CompoundScope starts a compound. If a compound is already open the scope
// joins it and End leaves it open for its owner.
func (h *History) CompoundScope(name string) *CompoundScope {
	owner := !h.compound
	h.StartCompound(name)
	return &CompoundScope{history: h, owner: owner, active: true}
}

// End commits the compound if this scope opened it.
// Safe to call multiple times; only the first call has effect.
func (s *CompoundScope) End() {
	if s.active {
		if s.owner {
			s.history.EndCompound()
		}
		s.active = false
	}
}

// Abort discards the compound if this scope opened it.
// Edits already applied to the document are not reverted.
func (s *CompoundScope) Abort() {
	if s.active {
		if s.owner {
			s.history.AbortCompound()
		}
		s.active = false
	}
}

// Transaction runs fn inside a compound. If fn returns an error the compound
// is aborted, otherwise it is committed. When a compound is already open fn
// simply joins it.
func (h *History) Transaction(name string, fn func() error) error {
	scope := h.CompoundScope(name)
	if err := fn(); err != nil {
		scope.Abort()
		return err
	}
	scope.End()
	return nil
}
