package engine

import (
	"fmt"

	"github.com/dshills/quill/internal/highlight"
)

// Highlighter produces styled spans for a document.
type Highlighter interface {
	Highlight(src, fileType, filePath string) ([]highlight.Span, error)
}

// ApplySyntaxHighlight refreshes the highlight cache with h. It does nothing
// while the cache is current. On error the previous spans are kept and the
// cache stays dirty.
func (b *Buffer) ApplySyntaxHighlight(h Highlighter) error {
	if h == nil {
		return nil
	}
	if !b.highlightDirty && b.highlights != nil {
		return nil
	}

	spans, err := h.Highlight(b.text.String(), b.fileType, b.filePath)
	if err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	if spans == nil {
		spans = []highlight.Span{}
	}
	b.highlights = spans
	b.highlightDirty = false
	return nil
}

// Highlights returns the cached spans and whether they are current.
func (b *Buffer) Highlights() ([]highlight.Span, bool) {
	out := make([]highlight.Span, len(b.highlights))
	copy(out, b.highlights)
	return out, !b.highlightDirty
}

// HighlightDirty reports whether the cached spans are stale.
func (b *Buffer) HighlightDirty() bool {
	return b.highlightDirty
}

// invalidateHighlights marks the cache stale. The old spans stay available
// until the next ApplySyntaxHighlight.
func (b *Buffer) invalidateHighlights() {
	b.highlightDirty = true
}
