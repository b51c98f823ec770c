package engine

import (
	"unicode/utf8"

	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/search"
	"github.com/dshills/quill/internal/engine/text"
)

// Search runs a plain-text search and makes its matches the current
// results. It returns the number of matches. An empty pattern clears the
// results.
func (b *Buffer) Search(pattern string, caseSensitive bool) int {
	if pattern == "" {
		b.results = nil
		b.current = 0
		return 0
	}

	q := search.Query{Pattern: pattern, CaseSensitive: caseSensitive}
	b.setResults(search.Plain(b.text, pattern, caseSensitive), q)
	return len(b.results)
}

// AdvancedSearch runs q and makes its matches the current results.
// An invalid regex fails with an error matching ErrRegex and leaves the
// previous results in place. An empty pattern clears the results and the
// last query.
func (b *Buffer) AdvancedSearch(q SearchQuery) (int, error) {
	if q.Pattern == "" {
		b.results = nil
		b.current = 0
		b.lastQuery = nil
		return 0, nil
	}

	results, err := search.Advanced(b.text, q, b.regexTimeout)
	if err != nil {
		return 0, err
	}
	b.setResults(results, q)
	return len(b.results), nil
}

// setResults installs results. The query is remembered only when it
// matched something.
func (b *Buffer) setResults(results []search.Result, q search.Query) {
	b.current = 0
	if len(results) == 0 {
		b.results = nil
		return
	}
	b.results = results
	b.lastQuery = &q
}

// CurrentSearchResult returns the selected match.
func (b *Buffer) CurrentSearchResult() (SearchResult, bool) {
	if len(b.results) == 0 {
		return SearchResult{}, false
	}
	return b.results[b.current], true
}

// NextSearchResult selects and returns the next match, wrapping to the
// first after the last.
func (b *Buffer) NextSearchResult() (SearchResult, bool) {
	if len(b.results) == 0 {
		return SearchResult{}, false
	}
	b.current = (b.current + 1) % len(b.results)
	return b.results[b.current], true
}

// PrevSearchResult selects and returns the previous match, wrapping to the
// last before the first.
func (b *Buffer) PrevSearchResult() (SearchResult, bool) {
	if len(b.results) == 0 {
		return SearchResult{}, false
	}
	b.current = (b.current + len(b.results) - 1) % len(b.results)
	return b.results[b.current], true
}

// SearchResults returns a copy of the current matches.
func (b *Buffer) SearchResults() []SearchResult {
	if len(b.results) == 0 {
		return nil
	}
	out := make([]SearchResult, len(b.results))
	copy(out, b.results)
	return out
}

// CurrentSearchIndex returns the index of the selected match.
func (b *Buffer) CurrentSearchIndex() int {
	return b.current
}

// ClearSearch drops the current matches.
func (b *Buffer) ClearSearch() {
	b.results = nil
	b.current = 0
}

// LastQuery returns the most recent query that produced matches.
func (b *Buffer) LastQuery() (SearchQuery, bool) {
	if b.lastQuery == nil {
		return SearchQuery{}, false
	}
	return *b.lastQuery, true
}

// LastReplacement returns the most recent replacement text.
func (b *Buffer) LastReplacement() (string, bool) {
	if b.lastReplacement == nil {
		return "", false
	}
	return *b.lastReplacement, true
}

func (b *Buffer) rememberReplacement(s string) {
	b.lastReplacement = &s
}

// replaceMatch stages the replacement of r with s.
// replaceRegexResults expands replacement for each current result and
// replaces them from last to first.
func (b *Buffer) replaceRegexResults(q SearchQuery, replacement string) (int, error) {
	tx := b.begin()
	for i := len(b.results) - 1; i >= 0; i-- {
		r := b.results[i]
		line, _ := b.text.Line(r.StartLine)
		s, err := search.ExpandAt(line, r, q, replacement, b.regexTimeout)
		if err != nil {
			return 0, err
		}
		if err := b.replaceMatch(tx, r, text.NormalizeLineEndings(s)); err != nil {
			return 0, err
		}
	}
	b.commit("replace regex", tx)
	b.rememberReplacement(replacement)

	count := len(b.results)
	b.ClearSearch()
	return count, nil
}

func (b *Buffer) replaceMatch(tx *editTx, r search.Result, s string) error {
	old, err := tx.store.SliceRange(r.Range())
	if err != nil {
		return err
	}
	return tx.apply(history.Replace(r.StartLine, r.StartCol, old, s))
}

// ReplaceCurrent replaces the selected match with replacement as one undo
// step and drops it from the results. Later matches on the same line are
// shifted by the change in length; matches on other lines, or earlier on
// the same line, are left as they are. It reports whether a replacement
// happened.
func (b *Buffer) ReplaceCurrent(replacement string) (bool, error) {
	cur, ok := b.CurrentSearchResult()
	if !ok {
		return false, nil
	}
	if err := b.writable(); err != nil {
		return false, err
	}

	replacement = text.NormalizeLineEndings(replacement)
	tx := b.begin()
	if err := b.replaceMatch(tx, cur, replacement); err != nil {
		return false, err
	}
	b.commit("replace", tx)
	b.rememberReplacement(replacement)

	b.results = append(b.results[:b.current], b.results[b.current+1:]...)
	if len(b.results) == 0 {
		b.results = nil
		b.current = 0
		return true, nil
	}

	delta := utf8.RuneCountInString(replacement) - cur.Len()
	if delta != 0 {
		for i := b.current; i < len(b.results); i++ {
			r := b.results[i]
			if r.StartLine == cur.StartLine && r.StartCol > cur.StartCol {
				b.results[i] = r.Shift(delta)
			}
		}
	}

	if b.current >= len(b.results) {
		b.current = 0
	}
	return true, nil
}

// ReplaceAll replaces every current match with replacement as a single
// undo step and clears the results. Matches are replaced from last to
// first so earlier positions stay valid. It returns the number replaced.
func (b *Buffer) ReplaceAll(replacement string) (int, error) {
	if len(b.results) == 0 {
		return 0, nil
	}
	if err := b.writable(); err != nil {
		return 0, err
	}

	replacement = text.NormalizeLineEndings(replacement)
	tx := b.begin()
	for i := len(b.results) - 1; i >= 0; i-- {
		if err := b.replaceMatch(tx, b.results[i], replacement); err != nil {
			return 0, err
		}
	}
	b.commit("replace all", tx)
	b.rememberReplacement(replacement)

	count := len(b.results)
	b.ClearSearch()
	return count, nil
}

// ReplaceRegex substitutes every match of the last regex query in the
// whole buffer. The replacement may refer to groups as $1 or ${name}.
// When the last query was not a regex this is ReplaceAll. With no query
// or no current results it does nothing. The buffer is rewritten as a
// whole, so the undo step restores the entire previous text. It returns
// the number of results the substitution covered.
//
// When the last query was restricted to a selection only the current
// results are replaced, each as its own edit within one undo step.
func (b *Buffer) ReplaceRegex(replacement string) (int, error) {
	q, ok := b.LastQuery()
	if !ok {
		return 0, nil
	}
	if !q.UseRegex {
		return b.ReplaceAll(replacement)
	}
	if len(b.results) == 0 {
		return 0, nil
	}
	if err := b.writable(); err != nil {
		return 0, err
	}
	if q.InSelection {
		return b.replaceRegexResults(q, replacement)
	}

	current := b.text.String()
	updated, err := search.ReplaceRegex(current, q, replacement, b.regexTimeout)
	if err != nil {
		return 0, err
	}
	updated = text.NormalizeLineEndings(updated)
	if updated == current {
		return 0, nil
	}

	tx := b.begin()
	if err := tx.apply(history.Delete(0, 0, current)); err != nil {
		return 0, err
	}
	if err := tx.apply(history.Insert(0, 0, updated)); err != nil {
		return 0, err
	}
	b.commit("replace regex", tx)
	b.rememberReplacement(replacement)

	count := len(b.results)
	b.ClearSearch()
	return count, nil
}
