// Package highlight turns buffer text into styled spans.
//
// A Highlighter tokenizes text with chroma and reports one Span per styled
// token fragment, addressed by line and rune column. Results are memoized in
// a SpanCache owned by the highlighter; there is no package-level state.
//
// A Theme maps each Style to a tcell style for painting.
package highlight
