package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Plain returns every non-overlapping occurrence of pattern, scanning each
// line left to right. An empty pattern matches nothing.
func Plain(src Lines, pattern string, caseSensitive bool) []Result {
	return plainSearch(src, Query{Pattern: pattern, CaseSensitive: caseSensitive})
}

func plainSearch(src Lines, q Query) []Result {
	if q.Pattern == "" {
		return nil
	}

	needle := q.Pattern
	if !q.CaseSensitive {
		needle = fold(needle)
	}
	width := utf8.RuneCountInString(needle)

	var results []Result
	src.EachLine(func(line int, s string) bool {
		hay := s
		if !q.CaseSensitive {
			hay = fold(hay)
		}

		pos, col := 0, 0
		for pos <= len(hay)-len(needle) {
			i := strings.Index(hay[pos:], needle)
			if i < 0 {
				break
			}
			col += utf8.RuneCountInString(hay[pos : pos+i])
			start := pos + i
			end := start + len(needle)

			if q.WholeWord && !isWordBoundary(hay, start, end) {
				// Retry one character further on.
				_, size := utf8.DecodeRuneInString(hay[start:])
				pos = start + size
				col++
				continue
			}

			results = append(results, Result{
				StartLine: line,
				StartCol:  col,
				EndLine:   line,
				EndCol:    col + width,
			})
			pos = end
			col += width
		}
		return true
	})
	return results
}

// fold lower-cases s one rune at a time so rune positions are preserved.
func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// isWordBoundary reports whether s[start:end] is neither preceded nor
// followed by a letter or digit.
func isWordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
