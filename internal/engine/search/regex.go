package search

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultTimeout bounds a single regex match attempt.
const DefaultTimeout = 2 * time.Second

// Compile builds the regex for q: `\b(?:pattern)\b` when WholeWord is set,
// prefixed with `(?i)` when the query is case-insensitive. Patterns are
// compiled in multiline mode so ^ and $ match at line boundaries whether a
// single line or the whole text is searched.
// A non-positive timeout selects DefaultTimeout.
func Compile(q Query, timeout time.Duration) (*regexp2.Regexp, error) {
	pattern := q.Pattern
	if q.WholeWord {
		pattern = `\b(?:` + pattern + `)\b`
	}
	if !q.CaseSensitive {
		pattern = "(?i)" + pattern
	}

	re, err := regexp2.Compile(pattern, regexp2.Multiline)
	if err != nil {
		return nil, &PatternError{Pattern: q.Pattern, Err: err}
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	re.MatchTimeout = timeout
	return re, nil
}

// Advanced runs q against src. Regex queries find every non-overlapping
// match on each line; empty matches are not reported. Other queries run a
// plain search honouring WholeWord. When InSelection is set only matches
// inside the selection are returned.
func Advanced(src Lines, q Query, timeout time.Duration) ([]Result, error) {
	if q.Pattern == "" {
		return nil, nil
	}

	var results []Result
	if q.UseRegex {
		re, err := Compile(q, timeout)
		if err != nil {
			return nil, err
		}
		if results, err = regexSearch(src, re, q.Pattern); err != nil {
			return nil, err
		}
	} else {
		results = plainSearch(src, q)
	}

	if q.InSelection {
		results = within(results, q)
	}
	return results, nil
}

func regexSearch(src Lines, re *regexp2.Regexp, pattern string) ([]Result, error) {
	var (
		results []Result
		err     error
	)
	src.EachLine(func(line int, s string) bool {
		var m *regexp2.Match
		m, err = re.FindStringMatch(s)
		for err == nil && m != nil {
			if m.Length > 0 {
				results = append(results, Result{
					StartLine: line,
					StartCol:  m.Index,
					EndLine:   line,
					EndCol:    m.Index + m.Length,
				})
			}
			m, err = re.FindNextMatch(m)
		}
		return err == nil
	})
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return results, nil
}

func within(results []Result, q Query) []Result {
	sel := q.Selection
	if !sel.IsValid() {
		sel.Start, sel.End = sel.End, sel.Start
	}

	kept := results[:0]
	for _, r := range results {
		if sel.ContainsRange(r.Range()) {
			kept = append(kept, r)
		}
	}
	return kept
}

// ReplaceRegex substitutes every match of q in input. The replacement may
// refer to groups as $1 or ${name}. q must be a regex query.
func ReplaceRegex(input string, q Query, replacement string, timeout time.Duration) (string, error) {
	re, err := Compile(q, timeout)
	if err != nil {
		return "", err
	}
	out, err := re.Replace(input, replacement, -1, -1)
	if err != nil {
		return "", &PatternError{Pattern: q.Pattern, Err: err}
	}
	return out, nil
}

// ExpandAt returns the text that replaces the match r on line when
// replacement is applied with q. r must be a match of q on that line.
func ExpandAt(line string, r Result, q Query, replacement string, timeout time.Duration) (string, error) {
	re, err := Compile(q, timeout)
	if err != nil {
		return "", err
	}

	runes := []rune(line)
	if r.StartCol < 0 || r.EndCol > len(runes) || r.StartCol > r.EndCol {
		return "", fmt.Errorf("match %s outside line of length %d", r.Range(), len(runes))
	}
	at := len(string(runes[:r.StartCol]))

	m, err := re.FindStringMatchStartingAt(line, at)
	if err != nil {
		return "", &PatternError{Pattern: q.Pattern, Err: err}
	}
	if m == nil || m.Index != r.StartCol || m.Length != r.Len() {
		return "", fmt.Errorf("no match of %q at %s", q.Pattern, r.Start())
	}

	out, err := re.Replace(line, replacement, at, 1)
	if err != nil {
		return "", &PatternError{Pattern: q.Pattern, Err: err}
	}
	replaced := []rune(out)
	return string(replaced[r.StartCol : len(replaced)-(len(runes)-r.EndCol)]), nil
}
