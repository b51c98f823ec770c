package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/quill/internal/engine/text"
)

func lines(s string) Lines {
	return text.FromString(s)
}

func TestPlainNonOverlapping(t *testing.T) {
	got := Plain(lines("aaaa"), "aa", true)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].StartCol)
	assert.Equal(t, 2, got[1].StartCol)
	assert.Equal(t, 4, got[1].EndCol)
}

func TestPlainCaseFolding(t *testing.T) {
	src := lines("Foo foo\nFOO bar")

	assert.Len(t, Plain(src, "foo", true), 1)
	got := Plain(src, "foo", false)
	require.Len(t, got, 3)
	assert.Equal(t, Result{StartLine: 1, StartCol: 0, EndLine: 1, EndCol: 3}, got[2])
}

func TestPlainMultibyteColumns(t *testing.T) {
	got := Plain(lines("héllo wörld wörld"), "wörld", true)
	require.Len(t, got, 2)
	assert.Equal(t, 6, got[0].StartCol)
	assert.Equal(t, 11, got[0].EndCol)
	assert.Equal(t, 12, got[1].StartCol)

	got = Plain(lines("ÄÖÜ äöü"), "äöü", false)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[1].StartCol)
}

func TestPlainEmptyPattern(t *testing.T) {
	assert.Empty(t, Plain(lines("abc"), "", false))
}

func TestWholeWordPlain(t *testing.T) {
	got, err := Advanced(lines("Cat catalog cat"), Query{Pattern: "cat", WholeWord: true}, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].StartCol)
	assert.Equal(t, 12, got[1].StartCol)
}

func TestWholeWordRetriesInsideRejectedMatch(t *testing.T) {
	// "aba" at column 0 is rejected; the scan must still find the word at 4.
	got, err := Advanced(lines("abab aba"), Query{Pattern: "aba", CaseSensitive: true, WholeWord: true}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].StartCol)
}

func TestRegexSearch(t *testing.T) {
	src := lines("x = 10\ny = 200\nz = x")

	got, err := Advanced(src, Query{Pattern: `\d+`, UseRegex: true, CaseSensitive: true}, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Result{StartLine: 0, StartCol: 4, EndLine: 0, EndCol: 6}, got[0])
	assert.Equal(t, Result{StartLine: 1, StartCol: 4, EndLine: 1, EndCol: 7}, got[1])

	got, err = Advanced(src, Query{Pattern: `^[A-Z]`, UseRegex: true}, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3, "case-insensitive anchored match on every line")
}

func TestRegexRuneColumns(t *testing.T) {
	got, err := Advanced(lines("日本語 text"), Query{Pattern: `t\w+`, UseRegex: true, CaseSensitive: true}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].StartCol)
	assert.Equal(t, 8, got[0].EndCol)
}

func TestRegexWholeWordKeepsAlternation(t *testing.T) {
	got, err := Advanced(lines("cat dog catdog"), Query{Pattern: "cat|dog", UseRegex: true, WholeWord: true, CaseSensitive: true}, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRegexSkipsEmptyMatches(t *testing.T) {
	got, err := Advanced(lines("abc"), Query{Pattern: `x*`, UseRegex: true}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInvalidRegex(t *testing.T) {
	_, err := Advanced(lines("abc"), Query{Pattern: `(unclosed`, UseRegex: true}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegex))

	var pe *PatternError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "(unclosed", pe.Pattern)
}

func TestInSelection(t *testing.T) {
	src := lines("foo foo\nfoo foo\nfoo")
	q := Query{
		Pattern:     "foo",
		InSelection: true,
		Selection:   text.NewRange(0, 4, 1, 5),
	}

	got, err := Advanced(src, q, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, text.Point{Line: 0, Col: 4}, got[0].Start())
	assert.Equal(t, text.Point{Line: 1, Col: 0}, got[1].Start())
}

func TestReplaceRegex(t *testing.T) {
	q := Query{Pattern: `(\w+)@(\w+)`, UseRegex: true, CaseSensitive: true}
	out, err := ReplaceRegex("mail bob@home\nand amy@work", q, "$2:$1", 0)
	require.NoError(t, err)
	assert.Equal(t, "mail home:bob\nand work:amy", out)

	q = Query{Pattern: `^`, UseRegex: true}
	out, err = ReplaceRegex("a\nb", q, "> ", 0)
	require.NoError(t, err)
	assert.Equal(t, "> a\n> b", out)

	_, err = ReplaceRegex("abc", Query{Pattern: `[`, UseRegex: true}, "", 0)
	assert.ErrorIs(t, err, ErrRegex)
}

func TestResultHelpers(t *testing.T) {
	r := Result{StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 7}
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, Result{StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 9}, r.Shift(2))
	assert.True(t, r.Range().IsSingleLine())
}

func TestPlainMatchesAreOrderedAndDisjoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		content := rapid.StringMatching(`[abAB \n]{0,60}`).Draw(t, "content")
		pattern := rapid.StringMatching(`[abAB]{1,3}`).Draw(t, "pattern")
		caseSensitive := rapid.Bool().Draw(t, "caseSensitive")

		results := Plain(lines(content), pattern, caseSensitive)
		all := strings.Split(content, "\n")
		want := pattern
		if !caseSensitive {
			want = strings.ToLower(pattern)
		}

		for i, r := range results {
			if r.StartLine != r.EndLine || r.Len() != len(pattern) {
				t.Fatalf("malformed result %+v", r)
			}
			got := all[r.StartLine][r.StartCol:r.EndCol]
			if !caseSensitive {
				got = strings.ToLower(got)
			}
			if got != want {
				t.Fatalf("result %+v covers %q, want %q", r, got, want)
			}
			if i > 0 {
				prev := results[i-1]
				if prev.StartLine == r.StartLine && prev.EndCol > r.StartCol {
					t.Fatalf("overlapping results %+v and %+v", prev, r)
				}
				if prev.StartLine > r.StartLine {
					t.Fatalf("results out of order")
				}
			}
		}
	})
}

func TestExpandAt(t *testing.T) {
	q := Query{Pattern: `(\w)(\d)`, UseRegex: true, CaseSensitive: true}
	line := "é1 b2"

	got, err := ExpandAt(line, Result{StartLine: 0, StartCol: 3, EndLine: 0, EndCol: 5}, q, "$2$1", 0)
	require.NoError(t, err)
	assert.Equal(t, "2b", got)

	got, err = ExpandAt(line, Result{StartLine: 0, StartCol: 0, EndLine: 0, EndCol: 2}, q, "[$0]", 0)
	require.NoError(t, err)
	assert.Equal(t, "[é1]", got)

	_, err = ExpandAt(line, Result{StartLine: 0, StartCol: 1, EndLine: 0, EndCol: 3}, q, "x", 0)
	assert.Error(t, err)

	_, err = ExpandAt(line, Result{StartLine: 0, StartCol: 4, EndLine: 0, EndCol: 9}, q, "x", 0)
	assert.Error(t, err)
}
