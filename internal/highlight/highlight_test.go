package highlight

import (
	"testing"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSrc = "package main\n\nfunc main() {\n\t// hi\n\tx := \"s\"\n}\n"

func TestStyleFor(t *testing.T) {
	tests := []struct {
		tok  chroma.TokenType
		want Style
	}{
		{chroma.Keyword, StyleKeyword},
		{chroma.KeywordNamespace, StyleKeyword},
		{chroma.KeywordType, StyleType},
		{chroma.KeywordConstant, StyleConstant},
		{chroma.LiteralString, StyleString},
		{chroma.LiteralStringDouble, StyleString},
		{chroma.LiteralStringEscape, StyleSpecial},
		{chroma.LiteralNumberInteger, StyleNumber},
		{chroma.CommentSingle, StyleComment},
		{chroma.CommentPreproc, StylePreprocessor},
		{chroma.NameFunction, StyleFunction},
		{chroma.NameBuiltin, StyleFunctionCall},
		{chroma.NameVariable, StyleVariable},
		{chroma.NameVariableInstance, StyleVariable},
		{chroma.NameOther, StyleIdentifier},
		{chroma.NameClass, StyleType},
		{chroma.Operator, StyleOperator},
		{chroma.Error, StyleError},
		{chroma.Punctuation, StyleNormal},
		{chroma.Text, StyleNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StyleFor(tt.tok), "token %s", tt.tok)
	}
}

func TestParseStyle(t *testing.T) {
	for s := StyleNormal; s < styleCount; s++ {
		got, ok := ParseStyle(s.String())
		require.True(t, ok, s.String())
		assert.Equal(t, s, got)
	}

	_, ok := ParseStyle("bogus")
	assert.False(t, ok)
	assert.Equal(t, "style(200)", Style(200).String())
}

func TestHighlightGo(t *testing.T) {
	h := NewHighlighter()
	spans, err := h.Highlight(goSrc, "", "main.go")
	require.NoError(t, err)

	want := []Span{
		{Line: 0, StartCol: 0, EndCol: 7, Style: StyleKeyword},
		{Line: 0, StartCol: 8, EndCol: 12, Style: StyleIdentifier},
		{Line: 2, StartCol: 0, EndCol: 4, Style: StyleKeyword},
		{Line: 2, StartCol: 5, EndCol: 9, Style: StyleFunction},
		{Line: 3, StartCol: 1, EndCol: 6, Style: StyleComment},
		{Line: 4, StartCol: 1, EndCol: 2, Style: StyleIdentifier},
		{Line: 4, StartCol: 3, EndCol: 5, Style: StyleOperator},
		{Line: 4, StartCol: 6, EndCol: 9, Style: StyleString},
	}
	assert.Equal(t, want, spans)
}

func TestHighlightRuneColumns(t *testing.T) {
	h := NewHighlighter()
	spans, err := h.Highlight("s := \"héllo\" // ü\n", "go", "")
	require.NoError(t, err)

	var str, comment *Span
	for i := range spans {
		switch spans[i].Style {
		case StyleString:
			str = &spans[i]
		case StyleComment:
			comment = &spans[i]
		}
	}
	require.NotNil(t, str)
	require.NotNil(t, comment)
	assert.Equal(t, 5, str.StartCol)
	assert.Equal(t, 12, str.EndCol)
	assert.Equal(t, 13, comment.StartCol)
	assert.Equal(t, 17, comment.EndCol)
}

func TestHighlightUsesCache(t *testing.T) {
	cache := NewSpanCache(time.Minute, time.Minute)
	h := NewHighlighter(WithCache(cache))
	assert.Same(t, cache, h.Cache())

	first, err := h.Highlight(goSrc, "go", "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	other := NewHighlighter(WithCache(cache))
	second, err := other.Highlight(goSrc, "go", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())

	_, err = h.Highlight(goSrc+"// more\n", "go", "")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	cache.Flush()
	assert.Zero(t, cache.Len())
}

func TestSpanCacheKeysByLexer(t *testing.T) {
	c := NewSpanCache(0, 0)
	c.Set("Go", "x", []Span{{Style: StyleKeyword, EndCol: 1}})

	_, ok := c.Get("Python", "x")
	assert.False(t, ok)

	spans, ok := c.Get("Go", "x")
	require.True(t, ok)
	assert.Len(t, spans, 1)
}

func TestLexerName(t *testing.T) {
	assert.Equal(t, "Go", LexerName("", "", "/tmp/main.go"))
	assert.Equal(t, "Go", LexerName("", "go", ""))
	assert.Equal(t, "Go", LexerName("", "go", "notes"))
}

func TestThemeFromChroma(t *testing.T) {
	th := ThemeFromChroma("monokai")
	assert.Equal(t, "monokai", th.Name)
	assert.Equal(t, tcell.NewRGBColor(0x66, 0xd9, 0xef), th.Attr(StyleKeyword).Fg)
	assert.Equal(t, tcell.NewRGBColor(0xa6, 0xe2, 0x2e), th.Attr(StyleFunction).Fg)
	assert.Equal(t, tcell.NewRGBColor(0x27, 0x28, 0x22), th.Background)
	assert.True(t, th.Attr(StyleSearch).Bold)
	assert.True(t, th.Attr(StyleLineNumberActive).Bold)

	fg, _, _ := th.Style(StyleKeyword).Decompose()
	assert.Equal(t, th.Attr(StyleKeyword).Fg, fg)

	assert.Equal(t, th.Attr(StyleNormal), th.Attr(Style(250)))
}

func TestThemeUnknownNameFallsBack(t *testing.T) {
	th := ThemeFromChroma("no-such-theme")
	assert.Equal(t, styles.Fallback.Name, th.Name)
	assert.NotNil(t, DefaultTheme())
}

func TestHex(t *testing.T) {
	hex, ok := Hex(tcell.NewRGBColor(0x66, 0xd9, 0xef))
	require.True(t, ok)
	assert.Equal(t, "#66d9ef", hex)

	_, ok = Hex(tcell.ColorDefault)
	assert.False(t, ok)
}
