package highlight

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Highlighter tokenizes text with chroma lexers.
type Highlighter struct {
	cache *SpanCache
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithCache makes the highlighter use c. Highlighters sharing a cache share
// results.
func WithCache(c *SpanCache) Option {
	return func(h *Highlighter) {
		if c != nil {
			h.cache = c
		}
	}
}

// NewHighlighter creates a highlighter with its own cache unless one is
// supplied.
func NewHighlighter(opts ...Option) *Highlighter {
	h := &Highlighter{}
	for _, opt := range opts {
		opt(h)
	}
	if h.cache == nil {
		h.cache = NewSpanCache(DefaultCacheExpiration, DefaultCleanupInterval)
	}
	return h
}

// Cache returns the highlighter's span cache.
func (h *Highlighter) Cache() *SpanCache {
	return h.cache
}

// Highlight returns the styled spans of src in document order. The lexer is
// chosen from the file name, then the file type, then by analysing the
// text. Plain text and whitespace produce no spans.
func (h *Highlighter) Highlight(src, fileType, filePath string) ([]Span, error) {
	lexer := chroma.Coalesce(selectLexer(src, fileType, filePath))
	name := lexer.Config().Name

	if spans, ok := h.cache.Get(name, src); ok {
		return spans, nil
	}

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", name, err)
	}

	spans := spansFromTokens(it.Tokens())
	h.cache.Set(name, src, spans)
	return spans, nil
}

// LexerName returns the name of the lexer Highlight would use.
func LexerName(src, fileType, filePath string) string {
	return selectLexer(src, fileType, filePath).Config().Name
}

func selectLexer(src, fileType, filePath string) chroma.Lexer {
	if filePath != "" {
		if l := lexers.Match(filePath); l != nil {
			return l
		}
	}
	if fileType != "" {
		if l := lexers.Get(fileType); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(src); l != nil {
		return l
	}
	return lexers.Fallback
}

// spansFromTokens splits tokens at newlines and converts byte lengths to
// rune columns.
func spansFromTokens(tokens []chroma.Token) []Span {
	var (
		spans []Span
		line  int
		col   int
	)
	for _, tok := range tokens {
		style := StyleFor(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				line++
				col = 0
			}
			n := utf8.RuneCountInString(part)
			if n > 0 && style != StyleNormal {
				spans = append(spans, Span{Line: line, StartCol: col, EndCol: col + n, Style: style})
			}
			col += n
		}
	}
	return spans
}

// StyleFor maps a chroma token type to a Style.
func StyleFor(t chroma.TokenType) Style {
	switch {
	case t == chroma.KeywordType, t == chroma.NameClass, t == chroma.NameBuiltinPseudo:
		return StyleType
	case t == chroma.KeywordConstant, t == chroma.NameConstant:
		return StyleConstant
	case t.InSubCategory(chroma.CommentPreproc), t == chroma.NameDecorator:
		return StylePreprocessor
	case t == chroma.NameFunction, t == chroma.NameFunctionMagic:
		return StyleFunction
	case t == chroma.NameBuiltin:
		return StyleFunctionCall
	case t == chroma.NameAttribute, t == chroma.NameProperty:
		return StyleProperty
	case t == chroma.NameTag, t == chroma.NameNamespace:
		return StyleKeyword
	case t == chroma.NameException, t == chroma.Error, t == chroma.GenericError:
		return StyleError
	case t >= chroma.NameVariable && t <= chroma.NameVariableMagic:
		return StyleVariable
	case t == chroma.LiteralStringEscape, t == chroma.LiteralStringRegex, t == chroma.NameEntity:
		return StyleSpecial
	case t.InCategory(chroma.Keyword):
		return StyleKeyword
	case t.InSubCategory(chroma.LiteralString):
		return StyleString
	case t.InSubCategory(chroma.LiteralNumber):
		return StyleNumber
	case t.InCategory(chroma.Comment):
		return StyleComment
	case t.InCategory(chroma.Operator):
		return StyleOperator
	case t == chroma.Name, t == chroma.NameOther:
		return StyleIdentifier
	}
	return StyleNormal
}
