package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// DefaultThemeName is the chroma style used when none is configured.
const DefaultThemeName = "monokai"

// Attr is the rendering of a single Style.
type Attr struct {
	Fg     tcell.Color
	Bg     tcell.Color
	Bold   bool
	Italic bool
}

// Tcell converts the attribute to a tcell style.
func (a Attr) Tcell() tcell.Style {
	s := tcell.StyleDefault.Foreground(a.Fg).Background(a.Bg)
	if a.Bold {
		s = s.Bold(true)
	}
	if a.Italic {
		s = s.Italic(true)
	}
	return s
}

// Theme maps every Style to colors.
type Theme struct {
	// Name is the chroma style name the theme was built from.
	Name string

	Background    tcell.Color
	Foreground    tcell.Color
	LineHighlight tcell.Color

	attrs [styleCount]Attr
}

// Attr returns the attribute for s. Unknown styles render as normal text.
func (t *Theme) Attr(s Style) Attr {
	if s >= styleCount {
		return t.attrs[StyleNormal]
	}
	return t.attrs[s]
}

// Style returns the tcell style for s.
func (t *Theme) Style(s Style) tcell.Style {
	return t.Attr(s).Tcell()
}

// tokenFor is the chroma token whose style entry colors each Style.
var tokenFor = [styleCount]chroma.TokenType{
	StyleNormal:           chroma.Background,
	StyleKeyword:          chroma.Keyword,
	StyleString:           chroma.LiteralString,
	StyleNumber:           chroma.LiteralNumber,
	StyleComment:          chroma.Comment,
	StyleFunction:         chroma.NameFunction,
	StyleType:             chroma.KeywordType,
	StyleOperator:         chroma.Operator,
	StylePreprocessor:     chroma.CommentPreproc,
	StyleSpecial:          chroma.LiteralStringEscape,
	StyleError:            chroma.Error,
	StyleSearch:           chroma.LineHighlight,
	StyleCurrentLine:      chroma.LineHighlight,
	StyleIdentifier:       chroma.Name,
	StyleFunctionCall:     chroma.NameBuiltin,
	StyleVariable:         chroma.NameVariable,
	StyleConstant:         chroma.NameConstant,
	StyleProperty:         chroma.NameAttribute,
	StyleField:            chroma.NameProperty,
	StyleMethod:           chroma.NameFunction,
	StyleMethodCall:       chroma.NameFunction,
	StyleParameter:        chroma.NameVariable,
	StyleText:             chroma.Text,
	StyleLineNumber:       chroma.LineNumbers,
	StyleLineNumberActive: chroma.LineNumbers,
}

// DefaultTheme returns the theme built from DefaultThemeName.
func DefaultTheme() *Theme {
	return ThemeFromChroma(DefaultThemeName)
}

// ThemeFromChroma builds a theme from a registered chroma style.
// Unknown names fall back to chroma's fallback style.
func ThemeFromChroma(name string) *Theme {
	cs := styles.Get(name)
	bg := cs.Get(chroma.Background)

	t := &Theme{
		Name:          cs.Name,
		Background:    colorOf(bg.Background),
		Foreground:    colorOf(bg.Colour),
		LineHighlight: colorOf(cs.Get(chroma.LineHighlight).Background),
	}
	for i, tt := range tokenFor {
		e := cs.Get(tt)
		a := Attr{
			Fg:     colorOf(e.Colour),
			Bg:     tcell.ColorDefault,
			Bold:   e.Bold == chroma.Yes,
			Italic: e.Italic == chroma.Yes,
		}
		if a.Fg == tcell.ColorDefault {
			a.Fg = t.Foreground
		}
		t.attrs[i] = a
	}

	// Search hits and the active line number stand out from their base rows.
	t.attrs[StyleSearch].Bg = t.LineHighlight
	t.attrs[StyleSearch].Bold = true
	t.attrs[StyleCurrentLine].Bg = t.LineHighlight
	t.attrs[StyleLineNumberActive].Bold = true
	return t
}

func colorOf(c chroma.Colour) tcell.Color {
	if !c.IsSet() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}

// Hex returns c as "#rrggbb". It reports false for the terminal's default
// color and for palette colors without a fixed RGB value.
func Hex(c tcell.Color) (string, bool) {
	if c == tcell.ColorDefault || !c.Valid() || c.Hex() < 0 {
		return "", false
	}
	return fmt.Sprintf("#%06x", c.Hex()), true
}
