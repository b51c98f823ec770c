package highlight

import "fmt"

// Style classifies a highlighted span.
type Style uint8

const (
	StyleNormal Style = iota
	StyleKeyword
	StyleString
	StyleNumber
	StyleComment
	StyleFunction
	StyleType
	StyleOperator
	StylePreprocessor
	StyleSpecial
	StyleError
	StyleSearch
	StyleCurrentLine
	StyleIdentifier
	StyleFunctionCall
	StyleVariable
	StyleConstant
	StyleProperty
	StyleField
	StyleMethod
	StyleMethodCall
	StyleParameter
	StyleText
	StyleLineNumber
	StyleLineNumberActive

	styleCount
)

var styleNames = [styleCount]string{
	StyleNormal:           "normal",
	StyleKeyword:          "keyword",
	StyleString:           "string",
	StyleNumber:           "number",
	StyleComment:          "comment",
	StyleFunction:         "function",
	StyleType:             "type",
	StyleOperator:         "operator",
	StylePreprocessor:     "preprocessor",
	StyleSpecial:          "special",
	StyleError:            "error",
	StyleSearch:           "search",
	StyleCurrentLine:      "current_line",
	StyleIdentifier:       "identifier",
	StyleFunctionCall:     "function_call",
	StyleVariable:         "variable",
	StyleConstant:         "constant",
	StyleProperty:         "property",
	StyleField:            "field",
	StyleMethod:           "method",
	StyleMethodCall:       "method_call",
	StyleParameter:        "parameter",
	StyleText:             "text",
	StyleLineNumber:       "line_number",
	StyleLineNumberActive: "line_number_active",
}

// String returns the snake_case name of the style.
func (s Style) String() string {
	if s < styleCount {
		return styleNames[s]
	}
	return fmt.Sprintf("style(%d)", uint8(s))
}

// ParseStyle returns the style with the given name.
func ParseStyle(name string) (Style, bool) {
	for i, n := range styleNames {
		if n == name {
			return Style(i), true
		}
	}
	return StyleNormal, false
}

// Span is a styled run of characters on a single line. EndCol is exclusive.
type Span struct {
	Line     int
	StartCol int
	EndCol   int
	Style    Style
}

// Len returns the number of characters covered.
func (s Span) Len() int {
	return s.EndCol - s.StartCol
}
