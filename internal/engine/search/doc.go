// Package search finds matches of a query in line-oriented text.
//
// Matches never span lines. Columns are measured in runes, so a Result can
// be handed straight to the text store. Plain searches fold case rune by
// rune; regex searches use github.com/dlclark/regexp2, whose match indexes
// are already rune based.
package search
