package text

import "strings"

// LineEnding specifies the line ending style of a file on disk.
// Text inside a Store always uses "\n".
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding parses "lf", "crlf" or "cr" (case-insensitive).
func ParseLineEnding(s string) (LineEnding, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lf", "unix", "":
		return LineEndingLF, true
	case "crlf", "windows", "dos":
		return LineEndingCRLF, true
	case "cr", "mac":
		return LineEndingCR, true
	}
	return LineEndingLF, false
}

// DetectLineEnding reports the first line ending found in s.
// Text without any line break is reported as LF.
func DetectLineEnding(s string) LineEnding {
	i := strings.IndexAny(s, "\r\n")
	if i < 0 || s[i] == '\n' {
		return LineEndingLF
	}
	if i+1 < len(s) && s[i+1] == '\n' {
		return LineEndingCRLF
	}
	return LineEndingCR
}

// NormalizeLineEndings converts CRLF and CR line endings to LF.
func NormalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Apply converts LF line endings in s to le.
func (le LineEnding) Apply(s string) string {
	if le == LineEndingLF {
		return s
	}
	return strings.ReplaceAll(s, "\n", le.Sequence())
}
