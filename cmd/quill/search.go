package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/text"
)

func newSearchCmd(o *options) *cobra.Command {
	var (
		f     searchFlags
		count bool
		lines string
	)

	cmd := &cobra.Command{
		Use:   "search PATTERN FILE...",
		Short: "Print every match with its position",
		Long: `Print every non-overlapping match of PATTERN in each FILE.

Each match is shown as file:line:column followed by the line and a caret
marker under the matched text. Exits with status 1 when nothing matched.

Examples:
  quill search TODO main.go
  quill search -E -w 'err\w*' *.go
  quill search --lines 10-20 -s Foo api.go`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := f.query(cmd, o.cfg, args[0])
			if lines != "" {
				sel, err := parseLineRange(lines)
				if err != nil {
					return err
				}
				q.InSelection = true
				q.Selection = sel
			}

			total := 0
			for _, path := range args[1:] {
				b, err := o.open(path)
				if err != nil {
					return err
				}
				n, err := b.AdvancedSearch(q)
				if err != nil {
					return err
				}
				total += n

				if count {
					fmt.Fprintf(o.out, "%s:%d\n", path, n)
					continue
				}
				for _, r := range b.SearchResults() {
					line, _ := b.Line(r.StartLine)
					printMatch(o.out, path, line, r)
				}
			}

			o.log.Debug("%d matches for %q", total, q.Pattern)
			if total == 0 {
				return errNoMatch
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of matches per file")
	cmd.Flags().StringVar(&lines, "lines", "", "only report matches inside lines N-M (1-based, inclusive)")
	return cmd
}

// open opens a file that must already exist.
func (o *options) open(path string) (*engine.Buffer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return o.shell.Open(path)
}

// parseLineRange parses "N-M" or "N" into a selection covering those
// whole lines.
func parseLineRange(s string) (text.Range, error) {
	from, to, found := strings.Cut(s, "-")
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil || start < 1 {
		return text.Range{}, fmt.Errorf("--lines %q: want N or N-M", s)
	}
	end := start
	if found {
		end, err = strconv.Atoi(strings.TrimSpace(to))
		if err != nil || end < start {
			return text.Range{}, fmt.Errorf("--lines %q: want N or N-M", s)
		}
	}
	return text.NewRange(start-1, 0, end, 0), nil
}

// printMatch writes a match header, the line, and a caret marker aligned
// under the match in terminal cells.
func printMatch(w io.Writer, path, line string, r engine.SearchResult) {
	fmt.Fprintf(w, "%s:%d:%d\n", path, r.StartLine+1, r.StartCol+1)
	fmt.Fprintf(w, "  %s\n", line)

	runes := []rune(line)
	var sb strings.Builder
	sb.WriteString("  ")
	for i := 0; i < r.StartCol && i < len(runes); i++ {
		if runes[i] == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(runes[i])))
	}

	width := 0
	if r.EndCol <= len(runes) && r.StartCol < r.EndCol {
		width = runewidth.StringWidth(string(runes[r.StartCol:r.EndCol]))
	}
	sb.WriteString(strings.Repeat("^", max(width, 1)))
	fmt.Fprintln(w, sb.String())
}
