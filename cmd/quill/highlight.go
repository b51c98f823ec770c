package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/highlight"
)

func newHighlightCmd(o *options) *cobra.Command {
	var (
		style string
		color string
		spans bool
	)

	cmd := &cobra.Command{
		Use:   "highlight FILE",
		Short: "Print a file with syntax highlighting",
		Long: `Print FILE with syntax highlighting in the configured style.

The language is picked from the file extension, falling back to the
content. --spans prints the raw spans instead of colored text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := colorProfile(color)
			if err != nil {
				return err
			}

			b, err := o.open(args[0])
			if err != nil {
				return err
			}
			ss, err := o.shell.Highlight(b.ID())
			if err != nil {
				return err
			}

			if spans {
				for _, s := range ss {
					fmt.Fprintf(o.out, "%d:%d-%d %s\n", s.Line+1, s.StartCol, s.EndCol, s.Style)
				}
				return nil
			}

			name := o.cfg.Highlight.Style
			if style != "" {
				name = style
			}
			theme := highlight.ThemeFromChroma(name)
			o.log.Debug("highlighting %s with %s", args[0], theme.Name)

			var opts []termenv.OutputOption
			if profile != nil {
				opts = append(opts, termenv.WithProfile(*profile))
			}
			lines := b.Lines()
			if n := len(lines); n > 1 && lines[n-1] == "" {
				lines = lines[:n-1]
			}
			out := termenv.NewOutput(o.out, opts...)
			render(out, theme, lines, ss)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "chroma style name (default from config)")
	cmd.Flags().StringVar(&color, "color", "auto", "when to color output: auto, always or never")
	cmd.Flags().BoolVar(&spans, "spans", false, "print spans as line:start-end style")
	return cmd
}

// colorProfile maps --color to a termenv profile. Nil means detect.
func colorProfile(mode string) (*termenv.Profile, error) {
	var p termenv.Profile
	switch mode {
	case "auto":
		return nil, nil
	case "always":
		p = termenv.TrueColor
	case "never":
		p = termenv.Ascii
	default:
		return nil, fmt.Errorf("--color %q: want auto, always or never", mode)
	}
	return &p, nil
}

// render writes lines with the spans colored by theme. Text outside any
// span is written as is.
func render(out *termenv.Output, theme *highlight.Theme, lines []string, spans []highlight.Span) {
	byLine := make(map[int][]highlight.Span)
	for _, s := range spans {
		byLine[s.Line] = append(byLine[s.Line], s)
	}

	for i, line := range lines {
		runes := []rune(line)
		ls := byLine[i]
		sort.Slice(ls, func(a, b int) bool { return ls[a].StartCol < ls[b].StartCol })

		var sb strings.Builder
		col := 0
		for _, s := range ls {
			start, end := max(s.StartCol, col), min(s.EndCol, len(runes))
			if start >= end {
				continue
			}
			sb.WriteString(string(runes[col:start]))
			sb.WriteString(styled(out, theme.Attr(s.Style), string(runes[start:end])))
			col = end
		}
		sb.WriteString(string(runes[col:]))
		sb.WriteByte('\n')
		_, _ = io.WriteString(out, sb.String())
	}
}

func styled(out *termenv.Output, a highlight.Attr, s string) string {
	if out.Profile == termenv.Ascii {
		return s
	}
	st := out.String(s)
	if hex, ok := highlight.Hex(a.Fg); ok {
		st = st.Foreground(out.Color(hex))
	}
	if a.Bold {
		st = st.Bold()
	}
	if a.Italic {
		st = st.Italic()
	}
	return st.String()
}
