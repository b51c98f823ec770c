package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/engine"
)

func newReplaceCmd(o *options) *cobra.Command {
	var (
		f      searchFlags
		first  bool
		dryRun bool
		lines  string
	)

	cmd := &cobra.Command{
		Use:   "replace PATTERN REPLACEMENT FILE...",
		Short: "Replace matches and save the files",
		Long: `Replace every match of PATTERN with REPLACEMENT in each FILE and save it.

With --regex the replacement may refer to capture groups as $1 or ${name}.
With --dry-run the edit is applied in memory, printed as a diff and then
undone, so nothing is written.

Examples:
  quill replace foo bar notes.txt
  quill replace -E '(\w+)@(\w+)' '$2 at $1' contacts.txt
  quill replace --first --dry-run TODO DONE main.go`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := f.query(cmd, o.cfg, args[0])
			replacement := args[1]
			if lines != "" {
				sel, err := parseLineRange(lines)
				if err != nil {
					return err
				}
				q.InSelection = true
				q.Selection = sel
			}

			total := 0
			for _, path := range args[2:] {
				b, err := o.open(path)
				if err != nil {
					return err
				}
				if _, err := b.AdvancedSearch(q); err != nil {
					return err
				}

				before := b.Text()
				n, err := replace(b, replacement, first)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if n == 0 {
					continue
				}
				total += n

				if dryRun {
					writeDiff(o.out, path, before, b.Text())
					if _, err := o.shell.Undo(b.ID()); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					continue
				}

				if err := o.shell.Save(b.ID()); err != nil {
					return err
				}
				fmt.Fprintf(o.out, "%s: %d replaced\n", path, n)
			}

			if total == 0 {
				return errNoMatch
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&first, "first", false, "replace only the first match in each file")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print a diff instead of writing")
	cmd.Flags().StringVar(&lines, "lines", "", "only replace matches inside lines N-M (1-based, inclusive)")
	return cmd
}

// replace applies the replacement to the buffer's current results as one
// undo step and returns how many matches it covered.
func replace(b *engine.Buffer, replacement string, first bool) (int, error) {
	if first {
		ok, err := b.ReplaceCurrent(replacement)
		if err != nil || !ok {
			return 0, err
		}
		return 1, nil
	}
	if q, ok := b.LastQuery(); ok && q.UseRegex {
		return b.ReplaceRegex(replacement)
	}
	return b.ReplaceAll(replacement)
}

// writeDiff prints the changed lines between before and after, each group
// of changes under an @@ header with its 1-based line numbers.
func writeDiff(w io.Writer, name, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	fmt.Fprintf(w, "--- %s\n+++ %s\n", name, name)

	oldLine, newLine := 1, 1
	inHunk := false
	for _, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldLine += len(lines)
			newLine += len(lines)
			inHunk = false
			continue
		}

		if !inHunk {
			fmt.Fprintf(w, "@@ -%d +%d @@\n", oldLine, newLine)
			inHunk = true
		}
		prefix := "-"
		if d.Type == diffmatchpatch.DiffInsert {
			prefix = "+"
			newLine += len(lines)
		} else {
			oldLine += len(lines)
		}
		for _, l := range lines {
			fmt.Fprintf(w, "%s%s\n", prefix, l)
		}
	}
}

// splitLines splits s into lines without their newlines. A trailing
// newline does not start another line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
