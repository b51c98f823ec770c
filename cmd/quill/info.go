package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/highlight"
)

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Show how quill sees each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tLINES\tCHARS\tTYPE\tENDING\tLEXER")
			for _, path := range args {
				b, err := o.open(path)
				if err != nil {
					return err
				}
				ft := b.FileType()
				if ft == "" {
					ft = "-"
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n",
					path, b.LineCount(), b.Len(), ft, b.LineEnding(),
					highlight.LexerName(b.Text(), b.FileType(), b.FilePath()))
			}
			return tw.Flush()
		},
	}
}
