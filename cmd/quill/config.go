package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/config"
)

func newConfigCmd(o *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
QUILL_* environment variables and --set overrides.

--keys lists every setting name accepted by --set and QUILL_ variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keys, _ := cmd.Flags().GetBool("keys"); keys {
				for _, p := range config.Paths() {
					fmt.Fprintln(o.out, p)
				}
				return nil
			}

			data, err := o.cfg.Encode(config.Format(format))
			if err != nil {
				return err
			}
			_, err = o.out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatTOML), "output format: toml or yaml")
	cmd.Flags().Bool("keys", false, "list setting names instead")
	return cmd
}
