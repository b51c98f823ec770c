package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/app"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/engine"
)

// errNoMatch makes the process exit with status 1 without printing an
// error, the way grep does.
var errNoMatch = errors.New("no matches")

// options holds the global flags and everything built from them.
type options struct {
	configPath string
	logLevel   string
	sets       []string

	cfg   *config.Config
	log   *app.Logger
	shell *app.Shell

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	o := &options{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "quill",
		Short: "Search, replace and highlight text files",
		Long: `quill runs the quill editing core from the command line.

Files are opened into buffers, edited through the same undo history the
editor uses, and written back with their original line endings.

Configuration is read from --config, or else from .quill.toml / .quill.yaml
in the working directory or quill/config.toml in the user config directory.
QUILL_* environment variables and --set override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringArrayVar(&o.sets, "set", nil, "override a setting, e.g. --set search.use_regex=true (repeatable)")

	root.AddCommand(
		newSearchCmd(o),
		newReplaceCmd(o),
		newHighlightCmd(o),
		newInfoCmd(o),
		newConfigCmd(o),
	)
	return root
}

// setup loads the configuration and builds the logger and shell.
func (o *options) setup() error {
	path := o.configPath
	if path == "" {
		path = config.Find()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	for _, kv := range o.sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--set %q: want key=value", kv)
		}
		if err := cfg.Set(strings.TrimSpace(key), value); err != nil {
			return err
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = strings.ToLower(o.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	o.log = app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Log.Level),
		Output: o.errOut,
		Prefix: "quill",
	})
	o.shell = app.New(cfg, app.WithLogger(o.log))
	if path != "" {
		o.log.Debug("config loaded from %s", path)
	}
	return nil
}

// searchFlags are shared by search and replace. Unset flags fall back to
// the configured defaults.
type searchFlags struct {
	caseSensitive bool
	wholeWord     bool
	regex         bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.caseSensitive, "case-sensitive", "s", false, "match case exactly")
	cmd.Flags().BoolVarP(&f.wholeWord, "word", "w", false, "match whole words only")
	cmd.Flags().BoolVarP(&f.regex, "regex", "E", false, "treat the pattern as a regular expression")
}

func (f *searchFlags) query(cmd *cobra.Command, cfg *config.Config, pattern string) engine.SearchQuery {
	q := cfg.Query(pattern)
	if cmd.Flags().Changed("case-sensitive") {
		q.CaseSensitive = f.caseSensitive
	}
	if cmd.Flags().Changed("word") {
		q.WholeWord = f.wholeWord
	}
	if cmd.Flags().Changed("regex") {
		q.UseRegex = f.regex
	}
	return q
}
