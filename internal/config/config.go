package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/text"
	"github.com/dshills/quill/internal/highlight"
)

// Config holds every quill setting.
type Config struct {
	History   HistoryConfig   `toml:"history" yaml:"history"`
	Search    SearchConfig    `toml:"search" yaml:"search"`
	Highlight HighlightConfig `toml:"highlight" yaml:"highlight"`
	Files     FilesConfig     `toml:"files" yaml:"files"`
	Watch     WatchConfig     `toml:"watch" yaml:"watch"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// HistoryConfig controls undo history.
type HistoryConfig struct {
	// MaxEntries caps the undo stack; the oldest entries are dropped.
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// SearchConfig holds the defaults for new search queries.
type SearchConfig struct {
	CaseSensitive bool     `toml:"case_sensitive" yaml:"case_sensitive"`
	WholeWord     bool     `toml:"whole_word" yaml:"whole_word"`
	UseRegex      bool     `toml:"use_regex" yaml:"use_regex"`
	RegexTimeout  Duration `toml:"regex_timeout" yaml:"regex_timeout"`
}

// HighlightConfig controls syntax highlighting.
type HighlightConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Style names a chroma style, e.g. "monokai" or "github".
	Style        string   `toml:"style" yaml:"style"`
	CacheTTL     Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	CacheCleanup Duration `toml:"cache_cleanup" yaml:"cache_cleanup"`
}

// FilesConfig controls how buffers are read and written.
type FilesConfig struct {
	PreserveLineEndings bool `toml:"preserve_line_endings" yaml:"preserve_line_endings"`
	// LineEnding is used for new buffers: "lf", "crlf" or "cr".
	LineEnding string `toml:"line_ending" yaml:"line_ending"`
}

// WatchConfig controls reloading of files changed on disk.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			MaxEntries: engine.DefaultMaxUndoEntries,
		},
		Search: SearchConfig{
			RegexTimeout: Dur(engine.DefaultRegexTimeout),
		},
		Highlight: HighlightConfig{
			Enabled:      true,
			Style:        highlight.DefaultThemeName,
			CacheTTL:     Dur(highlight.DefaultCacheExpiration),
			CacheCleanup: Dur(highlight.DefaultCleanupInterval),
		},
		Files: FilesConfig{
			PreserveLineEndings: true,
			LineEnding:          "lf",
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Dur(100 * time.Millisecond),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks every setting and returns the first invalid one.
func (c *Config) Validate() error {
	if c.History.MaxEntries < 1 {
		return &ValidationError{Path: "history.max_entries", Message: "must be at least 1", Value: c.History.MaxEntries}
	}
	if c.Search.RegexTimeout.Duration <= 0 {
		return &ValidationError{Path: "search.regex_timeout", Message: "must be positive", Value: c.Search.RegexTimeout}
	}
	if c.Highlight.CacheTTL.Duration <= 0 {
		return &ValidationError{Path: "highlight.cache_ttl", Message: "must be positive", Value: c.Highlight.CacheTTL}
	}
	if c.Highlight.CacheCleanup.Duration <= 0 {
		return &ValidationError{Path: "highlight.cache_cleanup", Message: "must be positive", Value: c.Highlight.CacheCleanup}
	}
	if _, ok := styles.Registry[c.Highlight.Style]; !ok {
		return &ValidationError{Path: "highlight.style", Message: "unknown style", Value: c.Highlight.Style}
	}
	if _, ok := text.ParseLineEnding(c.Files.LineEnding); !ok {
		return &ValidationError{Path: "files.line_ending", Message: "must be lf, crlf or cr", Value: c.Files.LineEnding}
	}
	if c.Watch.Debounce.Duration < 0 {
		return &ValidationError{Path: "watch.debounce", Message: "must not be negative", Value: c.Watch.Debounce}
	}
	if !contains(logLevels, strings.ToLower(c.Log.Level)) {
		return &ValidationError{
			Path:    "log.level",
			Message: fmt.Sprintf("must be one of %s", strings.Join(logLevels, ", ")),
			Value:   c.Log.Level,
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LineEnding returns the configured line ending for new buffers.
func (c *Config) LineEnding() text.LineEnding {
	le, _ := text.ParseLineEnding(c.Files.LineEnding)
	return le
}

// EngineOptions returns the buffer options implied by the configuration.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithMaxUndoEntries(c.History.MaxEntries),
		engine.WithRegexTimeout(c.Search.RegexTimeout.Duration),
		engine.WithPreserveLineEndings(c.Files.PreserveLineEndings),
		engine.WithLineEnding(c.LineEnding()),
	}
}

// Query returns a search query for pattern using the configured defaults.
func (c *Config) Query(pattern string) engine.SearchQuery {
	return engine.SearchQuery{
		Pattern:       pattern,
		CaseSensitive: c.Search.CaseSensitive,
		WholeWord:     c.Search.WholeWord,
		UseRegex:      c.Search.UseRegex,
	}
}

// NewHighlighter returns a highlighter with a span cache sized by the
// configuration.
func (c *Config) NewHighlighter() *highlight.Highlighter {
	cache := highlight.NewSpanCache(c.Highlight.CacheTTL.Duration, c.Highlight.CacheCleanup.Duration)
	return highlight.NewHighlighter(highlight.WithCache(cache))
}

// Theme returns the configured highlight theme.
func (c *Config) Theme() *highlight.Theme {
	return highlight.ThemeFromChroma(c.Highlight.Style)
}
