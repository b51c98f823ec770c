package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// setter parses a raw value into one field of a Config.
type setter func(c *Config, raw string) error

var settings = map[string]setter{
	"history.max_entries":         intSetter(func(c *Config) *int { return &c.History.MaxEntries }),
	"search.case_sensitive":       boolSetter(func(c *Config) *bool { return &c.Search.CaseSensitive }),
	"search.whole_word":           boolSetter(func(c *Config) *bool { return &c.Search.WholeWord }),
	"search.use_regex":            boolSetter(func(c *Config) *bool { return &c.Search.UseRegex }),
	"search.regex_timeout":        durationSetter(func(c *Config) *Duration { return &c.Search.RegexTimeout }),
	"highlight.enabled":           boolSetter(func(c *Config) *bool { return &c.Highlight.Enabled }),
	"highlight.style":             stringSetter(func(c *Config) *string { return &c.Highlight.Style }),
	"highlight.cache_ttl":         durationSetter(func(c *Config) *Duration { return &c.Highlight.CacheTTL }),
	"highlight.cache_cleanup":     durationSetter(func(c *Config) *Duration { return &c.Highlight.CacheCleanup }),
	"files.preserve_line_endings": boolSetter(func(c *Config) *bool { return &c.Files.PreserveLineEndings }),
	"files.line_ending":           stringSetter(func(c *Config) *string { return &c.Files.LineEnding }),
	"watch.enabled":               boolSetter(func(c *Config) *bool { return &c.Watch.Enabled }),
	"watch.debounce":              durationSetter(func(c *Config) *Duration { return &c.Watch.Debounce }),
	"log.level":                   stringSetter(func(c *Config) *string { return &c.Log.Level }),
}

// Paths returns every setting path in sorted order.
func Paths() []string {
	paths := make([]string, 0, len(settings))
	for p := range settings {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Set parses raw and stores it at path. The result is not validated.
func (c *Config) Set(path, raw string) error {
	set, ok := settings[path]
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrSettingNotFound)
	}
	if err := set(c, raw); err != nil {
		return &ValidationError{Path: path, Message: err.Error(), Value: raw}
	}
	return nil
}

func intSetter(field func(*Config) *int) setter {
	return func(c *Config, raw string) error {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("not an integer")
		}
		*field(c) = v
		return nil
	}
}

func boolSetter(field func(*Config) *bool) setter {
	return func(c *Config, raw string) error {
		v, err := parseBool(raw)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func stringSetter(field func(*Config) *string) setter {
	return func(c *Config, raw string) error {
		*field(c) = strings.TrimSpace(raw)
		return nil
	}
}

func durationSetter(field func(*Config) *Duration) setter {
	return func(c *Config, raw string) error {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("not a duration")
		}
		*field(c) = Dur(d)
		return nil
	}
}

// parseBool accepts the spellings shells commonly use for flags.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean")
}
