// Package config loads quill's settings.
//
// Settings come from three places, later ones overriding earlier ones:
//
//  1. built-in defaults (Default)
//  2. a config file, TOML or YAML depending on its extension
//  3. environment variables prefixed with QUILL_
//
// A missing config file is not an error. Every setting has a dotted path
// such as "history.max_entries" or "search.regex_timeout", which is also
// what Set accepts and what environment variables map to:
//
//	QUILL_HISTORY_MAX_ENTRIES=500  ->  history.max_entries = 500
//	QUILL_LOG_LEVEL=debug          ->  log.level = "debug"
//
// The resulting Config is turned into engine options with EngineOptions and
// into a highlighter with NewHighlighter.
package config
