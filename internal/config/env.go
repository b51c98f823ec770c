package config

import (
	"os"
	"strings"
)

// EnvPrefix prefixes every environment variable quill reads.
const EnvPrefix = "QUILL_"

// EnvLoader applies environment variables to a Config.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "QUILL_")
	mapping map[string]string // Env var -> setting path
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a loader reading the process environment.
// The prefix should include the trailing underscore (e.g., "QUILL_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// defaultEnvMapping returns short aliases that don't follow the
// SECTION_SETTING pattern.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG":        "log.level",
		prefix + "STYLE":      "highlight.style",
		prefix + "UNDO_LIMIT": "history.max_entries",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, path string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = path
}

// Apply sets every prefixed variable that names a known setting. Mapped
// aliases are applied first so the full names win. Empty values are
// ignored; unknown names are skipped.
func (l *EnvLoader) Apply(c *Config) error {
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok && val != "" {
			if err := c.Set(path, val); err != nil {
				return err
			}
		}
	}

	for _, kv := range l.environ() {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || val == "" || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}

		path := l.envToPath(name)
		if _, known := settings[path]; !known {
			continue
		}
		if err := c.Set(path, val); err != nil {
			return err
		}
	}
	return nil
}

// envToPath converts QUILL_HISTORY_MAX_ENTRIES to history.max_entries.
// The first segment is the section; the rest form the setting name.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, setting, ok := strings.Cut(name, "_")
	if !ok {
		return section
	}
	return section + "." + setting
}
