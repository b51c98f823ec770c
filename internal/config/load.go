package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a config file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Load builds the configuration from defaults, the file at path and the
// QUILL_ environment, then validates it. An empty path or a missing file
// contributes nothing.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := NewEnvLoader(EnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges the file at path into c. Settings absent from the file
// keep their current values. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.Decode(path, format, data)
}

// Decode merges data in the given format into c. source names the data in
// errors.
func (c *Config) Decode(source string, format Format, data []byte) error {
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			perr := &ParseError{Path: source, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			var serr *toml.StrictMissingError
			if errors.As(err, &serr) {
				perr.Message = serr.String()
			}
			return perr
		}
		return nil

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			// An empty document decodes to nothing.
			if errors.Is(err, io.EOF) {
				return nil
			}
			return &ParseError{Path: source, Message: err.Error(), Err: err}
		}
		return nil
	}
	return fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
}

// Encode writes c in the given format.
func (c *Config) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(c)
	case FormatYAML:
		return yaml.Marshal(c)
	}
	return nil, fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
}

// DefaultPaths lists where a config file is looked for when none is given:
// the working directory first, then the user config directory.
func DefaultPaths() []string {
	paths := []string{".quill.toml", ".quill.yaml", ".quill.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
			paths = append(paths, filepath.Join(dir, "quill", name))
		}
	}
	return paths
}

// Find returns the first of DefaultPaths that exists, or "".
func Find() string {
	for _, p := range DefaultPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
