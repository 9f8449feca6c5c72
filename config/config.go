// Package config loads engine configuration from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Config configures a VM.
type Config struct {
	// Strict makes failed writes, failed deletes, and assignments to
	// undeclared names throw instead of doing nothing.
	Strict bool `yaml:"strict" toml:"strict"`
	// MaxCallDepth is the maximum number of nested calls before a RangeError.
	// Zero means no limit.
	MaxCallDepth int `yaml:"max_call_depth" toml:"max_call_depth"`
	// LogLevel is one of debug, info, warn, or error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	Console Console `yaml:"console" toml:"console"`
	Hooks   Hooks   `yaml:"hooks" toml:"hooks"`
}

// Console configures program output.
type Console struct {
	// Encoding is the output encoding; see the console package.
	Encoding string `yaml:"encoding" toml:"encoding"`
}

// Hooks configures the handle tracker.
type Hooks struct {
	// Trace logs every handle count change at debug level.
	Trace bool `yaml:"trace" toml:"trace"`
}

// Default values.
const (
	DefaultMaxCallDepth = 10000
	DefaultLogLevel     = "warn"
	DefaultEncoding     = "utf-8"
)

// Encodings lists the accepted console encodings.
var Encodings = []string{"utf-8", "utf-16le", "utf-16be", "utf-32le", "latin1", "windows-1252"}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MaxCallDepth: DefaultMaxCallDepth,
		LogLevel:     DefaultLogLevel,
		Console:      Console{Encoding: DefaultEncoding},
	}
}

// Load reads the configuration file at path. Files ending in .toml are TOML;
// anything else is YAML. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration in the given format, "yaml" or "toml", over
// the defaults and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case "yaml", "yml":
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
	case "toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		if u := md.Undecoded(); len(u) > 0 {
			return nil, fmt.Errorf("%w: unknown key %s", ErrInvalid, u[0])
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalid, format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("%w: max_call_depth must not be negative, got %d", ErrInvalid, c.MaxCallDepth)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if !validEncoding(c.Console.Encoding) {
		return fmt.Errorf("%w: unknown console encoding %q (want one of %s)", ErrInvalid, c.Console.Encoding, strings.Join(Encodings, ", "))
	}
	return nil
}

// Level returns the configured log level, or warn if it is invalid.
func (c *Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return l, nil
}

func validEncoding(name string) bool {
	for _, e := range Encodings {
		if strings.EqualFold(e, name) {
			return true
		}
	}
	return false
}
