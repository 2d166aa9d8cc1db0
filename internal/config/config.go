// Package config holds the settings of the humanabi command and service.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var ErrInvalid = errors.New("invalid configuration")

// Options is the top-level configuration document.
type Options struct {
	Log    LogOptions    `yaml:"log"`
	Parser ParserOptions `yaml:"parser"`
	Server ServerOptions `yaml:"server"`
	Output OutputOptions `yaml:"output"`
}

// LogOptions configures the console and rotated file logs.
type LogOptions struct {
	Level     string `yaml:"level"`      // debug, info, warn, error
	ToConsole bool   `yaml:"to_console"` // write to stderr
	FilePath  string `yaml:"file_path"`  // JSON log file; empty disables it

	MaxSize    int  `yaml:"max_size"`    // megabytes
	MaxBackups int  `yaml:"max_backups"` // rotated files kept
	MaxAge     int  `yaml:"max_age"`     // days
	Compress   bool `yaml:"compress"`
}

// ParserOptions bounds the work done per source. Zero means unlimited.
type ParserOptions struct {
	MaxNodes  int `yaml:"max_nodes"`
	MaxTokens int `yaml:"max_tokens"`
}

type ServerOptions struct {
	Listen         string `yaml:"listen"`
	CacheSize      int    `yaml:"cache_size"` // parsed sources kept; 0 disables the cache
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`
	ReadTimeoutSec int    `yaml:"read_timeout_sec"`
	GinMode        string `yaml:"gin_mode"`
}

type OutputOptions struct {
	Format string `yaml:"format"`
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Options, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	opts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes a YAML document over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Options, error) {
	opts := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks the options for values no component can run with.
func (o *Options) Validate() error {
	var problems []string
	switch strings.ToLower(o.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", o.Log.Level))
	}
	if o.Log.MaxSize < 0 || o.Log.MaxBackups < 0 || o.Log.MaxAge < 0 {
		problems = append(problems, "log rotation limits must not be negative")
	}
	if o.Parser.MaxNodes < 0 {
		problems = append(problems, "parser.max_nodes must not be negative")
	}
	if o.Parser.MaxTokens < 0 {
		problems = append(problems, "parser.max_tokens must not be negative")
	}
	if o.Server.Listen == "" {
		problems = append(problems, "server.listen is required")
	}
	if o.Server.CacheSize < 0 {
		problems = append(problems, "server.cache_size must not be negative")
	}
	if o.Server.MaxBodyBytes <= 0 {
		problems = append(problems, "server.max_body_bytes must be positive")
	}
	switch o.Server.GinMode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("server.gin_mode %q is not one of debug, release, test", o.Server.GinMode))
	}
	switch o.Output.Format {
	case FormatText, FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("output.format %q is not one of text, json", o.Output.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
