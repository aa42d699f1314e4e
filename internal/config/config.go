package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the config file looked up in the working directory.
	DefaultPath = ".eventgraph.yml"

	// DefaultManifest is validated when neither the command line nor the
	// config file names a manifest.
	DefaultManifest = "docs/bible-data/bible-event-graph.demo.json"

	// DefaultDebounce is how long watch mode waits for writes to settle.
	DefaultDebounce = 300 * time.Millisecond

	// SupportedVersion is the only config version understood.
	SupportedVersion = "1.0"
)

// Output formats accepted in the output field.
const (
	OutputDefault = "default"
	OutputJSON    = "json"
)

// Config represents the top-level .eventgraph.yml configuration
type Config struct {
	Version  string       `yaml:"version"`
	Manifest string       `yaml:"manifest"`
	Strict   bool         `yaml:"strict,omitempty"` // Treat warnings as validation failures
	Output   string       `yaml:"output,omitempty"` // "default" or "json"
	Watch    *WatchConfig `yaml:"watch,omitempty"`

	// baseDir is the directory of the loaded config file; relative manifest
	// paths are resolved against it.
	baseDir string
}

// WatchConfig specifies watch mode behaviour
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"` // Go duration, e.g. "300ms"
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{Version: SupportedVersion}
	// Defaults always validate.
	_ = cfg.Validate()
	return cfg
}

// Validate performs strict validation on the configuration and fills in
// defaults for optional fields
func (c *Config) Validate() error {
	if c.Version != SupportedVersion {
		return fmt.Errorf("unsupported version: %s (expected: %s)", c.Version, SupportedVersion)
	}

	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}

	switch c.Output {
	case "":
		c.Output = OutputDefault
	case OutputDefault, OutputJSON:
	default:
		return fmt.Errorf("invalid output: %s (must be '%s' or '%s')", c.Output, OutputDefault, OutputJSON)
	}

	if c.Watch == nil {
		c.Watch = &WatchConfig{}
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce.String()
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("invalid watch.debounce: %s (use a duration like '300ms')", c.Watch.Debounce)
	}
	if d < 0 {
		return fmt.Errorf("watch.debounce must be >= 0, got %s", c.Watch.Debounce)
	}

	return nil
}

// ManifestPath returns the manifest path, resolved against the directory of
// the config file when it is relative.
func (c *Config) ManifestPath() string {
	if c.baseDir == "" || filepath.IsAbs(c.Manifest) {
		return c.Manifest
	}
	return filepath.Join(c.baseDir, c.Manifest)
}

// DebounceDuration returns the watch debounce window.
func (c *Config) DebounceDuration() time.Duration {
	if c.Watch == nil {
		return DefaultDebounce
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return DefaultDebounce
	}
	return d
}

// Load reads and validates the config file at the specified path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.baseDir = filepath.Dir(path)
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does not
// exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
