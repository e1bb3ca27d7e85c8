// Package config loads the optional .sealfile.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/illarion/sealfile/internal/core"
	"github.com/illarion/sealfile/internal/logging"
)

const (
	// FileName is looked up in the working directory
	FileName = ".sealfile.yaml"
	// EnvPath overrides the config file location
	EnvPath = "SEALFILE_CONFIG"
)

// Config holds user settings. Zero values mean "use the default".
type Config struct {
	Suffix    string `yaml:"suffix"`
	Index     string `yaml:"index"`
	Workers   int    `yaml:"workers"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Keyring   *bool  `yaml:"keyring"`
}

// Default returns the built-in settings
func Default() *Config {
	keyring := true
	return &Config{
		Suffix:    core.DefaultSuffix,
		Index:     core.DefaultIndex,
		Workers:   core.DefaultWorkers(),
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Keyring:   &keyring,
	}
}

// Load reads the config file named by SEALFILE_CONFIG, or FileName in dir.
// A missing FileName is not an error; a missing SEALFILE_CONFIG file is.
func Load(dir string) (*Config, error) {
	path := os.Getenv(EnvPath)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays YAML data onto cfg and validates the result
func Parse(data []byte, cfg *Config) error {
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if file.Suffix != "" {
		cfg.Suffix = file.Suffix
	}
	if file.Index != "" {
		cfg.Index = file.Index
	}
	if file.Workers != 0 {
		cfg.Workers = file.Workers
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogFormat != "" {
		cfg.LogFormat = file.LogFormat
	}
	if file.Keyring != nil {
		cfg.Keyring = file.Keyring
	}

	return cfg.Validate()
}

// Validate checks settings before they reach the workspace
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Suffix == "" || strings.ContainsAny(c.Suffix, `/\`) {
		return fmt.Errorf("invalid suffix %q", c.Suffix)
	}
	if c.Index == "" || filepath.IsAbs(c.Index) {
		return fmt.Errorf("index must be a relative path, got %q", c.Index)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// KeyringEnabled reports whether the OS keyring should be used
func (c *Config) KeyringEnabled() bool {
	return c.Keyring == nil || *c.Keyring
}

// WorkspaceOptions converts the config into core.Options
func (c *Config) WorkspaceOptions() core.Options {
	return core.Options{
		Suffix:  c.Suffix,
		Index:   c.Index,
		Workers: c.Workers,
	}
}
