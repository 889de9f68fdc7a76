// Package config loads the legifr configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDebounce is the quiet period after which a dump archive is
// considered fully written.
const DefaultDebounce = 2 * time.Second

// Config holds the tool-wide settings read from legifr.yaml.
type Config struct {
	// Database is the path of the SQLite database.
	Database string `yaml:"database"`

	// LogPath is the file the normalization changelog is appended to.
	LogPath string `yaml:"log_path,omitempty"`

	// DumpDir is the directory the DILA dump archives are downloaded
	// into, watched by the watch command.
	DumpDir string `yaml:"dump_dir,omitempty"`

	// DumpDebounce is how long a dump file must stay quiet before it
	// counts as complete (e.g. "5s").
	DumpDebounce string `yaml:"dump_debounce,omitempty"`

	// DryRun makes every normalization pass report changes without
	// writing them.
	DryRun bool `yaml:"dry_run,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: "legi.sqlite",
		LogPath:  "normalize.log",
	}
}

// Load reads a configuration file. A missing file is not an error: the
// defaults are returned.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if config.Database == "" {
		return nil, fmt.Errorf("config %s: database is required", path)
	}
	return config, nil
}

// Debounce parses DumpDebounce, falling back to DefaultDebounce.
func (c *Config) Debounce() (time.Duration, error) {
	if c.DumpDebounce == "" {
		return DefaultDebounce, nil
	}
	d, err := time.ParseDuration(c.DumpDebounce)
	if err != nil {
		return 0, fmt.Errorf("invalid dump_debounce %q: %w", c.DumpDebounce, err)
	}
	return d, nil
}
