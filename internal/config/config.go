// Package config reads and writes the repository settings file (.gogit/config.yaml).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KostasZigo/gogit-odb/internal/constants"
)

// Config holds repository settings.
type Config struct {
	Core Core `yaml:"core"`
	Log  Log  `yaml:"log"`
}

// Core configures the object database.
type Core struct {
	// Compression is the zlib level for new objects (-1 default, 0 none .. 9 best).
	Compression int `yaml:"compression"`

	// CacheSize is the number of decoded objects kept by tree walks.
	CacheSize int `yaml:"cacheSize"`
}

// Log configures the slog handler installed by the CLI.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// Default returns the settings written by init and used when no file exists.
func Default() *Config {
	return &Config{
		Core: Core{
			Compression: -1,
			CacheSize:   256,
		},
		Log: Log{
			Level: "warn",
		},
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Write stores cfg as YAML at path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, constants.FilePerms); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate rejects out-of-range settings.
func (c *Config) Validate() error {
	if c.Core.Compression < -1 || c.Core.Compression > 9 {
		return fmt.Errorf("core.compression must be between -1 and 9, got %d", c.Core.Compression)
	}
	if c.Core.CacheSize <= 0 {
		return fmt.Errorf("core.cacheSize must be positive, got %d", c.Core.CacheSize)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}
