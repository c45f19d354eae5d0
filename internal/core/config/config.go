// Package config handles configuration loading and validation for the
// verse editor.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/window"
)

// Config holds the application configuration.
type Config struct {
	Theme        string        `yaml:"theme"`
	Database     Database      `yaml:"database"`
	Translations Translations  `yaml:"translations"`
	Window       window.Config `yaml:"window"`
	DataDir      string        `yaml:"-"` // set by caller, not from config file
}

// Database holds the sqlite settings.
type Database struct {
	// Path to the database file. Relative paths resolve under the data
	// directory.
	Path string `yaml:"path"`
}

// Translations selects which translation each pane shows.
type Translations struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: styles.DefaultTheme,
		Database: Database{
			Path: "verses.db",
		},
		Translations: Translations{
			Source: "web",
			Target: "draft",
		},
		Window: window.DefaultConfig(),
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Database.Path == "" {
		c.Database.Path = defaults.Database.Path
	}
	if c.Translations.Source == "" {
		c.Translations.Source = defaults.Translations.Source
	}
	if c.Translations.Target == "" {
		c.Translations.Target = defaults.Translations.Target
	}
}

// DatabasePath returns the resolved database file location.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	return filepath.Join(c.DataDir, c.Database.Path)
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q, valid themes: %v", c.Theme, styles.ThemeNames())
	}

	if c.Translations.Source == "" {
		return fmt.Errorf("translations.source cannot be empty")
	}
	if c.Translations.Target == "" {
		return fmt.Errorf("translations.target cannot be empty")
	}
	if c.Translations.Source == c.Translations.Target {
		return fmt.Errorf("translations.source and translations.target must differ")
	}

	return nil
}
