package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "tokyo-night", cfg.Theme)
	assert.Equal(t, "web", cfg.Translations.Source)
	assert.Equal(t, "draft", cfg.Translations.Target)
	assert.Equal(t, 50, cfg.Window.PageSize)
	assert.Equal(t, 31102, cfg.Window.MaxIndex)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", cfg.Theme)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
theme: gruvbox
database:
  path: /var/lib/verses/editor.db
translations:
  source: kjv
  target: revision-2
window:
  page_size: 25
  eviction_ceiling: 150
  scroll_center_debounce: 150ms
`)

	dataDir := t.TempDir()
	cfg, err := Load(path, dataDir)
	require.NoError(t, err)

	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "/var/lib/verses/editor.db", cfg.DatabasePath())
	assert.Equal(t, "kjv", cfg.Translations.Source)
	assert.Equal(t, 25, cfg.Window.PageSize)
	assert.Equal(t, 150, cfg.Window.EvictionCeiling)
	assert.Equal(t, 150*time.Millisecond, cfg.Window.ScrollCenterDebounce)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
translations:
  source: kjv
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "kjv", cfg.Translations.Source)
	assert.Equal(t, "draft", cfg.Translations.Target)
	assert.Equal(t, "tokyo-night", cfg.Theme)
}

func TestConfig_DatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	assert.Equal(t, filepath.Join("/data", "verses.db"), cfg.DatabasePath())

	cfg.Database.Path = "/elsewhere/verses.db"
	assert.Equal(t, "/elsewhere/verses.db", cfg.DatabasePath())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.Theme = "solarized" },
			wantErr: "unknown theme",
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: "data directory",
		},
		{
			name:    "empty source translation",
			mutate:  func(c *Config) { c.Translations.Source = "" },
			wantErr: "translations.source",
		},
		{
			name: "same source and target",
			mutate: func(c *Config) {
				c.Translations.Source = "web"
				c.Translations.Target = "web"
			},
			wantErr: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = "/tmp/data"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateDeep(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "negative page size",
			mutate:  func(c *Config) { c.Window.PageSize = -1 },
			wantErr: "window.page_size",
		},
		{
			name: "min index above max",
			mutate: func(c *Config) {
				c.Window.MinIndex = 500
				c.Window.MaxIndex = 100
			},
			wantErr: "window.min_index",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Window.ScrollCenterDebounce = -time.Second },
			wantErr: "window.scroll_center_debounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.ValidateDeep("")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()

	err := cfg.ValidateDeep(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory, not a file")
}

func TestConfig_Warnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/data"
	assert.Empty(t, cfg.Warnings())

	cfg.Window.EvictionCeiling = 60
	cfg.Window.NavResolveThrottle = 500 * time.Millisecond
	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "eviction_ceiling", warnings[0].Item)
	assert.Equal(t, "nav_resolve_throttle", warnings[1].Item)
}
