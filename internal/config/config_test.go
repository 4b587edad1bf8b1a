package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 200*time.Millisecond, cfg.DetailDebounce)
	assert.Zero(t, cfg.FilterDelay)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("overrides fields from YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "base_url: http://localhost:8080/api\ntimeout: 5s\nfilter_delay: 2s\nlog_level: debug\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 2*time.Second, cfg.FilterDelay)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "~/.rickterm", cfg.DataDir)
	})

	t.Run("malformed YAML fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timeout: [oops"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }, "base_url"},
		{"empty url", func(c *Config) { c.BaseURL = "" }, "base_url"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"negative delay", func(c *Config) { c.FilterDelay = -time.Second }, "filter_delay"},
		{"bad level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
		{"no data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.rickterm")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".rickterm"), got)

	got, err = ExpandHome("/var/lib/rickterm")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/rickterm", got)
}
