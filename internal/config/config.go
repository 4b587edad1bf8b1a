// Package config loads the client configuration from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the public Rick and Morty API root.
const DefaultBaseURL = "https://rickandmortyapi.com/api"

// Config holds client configuration.
type Config struct {
	BaseURL        string        `yaml:"base_url" validate:"required,url"`
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	DataDir        string        `yaml:"data_dir" validate:"required"`
	LogLevel       string        `yaml:"log_level" validate:"oneof=trace debug info warn error disabled"`
	CacheTTL       time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	NoCache        bool          `yaml:"no_cache"`
	FilterDelay    time.Duration `yaml:"filter_delay" validate:"gte=0"`
	DetailDebounce time.Duration `yaml:"detail_debounce" validate:"gte=0"`
	UserAgent      string        `yaml:"user_agent"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Timeout:        30 * time.Second,
		DataDir:        "~/.rickterm",
		LogLevel:       "info",
		CacheTTL:       10 * time.Minute,
		DetailDebounce: 200 * time.Millisecond,
		UserAgent:      "rickterm",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rickterm", "config.yaml")
}

// Load reads the YAML file at path on top of the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validateInst
}

// Validate checks field constraints and reports the first failing field.
func (c Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config: %s: failed %q rule", yamlName(fe.StructField()), fe.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}

// ResolvedDataDir returns DataDir with a leading "~" expanded.
func (c Config) ResolvedDataDir() (string, error) {
	return ExpandHome(c.DataDir)
}

// ExpandHome expands a leading "~/" to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func yamlName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(field[i-1] >= 'A' && field[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
