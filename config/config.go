// Package config loads postdesk settings from the environment and an
// optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved settings.
type Config struct {
	Env           string   `mapstructure:"POSTDESK_ENV"`
	DBPath        string   `mapstructure:"POSTDESK_DB"`
	Categories    []string `mapstructure:"POSTDESK_CATEGORIES"`
	Authors       []string `mapstructure:"POSTDESK_AUTHORS"`
	ExcerptLength int      `mapstructure:"POSTDESK_EXCERPT_LENGTH"`
}

// Defaults for the enumerated sets the dashboard's dropdowns offer.
var (
	DefaultCategories = []string{"Development", "Design", "Marketing", "Business"}
	DefaultAuthors    = []string{"Jane Cooper", "Alex Morgan", "Sam Lee"}
)

// DefaultDBPath returns the catalog location under the user's config dir.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "postdesk.db"
	}
	return filepath.Join(home, ".config", "postdesk", "postdesk.db")
}

// Load resolves settings from defaults, the config file at path (if any) and
// POSTDESK_* environment variables, in increasing precedence. An empty path
// reads no file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("POSTDESK_ENV", "dev")
	v.SetDefault("POSTDESK_DB", DefaultDBPath())
	v.SetDefault("POSTDESK_CATEGORIES", strings.Join(DefaultCategories, ","))
	v.SetDefault("POSTDESK_AUTHORS", strings.Join(DefaultAuthors, ","))
	v.SetDefault("POSTDESK_EXCERPT_LENGTH", 160)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Handle array parsing for comma-separated values
	for _, key := range []string{"POSTDESK_CATEGORIES", "POSTDESK_AUTHORS"} {
		if list := v.GetString(key); list != "" {
			v.Set(key, splitCSV(list))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Env != "dev" && c.Env != "prod" {
		return fmt.Errorf("POSTDESK_ENV must be dev or prod, got %q", c.Env)
	}
	if c.DBPath == "" {
		return fmt.Errorf("POSTDESK_DB is required")
	}
	if c.ExcerptLength < 20 {
		return fmt.Errorf("POSTDESK_EXCERPT_LENGTH must be at least 20, got %d", c.ExcerptLength)
	}
	if hasDuplicates(c.Categories) {
		return fmt.Errorf("POSTDESK_CATEGORIES contains duplicates")
	}
	if hasDuplicates(c.Authors) {
		return fmt.Errorf("POSTDESK_AUTHORS contains duplicates")
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}
