// Package config provides configuration loading and structs for the Trouve server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Search    SearchConfig    `yaml:"search"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig holds search, expansion and cache settings.
type SearchConfig struct {
	MinQueryLength int           `yaml:"min_query_length"`
	MaxTerms       int           `yaml:"max_terms"`
	DefaultPerPage int           `yaml:"default_per_page"`
	MaxPerPage     int           `yaml:"max_per_page"`
	DefaultLocale  string        `yaml:"default_locale"`
	FuzzyCacheSize int           `yaml:"fuzzy_cache_size"`
	SnapshotTTL    time.Duration `yaml:"snapshot_ttl"`
	KeywordTTL     time.Duration `yaml:"keyword_ttl"`
}

// AnalyticsConfig holds search analytics settings.
type AnalyticsConfig struct {
	Enabled      *bool         `yaml:"enabled"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// EnabledOrDefault returns the analytics switch; defaults to true when unset.
func (a *AnalyticsConfig) EnabledOrDefault() bool {
	if a.Enabled != nil {
		return *a.Enabled
	}
	return true
}

// DiscoveryConfig holds synonym auto-discovery settings.
type DiscoveryConfig struct {
	LookbackDays  int     `yaml:"lookback_days"`
	MinConfidence float64 `yaml:"min_confidence"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
