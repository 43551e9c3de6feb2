package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/trouve/data/catalog.db"
	}
	if cfg.Search.MinQueryLength == 0 {
		cfg.Search.MinQueryLength = 2
	}
	if cfg.Search.MaxTerms == 0 {
		cfg.Search.MaxTerms = 20
	}
	if cfg.Search.DefaultPerPage == 0 {
		cfg.Search.DefaultPerPage = 24
	}
	if cfg.Search.MaxPerPage == 0 {
		cfg.Search.MaxPerPage = 100
	}
	if cfg.Search.DefaultLocale == "" {
		cfg.Search.DefaultLocale = "en"
	}
	if cfg.Search.FuzzyCacheSize == 0 {
		cfg.Search.FuzzyCacheSize = 100
	}
	if cfg.Search.SnapshotTTL == 0 {
		cfg.Search.SnapshotTTL = 5 * time.Minute
	}
	if cfg.Search.KeywordTTL == 0 {
		cfg.Search.KeywordTTL = 5 * time.Minute
	}
	if cfg.Analytics.WriteTimeout == 0 {
		cfg.Analytics.WriteTimeout = 2 * time.Second
	}
	if cfg.Discovery.LookbackDays == 0 {
		cfg.Discovery.LookbackDays = 30
	}
	if cfg.Discovery.MinConfidence == 0 {
		cfg.Discovery.MinConfidence = 0.7
	}
}
