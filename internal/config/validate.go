package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Scrape.MaxPages < 1 {
		return fmt.Errorf("scrape.max_pages must be >= 1, got %d", cfg.Scrape.MaxPages)
	}
	if cfg.Scrape.ConstrainedMaxPages < 1 {
		return fmt.Errorf("scrape.constrained_max_pages must be >= 1, got %d", cfg.Scrape.ConstrainedMaxPages)
	}
	if cfg.Scrape.RequestTimeout <= 0 {
		return fmt.Errorf("scrape.request_timeout must be > 0")
	}
	if cfg.Scrape.MaxRetries < 0 {
		return fmt.Errorf("scrape.max_retries must be >= 0, got %d", cfg.Scrape.MaxRetries)
	}
	if cfg.Scrape.MinDelay > cfg.Scrape.MaxDelay {
		return fmt.Errorf("scrape.min_delay must be <= scrape.max_delay")
	}
	if cfg.Scrape.MaxBodySize <= 0 {
		return fmt.Errorf("scrape.max_body_size must be > 0")
	}

	if len(cfg.Regions) == 0 {
		return fmt.Errorf("at least one region must be configured")
	}
	seen := make(map[string]bool)
	for _, r := range cfg.Regions {
		if r.Name == "" || r.Keyword == "" {
			return fmt.Errorf("region entries need both name and keyword")
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate region %q", r.Name)
		}
		seen[r.Name] = true
	}

	switch cfg.Store.Driver {
	case "sqlite", "postgres":
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", cfg.Store.Driver)
		}
	case "mongo":
		if cfg.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required for driver mongo")
		}
	case "memory":
	default:
		return fmt.Errorf("store.driver must be sqlite/postgres/mongo/memory, got %q", cfg.Store.Driver)
	}

	if cfg.Scheduler.Enabled && cfg.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be > 0 when the scheduler is enabled")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is acceptable as an article source.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
