package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): legacy env vars > PAPUANEWS_* env vars >
// config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("PAPUANEWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("papuanews")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyLegacyEnv(cfg)

	return cfg, nil
}

// applyLegacyEnv honors the environment contract of earlier deployments:
// SCRAPE_PAGES_LIMIT overrides the page ceiling, VERCEL/VERCEL_ENV flag a
// constrained serverless runtime, DATABASE_URL selects the SQL backend.
func applyLegacyEnv(cfg *Config) {
	if limit := os.Getenv("SCRAPE_PAGES_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			cfg.Scrape.MaxPages = n
			cfg.Scrape.ConstrainedMaxPages = n
		}
	}

	if os.Getenv("VERCEL") == "1" || os.Getenv("VERCEL_ENV") != "" {
		cfg.Scrape.Constrained = true
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Store.DSN = dsn
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			cfg.Store.Driver = "postgres"
		}
	}
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("scrape.max_pages", cfg.Scrape.MaxPages)
	v.SetDefault("scrape.constrained_max_pages", cfg.Scrape.ConstrainedMaxPages)
	v.SetDefault("scrape.constrained", cfg.Scrape.Constrained)
	v.SetDefault("scrape.request_timeout", cfg.Scrape.RequestTimeout)
	v.SetDefault("scrape.max_retries", cfg.Scrape.MaxRetries)
	v.SetDefault("scrape.retry_delay", cfg.Scrape.RetryDelay)
	v.SetDefault("scrape.min_delay", cfg.Scrape.MinDelay)
	v.SetDefault("scrape.max_delay", cfg.Scrape.MaxDelay)
	v.SetDefault("scrape.constrained_min_delay", cfg.Scrape.ConstrainedMinDelay)
	v.SetDefault("scrape.constrained_max_delay", cfg.Scrape.ConstrainedMaxDelay)
	v.SetDefault("scrape.user_agent", cfg.Scrape.UserAgent)
	v.SetDefault("scrape.max_body_size", cfg.Scrape.MaxBodySize)

	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.dsn", cfg.Store.DSN)
	v.SetDefault("store.mongo_uri", cfg.Store.MongoURI)
	v.SetDefault("store.mongo_database", cfg.Store.MongoDatabase)
	v.SetDefault("store.mongo_collection", cfg.Store.MongoCollection)

	v.SetDefault("api.addr", cfg.API.Addr)
	v.SetDefault("api.key", cfg.API.Key)

	v.SetDefault("scheduler.enabled", cfg.Scheduler.Enabled)
	v.SetDefault("scheduler.interval", cfg.Scheduler.Interval)
	v.SetDefault("scheduler.run_on_start", cfg.Scheduler.RunOnStart)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
