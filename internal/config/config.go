package config

import (
	"time"

	"papuanews/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration, built once at startup and injected into
// the aggregator, extractors, store, and API. Components never read the
// environment themselves.
type Config struct {
	Scrape    ScrapeConfig    `mapstructure:"scrape"    yaml:"scrape"`
	Regions   []Region        `mapstructure:"regions"   yaml:"regions"`
	Store     StoreConfig     `mapstructure:"store"     yaml:"store"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// Region pairs a region tag with the search keyword used for it. Order is
// significant: regions are scraped in the order listed, and on duplicate
// URLs the first-scraped region's tag wins.
type Region struct {
	Name    string `mapstructure:"name"    yaml:"name"`
	Keyword string `mapstructure:"keyword" yaml:"keyword"`
}

// ScrapeConfig controls the extractors and the shared fetcher.
type ScrapeConfig struct {
	// MaxPages is the pagination ceiling per source.
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`

	// ConstrainedMaxPages replaces MaxPages when Constrained is set, to
	// keep total wall-clock time under a serverless execution budget.
	ConstrainedMaxPages int `mapstructure:"constrained_max_pages" yaml:"constrained_max_pages"`

	// Constrained marks a short-timeout execution environment.
	Constrained bool `mapstructure:"constrained" yaml:"constrained"`

	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"     yaml:"max_retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"     yaml:"retry_delay"`

	// MinDelay/MaxDelay bound the randomized pause between page requests.
	MinDelay            time.Duration `mapstructure:"min_delay"             yaml:"min_delay"`
	MaxDelay            time.Duration `mapstructure:"max_delay"             yaml:"max_delay"`
	ConstrainedMinDelay time.Duration `mapstructure:"constrained_min_delay" yaml:"constrained_min_delay"`
	ConstrainedMaxDelay time.Duration `mapstructure:"constrained_max_delay" yaml:"constrained_max_delay"`

	UserAgent   string `mapstructure:"user_agent"    yaml:"user_agent"`
	MaxBodySize int64  `mapstructure:"max_body_size" yaml:"max_body_size"`
}

// PageCeiling returns the effective pagination ceiling for this run.
func (c *ScrapeConfig) PageCeiling() int {
	if c.Constrained {
		return c.ConstrainedMaxPages
	}
	return c.MaxPages
}

// DelayRange returns the bounds for the randomized inter-request pause.
func (c *ScrapeConfig) DelayRange() (time.Duration, time.Duration) {
	if c.Constrained {
		return c.ConstrainedMinDelay, c.ConstrainedMaxDelay
	}
	return c.MinDelay, c.MaxDelay
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Driver is one of sqlite, postgres, mongo, memory.
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is the SQL connection string (file path for sqlite).
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// APIConfig controls the HTTP server.
type APIConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`

	// Key guards the ingestion trigger endpoint.
	Key string `mapstructure:"key" yaml:"key"`
}

// SchedulerConfig controls the periodic ingestion job.
type SchedulerConfig struct {
	Enabled    bool          `mapstructure:"enabled"      yaml:"enabled"`
	Interval   time.Duration `mapstructure:"interval"     yaml:"interval"`
	RunOnStart bool          `mapstructure:"run_on_start" yaml:"run_on_start"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultRegions returns the regional searches in their canonical order.
func DefaultRegions() []Region {
	return []Region{
		{Name: types.RegionTimika, Keyword: types.RegionTimika},
		{Name: types.RegionMimika, Keyword: types.RegionMimika},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			MaxPages:            5,
			ConstrainedMaxPages: 2,
			RequestTimeout:      15 * time.Second,
			MaxRetries:          3,
			RetryDelay:          5 * time.Second,
			MinDelay:            2 * time.Second,
			MaxDelay:            4 * time.Second,
			ConstrainedMinDelay: 500 * time.Millisecond,
			ConstrainedMaxDelay: 1500 * time.Millisecond,
			UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
			MaxBodySize:         10 * 1024 * 1024, // 10MB
		},
		Regions: DefaultRegions(),
		Store: StoreConfig{
			Driver:          "sqlite",
			DSN:             "./papuanews.db",
			MongoDatabase:   "papuanews",
			MongoCollection: "articles",
		},
		API: APIConfig{
			Addr: ":8000",
			Key:  "papua-news-secret-2024",
		},
		Scheduler: SchedulerConfig{
			Enabled:    true,
			Interval:   30 * time.Minute,
			RunOnStart: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
