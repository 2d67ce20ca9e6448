// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all pipeline configuration knobs loaded via Viper.
type Config struct {
	Search     SearchConfig     `mapstructure:"search"`
	Crawl      CrawlConfig      `mapstructure:"crawl"`
	Validation ValidationConfig `mapstructure:"validation"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Collection CollectionConfig `mapstructure:"collection"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SearchConfig governs discovery requests to search engines.
type SearchConfig struct {
	Limit          int `mapstructure:"limit"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	MinDelayMs     int `mapstructure:"min_delay_ms"`
	MaxDelayMs     int `mapstructure:"max_delay_ms"`
}

// CrawlConfig governs the same-site crawl backend.
type CrawlConfig struct {
	FrontierCapacity int  `mapstructure:"frontier_capacity"`
	MaxVisits        int  `mapstructure:"max_visits"`
	RespectRobots    bool `mapstructure:"respect_robots"`
	TimeoutSeconds   int  `mapstructure:"timeout_seconds"`
}

// ValidationConfig governs per-URL checks and metadata extraction.
type ValidationConfig struct {
	MaxSizeMB      float64 `mapstructure:"max_size_mb"`
	PrefixBytes    int64   `mapstructure:"prefix_bytes"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	DeepVerify     bool    `mapstructure:"deep_verify"`
	MinDelayMs     int     `mapstructure:"min_delay_ms"`
	MaxDelayMs     int     `mapstructure:"max_delay_ms"`
	Concurrency    int     `mapstructure:"concurrency"`
}

// EngineConfig points at an optional JSON search API instance.
type EngineConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// CollectionConfig sets the data files shared with the viewer.
type CollectionConfig struct {
	Path           string `mapstructure:"path"`
	CategoriesPath string `mapstructure:"categories_path"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PDFFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.limit", 20)
	v.SetDefault("search.timeout_seconds", 30)
	v.SetDefault("search.min_delay_ms", 2000)
	v.SetDefault("search.max_delay_ms", 5000)
	v.SetDefault("crawl.frontier_capacity", 50)
	v.SetDefault("crawl.max_visits", 100)
	v.SetDefault("crawl.respect_robots", false)
	v.SetDefault("crawl.timeout_seconds", 15)
	v.SetDefault("validation.max_size_mb", 50)
	v.SetDefault("validation.prefix_bytes", 100*1024)
	v.SetDefault("validation.timeout_seconds", 15)
	v.SetDefault("validation.deep_verify", true)
	v.SetDefault("validation.min_delay_ms", 500)
	v.SetDefault("validation.max_delay_ms", 1500)
	v.SetDefault("validation.concurrency", 1)
	v.SetDefault("collection.path", "data/pdfs.json")
	v.SetDefault("collection.categories_path", "data/categories.json")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be > 0")
	}
	if c.Search.MinDelayMs > c.Search.MaxDelayMs {
		return fmt.Errorf("search.min_delay_ms must not exceed search.max_delay_ms")
	}
	if c.Validation.MinDelayMs > c.Validation.MaxDelayMs {
		return fmt.Errorf("validation.min_delay_ms must not exceed validation.max_delay_ms")
	}
	if c.Validation.MaxSizeMB <= 0 {
		return fmt.Errorf("validation.max_size_mb must be > 0")
	}
	if c.Validation.PrefixBytes <= 0 {
		return fmt.Errorf("validation.prefix_bytes must be > 0")
	}
	if c.Validation.Concurrency <= 0 {
		return fmt.Errorf("validation.concurrency must be > 0")
	}
	if c.Crawl.FrontierCapacity <= 0 {
		return fmt.Errorf("crawl.frontier_capacity must be > 0")
	}
	if c.Crawl.MaxVisits <= 0 {
		return fmt.Errorf("crawl.max_visits must be > 0")
	}
	if c.Collection.Path == "" {
		return fmt.Errorf("collection.path must be set")
	}
	return nil
}

// SearchDelayBounds returns the politeness window for search requests.
func (c Config) SearchDelayBounds() (time.Duration, time.Duration) {
	return time.Duration(c.Search.MinDelayMs) * time.Millisecond,
		time.Duration(c.Search.MaxDelayMs) * time.Millisecond
}

// ValidationDelayBounds returns the politeness window for per-URL checks.
func (c Config) ValidationDelayBounds() (time.Duration, time.Duration) {
	return time.Duration(c.Validation.MinDelayMs) * time.Millisecond,
		time.Duration(c.Validation.MaxDelayMs) * time.Millisecond
}
