package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	Dedupe    DedupeConfig    `yaml:"dedupe" mapstructure:"dedupe"`
	Region    RegionConfig    `yaml:"region" mapstructure:"region"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Yelp      YelpConfig      `yaml:"yelp" mapstructure:"yelp"`
	Nominatim NominatimConfig `yaml:"nominatim" mapstructure:"nominatim"`
	Directory DirectoryConfig `yaml:"directory" mapstructure:"directory"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Hunter    HunterConfig    `yaml:"hunter" mapstructure:"hunter"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
}

// SearchConfig configures the multi-source orchestrator.
type SearchConfig struct {
	MaxResults         int           `yaml:"max_results" mapstructure:"max_results"`
	RequireMinResults  int           `yaml:"require_min_results" mapstructure:"require_min_results"`
	SourceOrder        []string      `yaml:"source_order" mapstructure:"source_order"`
	PrimarySource      string        `yaml:"primary_source" mapstructure:"primary_source"`
	SourceTimeout      time.Duration `yaml:"source_timeout" mapstructure:"source_timeout"`
	FallbackMaxResults int           `yaml:"fallback_max_results" mapstructure:"fallback_max_results"`
	RewriteRules       string        `yaml:"rewrite_rules" mapstructure:"rewrite_rules"`
}

// RetryConfig configures per-source retries.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" mapstructure:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	Jitter      float64       `yaml:"jitter" mapstructure:"jitter"`
}

// DedupeConfig configures duplicate detection.
type DedupeConfig struct {
	NameThreshold float64 `yaml:"name_threshold" mapstructure:"name_threshold"`
}

// RegionConfig bounds the search area.
type RegionConfig struct {
	Name   string  `yaml:"name" mapstructure:"name"`
	MinLat float64 `yaml:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `yaml:"max_lat" mapstructure:"max_lat"`
	MinLng float64 `yaml:"min_lng" mapstructure:"min_lng"`
	MaxLng float64 `yaml:"max_lng" mapstructure:"max_lng"`
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// YelpConfig holds Yelp Fusion API settings.
type YelpConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// NominatimConfig holds OpenStreetMap Nominatim settings.
type NominatimConfig struct {
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// DirectoryConfig toggles the synthetic directory source.
type DirectoryConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// HunterConfig holds Hunter.io API settings.
type HunterConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// EnrichConfig configures the enrichment phase.
type EnrichConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxEnrichments int           `yaml:"max_enrichments" mapstructure:"max_enrichments"`
	Concurrency    int           `yaml:"concurrency" mapstructure:"concurrency"`
	CacheSize      int           `yaml:"cache_size" mapstructure:"cache_size"`
	CacheTTL       time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	WebsiteTimeout time.Duration `yaml:"website_timeout" mapstructure:"website_timeout"`
	DropSynthetic  bool          `yaml:"drop_synthetic" mapstructure:"drop_synthetic"`
}

// ScorerConfig holds the industry keyword lists used by lead scoring.
type ScorerConfig struct {
	HighRiskIndustries   []string `yaml:"high_risk_industries" mapstructure:"high_risk_industries"`
	MediumRiskIndustries []string `yaml:"medium_risk_industries" mapstructure:"medium_risk_industries"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration. Environment variables (DUBAI_LEADS_*) override
// config.yaml, which overrides the built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DUBAI_LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("search.max_results", 20)
	v.SetDefault("search.require_min_results", 3)
	v.SetDefault("search.source_order", []string{"google_maps", "yelp", "nominatim", "directory"})
	v.SetDefault("search.primary_source", "google_maps")
	v.SetDefault("search.source_timeout", 20*time.Second)
	v.SetDefault("search.fallback_max_results", 5)
	v.SetDefault("search.rewrite_rules", "")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", time.Second)
	v.SetDefault("retry.max_delay", 5*time.Second)
	v.SetDefault("retry.jitter", 0.2)
	v.SetDefault("dedupe.name_threshold", 0.8)
	v.SetDefault("region.name", "Dubai")
	v.SetDefault("region.min_lat", 24.5)
	v.SetDefault("region.max_lat", 26.0)
	v.SetDefault("region.min_lng", 54.5)
	v.SetDefault("region.max_lng", 56.0)
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("yelp.key", "")
	v.SetDefault("yelp.base_url", "https://api.yelp.com/v3")
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "dubai-sme-leads/1.0")
	v.SetDefault("nominatim.rate_limit", 1.0)
	v.SetDefault("directory.enabled", true)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("hunter.key", "")
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("hunter.rate_limit", 10.0)
	v.SetDefault("enrich.enabled", false)
	v.SetDefault("enrich.max_enrichments", 25)
	v.SetDefault("enrich.concurrency", 4)
	v.SetDefault("enrich.cache_size", 256)
	v.SetDefault("enrich.cache_ttl", time.Hour)
	v.SetDefault("enrich.website_timeout", 15*time.Second)
	v.SetDefault("enrich.drop_synthetic", false)
	v.SetDefault("scorer.high_risk_industries", []string{
		"finance", "healthcare", "legal", "accounting", "real estate",
		"consulting", "technology", "e-commerce", "retail",
	})
	v.SetDefault("scorer.medium_risk_industries", []string{
		"manufacturing", "construction", "education", "hospitality",
		"media", "transportation",
	})
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings required by a command mode ("search" or
// "serve").
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "search":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Search.MaxResults <= 0 {
		errs = append(errs, "search.max_results must be > 0")
	}
	if c.Search.RequireMinResults <= 0 {
		errs = append(errs, "search.require_min_results must be > 0")
	}
	if len(c.Search.SourceOrder) == 0 {
		errs = append(errs, "search.source_order must not be empty")
	}
	if c.Search.SourceTimeout <= 0 {
		errs = append(errs, "search.source_timeout must be > 0")
	}
	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, "retry.max_attempts must be > 0")
	}
	if c.Retry.Jitter < 0 || c.Retry.Jitter >= 1 {
		errs = append(errs, "retry.jitter must be in [0, 1)")
	}
	if c.Dedupe.NameThreshold <= 0 || c.Dedupe.NameThreshold > 1 {
		errs = append(errs, "dedupe.name_threshold must be in (0, 1]")
	}
	if c.Region.MinLat >= c.Region.MaxLat || c.Region.MinLng >= c.Region.MaxLng {
		errs = append(errs, "region bounds must satisfy min < max")
	}
	if c.Region.MinLat < -90 || c.Region.MaxLat > 90 || c.Region.MinLng < -180 || c.Region.MaxLng > 180 {
		errs = append(errs, "region bounds must be valid coordinates")
	}
	if c.Enrich.Enabled {
		if c.Enrich.Concurrency <= 0 {
			errs = append(errs, "enrich.concurrency must be > 0")
		}
		if c.Enrich.MaxEnrichments < 0 {
			errs = append(errs, "enrich.max_enrichments must be >= 0")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
