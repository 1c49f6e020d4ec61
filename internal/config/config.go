package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Environment string           `yaml:"environment" mapstructure:"environment"`
	Server      ServerConfig     `yaml:"server" mapstructure:"server"`
	Log         LogConfig        `yaml:"log" mapstructure:"log"`
	Redis       RedisConfig      `yaml:"redis" mapstructure:"redis"`
	History     HistoryConfig    `yaml:"history" mapstructure:"history"`
	Claude      ClaudeConfig     `yaml:"claude" mapstructure:"claude"`
	Perplexity  PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Enrich      EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Search      SearchConfig     `yaml:"search" mapstructure:"search"`
	Scoring     ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Relevance   RelevanceConfig  `yaml:"relevance" mapstructure:"relevance"`
	Cache       CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Reveal      RevealConfig     `yaml:"reveal" mapstructure:"reveal"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RedisConfig configures the cache backend. When Addr is empty the service
// falls back to the in-memory cache, for local development and tests.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// HistoryConfig configures the search history store.
type HistoryConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ClaudeConfig holds Anthropic API settings for brainstorming and pitch
// generation.
type ClaudeConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PerplexityConfig holds Perplexity API settings for web-search-augmented
// company and competitor discovery.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// EnrichConfig holds contact-enrichment provider settings.
type EnrichConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// SearchConfig sets per-feature provider timeouts and the batch analysis
// rate policy.
type SearchConfig struct {
	EnterpriseTimeout time.Duration `yaml:"enterprise_timeout" mapstructure:"enterprise_timeout"`
	BrainstormTimeout time.Duration `yaml:"brainstorm_timeout" mapstructure:"brainstorm_timeout"`
	CompetitorTimeout time.Duration `yaml:"competitor_timeout" mapstructure:"competitor_timeout"`
	IdentifyTimeout   time.Duration `yaml:"identify_timeout" mapstructure:"identify_timeout"`
	ContactTimeout    time.Duration `yaml:"contact_timeout" mapstructure:"contact_timeout"`

	// Batch competitor analysis: bounded concurrency plus a request rate cap
	// so per-name provider calls respect upstream rate limits.
	BatchConcurrency int     `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
	BatchRatePerSec  float64 `yaml:"batch_rate_per_sec" mapstructure:"batch_rate_per_sec"`
}

// ScoringConfig holds the prospect scoring weights and thresholds. The
// defaults are empirically tuned; they are configuration so they can be
// adjusted without a code change, but changing them shifts ranking behavior.
type ScoringConfig struct {
	TargetProductMax      float64 `yaml:"target_product_max" mapstructure:"target_product_max"`
	ProposedPerProduct    float64 `yaml:"proposed_per_product" mapstructure:"proposed_per_product"`
	ProposedMax           float64 `yaml:"proposed_max" mapstructure:"proposed_max"`
	ArgumentMax           float64 `yaml:"argument_max" mapstructure:"argument_max"`
	OwnProductPerItem     float64 `yaml:"own_product_per_item" mapstructure:"own_product_per_item"`
	OwnProductMax         float64 `yaml:"own_product_max" mapstructure:"own_product_max"`
	SupplierMax           float64 `yaml:"supplier_max" mapstructure:"supplier_max"`
	SourceQualityMax      float64 `yaml:"source_quality_max" mapstructure:"source_quality_max"`
	WebsiteBonus          float64 `yaml:"website_bonus" mapstructure:"website_bonus"`
	DescriptionBonusLong  float64 `yaml:"description_bonus_long" mapstructure:"description_bonus_long"`
	DescriptionBonusShort float64 `yaml:"description_bonus_short" mapstructure:"description_bonus_short"`
	DescriptionLongLen    int     `yaml:"description_long_len" mapstructure:"description_long_len"`
	DescriptionShortLen   int     `yaml:"description_short_len" mapstructure:"description_short_len"`
	DistributorPenalty    float64 `yaml:"distributor_penalty" mapstructure:"distributor_penalty"`
	EngineeringBonus      float64 `yaml:"engineering_bonus" mapstructure:"engineering_bonus"`
	GoodThreshold         float64 `yaml:"good_threshold" mapstructure:"good_threshold"`
	BackfillRatio         float64 `yaml:"backfill_ratio" mapstructure:"backfill_ratio"`
	BackfillMin           float64 `yaml:"backfill_min" mapstructure:"backfill_min"`
	BackfillMax           float64 `yaml:"backfill_max" mapstructure:"backfill_max"`
}

// RelevanceConfig holds the contact relevance threshold. Contacts scoring
// below Threshold are dropped from responses.
type RelevanceConfig struct {
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// CacheConfig sets per-feature cache TTLs, tiered by how volatile the
// underlying data is.
type CacheConfig struct {
	EnterpriseTTL time.Duration `yaml:"enterprise_ttl" mapstructure:"enterprise_ttl"`
	BrainstormTTL time.Duration `yaml:"brainstorm_ttl" mapstructure:"brainstorm_ttl"`
	CompetitorTTL time.Duration `yaml:"competitor_ttl" mapstructure:"competitor_ttl"`
	IdentifyTTL   time.Duration `yaml:"identify_ttl" mapstructure:"identify_ttl"`
	ContactTTL    time.Duration `yaml:"contact_ttl" mapstructure:"contact_ttl"`
}

// RevealConfig bounds the pending phone-reveal store.
type RevealConfig struct {
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MaxEntries int           `yaml:"max_entries" mapstructure:"max_entries"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("environment", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("history.driver", "postgres")
	v.SetDefault("claude.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("claude.max_tokens", 4096)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("enrich.base_url", "https://api.enrichit.io/v2")
	v.SetDefault("search.enterprise_timeout", "5m")
	v.SetDefault("search.brainstorm_timeout", "2m")
	v.SetDefault("search.competitor_timeout", "3m")
	v.SetDefault("search.identify_timeout", "15m")
	v.SetDefault("search.contact_timeout", "90s")
	v.SetDefault("search.batch_concurrency", 2)
	v.SetDefault("search.batch_rate_per_sec", 0.5)
	v.SetDefault("scoring.target_product_max", 3.0)
	v.SetDefault("scoring.proposed_per_product", 0.8)
	v.SetDefault("scoring.proposed_max", 2.5)
	v.SetDefault("scoring.argument_max", 2.5)
	v.SetDefault("scoring.own_product_per_item", 0.3)
	v.SetDefault("scoring.own_product_max", 1.5)
	v.SetDefault("scoring.supplier_max", 1.0)
	v.SetDefault("scoring.source_quality_max", 0.5)
	v.SetDefault("scoring.website_bonus", 0.3)
	v.SetDefault("scoring.description_bonus_long", 0.2)
	v.SetDefault("scoring.description_bonus_short", 0.1)
	v.SetDefault("scoring.description_long_len", 200)
	v.SetDefault("scoring.description_short_len", 120)
	v.SetDefault("scoring.distributor_penalty", 1.5)
	v.SetDefault("scoring.engineering_bonus", 0.5)
	v.SetDefault("scoring.good_threshold", 3.0)
	v.SetDefault("scoring.backfill_ratio", 0.7)
	v.SetDefault("scoring.backfill_min", 2.0)
	v.SetDefault("scoring.backfill_max", 3.0)
	v.SetDefault("relevance.threshold", 0.7)
	v.SetDefault("cache.enterprise_ttl", "24h")
	v.SetDefault("cache.brainstorm_ttl", "168h")
	v.SetDefault("cache.competitor_ttl", "12h")
	v.SetDefault("cache.identify_ttl", "720h")
	v.SetDefault("cache.contact_ttl", "24h")
	v.SetDefault("reveal.ttl", "1h")
	v.SetDefault("reveal.max_entries", 1000)

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

// IsDevelopment reports whether detailed error messages may be surfaced to
// API callers.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
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
