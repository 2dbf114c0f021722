// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	score "github.com/resellkit/listing-scout/pkg/scorer"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Market        MarketConfig        `yaml:"market"`
	Demand        DemandConfig        `yaml:"demand"`
	Fees          domain.FeeConfig    `yaml:"fees"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Engine        EngineConfig        `yaml:"engine"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// MarketConfig defines pricing API settings.
type MarketConfig struct {
	BaseURL   string          `yaml:"base_url"`
	APIKey    string          `yaml:"api_key"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines pricing API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// DemandConfig defines demand model settings. When the endpoint is empty
// the engine uses the sales-rank heuristic only.
type DemandConfig struct {
	ModelEndpoint string        `yaml:"model_endpoint"`
	Timeout       time.Duration `yaml:"timeout"`
}

// ScoringConfig defines margin thresholds and the demand horizon.
type ScoringConfig struct {
	MinMarginPct    float64 `yaml:"min_margin_pct"`
	TargetMarginPct float64 `yaml:"target_margin_pct"`
	HorizonDays     int     `yaml:"horizon_days"`
}

// ScoreConfig converts the YAML section into the scorer's config type.
func (s *ScoringConfig) ScoreConfig() score.Config {
	return score.Config{
		MinMarginPct:    s.MinMarginPct,
		TargetMarginPct: s.TargetMarginPct,
		HorizonDays:     s.HorizonDays,
	}
}

// EngineConfig defines batch analysis settings.
type EngineConfig struct {
	Workers       int    `yaml:"workers"`
	StockLocation string `yaml:"stock_location"`
}

// ScheduleConfig defines cron intervals for the watchlist job.
type ScheduleConfig struct {
	WatchlistInterval time.Duration `yaml:"watchlist_interval"`
	StaggerOffset     time.Duration `yaml:"stagger_offset"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// TelemetryConfig defines OTLP trace exporter settings.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyMarketDefaults(&cfg.Market)
	applyDemandDefaults(&cfg.Demand)
	applyFeeDefaults(&cfg.Fees)
	applyScoringDefaults(&cfg.Scoring)
	applyEngineDefaults(&cfg.Engine)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyMarketDefaults(m *MarketConfig) {
	applyRateLimitDefaults(&m.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyDemandDefaults(d *DemandConfig) {
	if d.Timeout == 0 {
		d.Timeout = 10 * time.Second
	}
}

func applyFeeDefaults(f *domain.FeeConfig) {
	if f.ReferralPercent == 0 {
		f.ReferralPercent = 15.0
	}
	if f.ReferralFloor == 0 {
		f.ReferralFloor = 30
	}
	if len(f.FulfillmentFees) == 0 {
		f.FulfillmentFees = map[domain.SizeTier]int64{
			domain.TierSmall:    150,
			domain.TierStandard: 295,
			domain.TierLarge:    450,
			domain.TierOversize: 700,
		}
	}
	if f.VATRatePercent == 0 {
		f.VATRatePercent = 20.0
	}
}

func applyScoringDefaults(s *ScoringConfig) {
	if s.MinMarginPct == 0 {
		s.MinMarginPct = 10.0
	}
	if s.TargetMarginPct == 0 {
		s.TargetMarginPct = 15.0
	}
	if s.HorizonDays == 0 {
		s.HorizonDays = 30
	}
}

func applyEngineDefaults(e *EngineConfig) {
	if e.Workers == 0 {
		e.Workers = 8
	}
	if e.StockLocation == "" {
		e.StockLocation = "main"
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.WatchlistInterval == 0 {
		s.WatchlistInterval = 6 * time.Hour
	}
	if s.StaggerOffset == 0 {
		s.StaggerOffset = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if cfg.Market.APIKey == "" {
		errs = append(errs, fmt.Errorf("market.api_key is required"))
	}

	if cfg.Scoring.MinMarginPct > cfg.Scoring.TargetMarginPct {
		errs = append(errs, fmt.Errorf(
			"scoring.min_margin_pct (%.1f) must not exceed scoring.target_margin_pct (%.1f)",
			cfg.Scoring.MinMarginPct, cfg.Scoring.TargetMarginPct,
		))
	}

	if cfg.Notifications.Webhook.Enabled && cfg.Notifications.Webhook.URL == "" {
		errs = append(errs, fmt.Errorf("notifications.webhook.url is required when enabled"))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, fmt.Errorf("telemetry.endpoint is required when enabled"))
	}

	return errors.Join(errs...)
}
