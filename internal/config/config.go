// Package config provides configuration management for the Acca Engine application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App            AppConfig            `mapstructure:"app" validate:"required"`
	Database       DatabaseConfig       `mapstructure:"database" validate:"required"`
	OddsFeed       OddsFeedConfig       `mapstructure:"odds_feed" validate:"required"`
	PredictionFeed PredictionFeedConfig `mapstructure:"prediction_feed" validate:"required"`
	Engine         EngineConfig         `mapstructure:"engine" validate:"required"`
	Scheduler      SchedulerConfig      `mapstructure:"scheduler" validate:"required"`
	Metrics        MetricsConfig        `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// OddsFeedConfig represents the bookmaker odds feed configuration
type OddsFeedConfig struct {
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	APIKey             string  `mapstructure:"api_key"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts      int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst" validate:"required,gt=0"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	StreamURL          string  `mapstructure:"stream_url"`
	StreamEnabled      bool    `mapstructure:"stream_enabled"`
}

// PredictionFeedConfig represents the match prediction feed configuration
type PredictionFeedConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	APIKey          string `mapstructure:"api_key"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts   int    `mapstructure:"retry_attempts" validate:"gte=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// EngineConfig represents accumulator pipeline configuration
type EngineConfig struct {
	Leagues            []string `mapstructure:"leagues" validate:"required,min=1"`
	PickHorizonDays    int      `mapstructure:"pick_horizon_days" validate:"required,gt=0"`
	MinSafetyToPersist int      `mapstructure:"min_safety_to_persist" validate:"gte=0,lte=100"`
	MaxCombosPerTier   int      `mapstructure:"max_combos_per_tier" validate:"required,gt=0"`
}

// SchedulerConfig represents the daily pipeline schedule
type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	RefreshCron string `mapstructure:"refresh_cron" validate:"required,cronexpr"`
	PicksCron   string `mapstructure:"picks_cron" validate:"required,cronexpr"`
	CombosCron  string `mapstructure:"combos_cron" validate:"required,cronexpr"`
	TimeoutMins int    `mapstructure:"timeout_mins" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Port       int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path       string `mapstructure:"path" validate:"required"`
	HealthPort int    `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
