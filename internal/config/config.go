// Package config provides configuration management for the handicap scoring
// service.
package config

// Config represents the complete application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Scoring ScoringConfig `mapstructure:"scoring" validate:"required"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Address            string  `mapstructure:"address" validate:"required"`
	HealthPort         string  `mapstructure:"health_port" validate:"required"`
	ReadTimeoutSeconds int     `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst" validate:"gte=0"`
}

// ScoringConfig represents scoring service configuration. Scoring constants
// themselves are code-level tables; only presentation and gating knobs live
// here.
type ScoringConfig struct {
	TopN               int     `mapstructure:"top_n" validate:"required,gt=0"`
	MinUsabilityScore  float64 `mapstructure:"min_usability_score" validate:"gte=0,lte=100"`
	DiagnosticsEnabled bool    `mapstructure:"diagnostics_enabled"`
}

// CacheConfig represents result cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"omitempty,gt=0"`
	MaxEntries int  `mapstructure:"max_entries" validate:"omitempty,gt=0"`
}

// MetricsConfig represents Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
