package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment
// variables. Environment variable placeholders in the YAML file (${VAR})
// are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("HANDICAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration populated with development defaults.
// Load unmarshals the file over it, so absent keys keep their defaults.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "handicap-engine",
			Environment: "development",
			LogLevel:    "info",
		},
		Server: ServerConfig{
			Address:            ":8080",
			HealthPort:         "8081",
			ReadTimeoutSeconds: 15,
			RateLimitPerSecond: 20,
			RateLimitBurst:     40,
		},
		Scoring: ScoringConfig{
			TopN:               3,
			MinUsabilityScore:  40,
			DiagnosticsEnabled: true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 300,
			MaxEntries: 1000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Address: ":9090",
		},
	}
}
