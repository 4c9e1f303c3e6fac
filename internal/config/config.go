// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/tejzpr/muninn-mcp/internal/ranking"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".muninn/configs"
	// weightSumEpsilon is the tolerance when checking weights sum to 1
	weightSumEpsilon = 1e-6
)

// Load reads configuration from ~/.muninn/configs/config.json
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configPath)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			return loadFromDefaults(v)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	homeDir, _ := os.UserHomeDir()

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.sqlite_path", filepath.Join(homeDir, ".muninn/db/muninn.db"))

	// Vault defaults
	v.SetDefault("vault.path", filepath.Join(homeDir, ".muninn/vault"))
	v.SetDefault("vault.vault_type", ranking.DefaultVaultType)
	v.SetDefault("vault.git_enabled", true)

	// Ranking defaults
	v.SetDefault("ranking.recency_weight", ranking.DefaultRecencyWeight)
	v.SetDefault("ranking.quality_weight", ranking.DefaultQualityWeight)
	v.SetDefault("ranking.min_quality_score", ranking.DefaultMinQualityScore)
	v.SetDefault("ranking.max_age_days", ranking.DefaultMaxAgeDays)

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval_minutes", 60)
}

// loadFromDefaults creates a config from default values
func loadFromDefaults(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid. Invalid ranking weights are
// rejected here, at load time; the engine never corrects them silently.
func Validate(cfg *Config) error {
	// Validate database type
	if cfg.Database.Type != "sqlite" && cfg.Database.Type != "postgres" {
		return fmt.Errorf("database.type must be 'sqlite' or 'postgres', got '%s'", cfg.Database.Type)
	}

	if cfg.Database.Type == "sqlite" && cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required when type is 'sqlite'")
	}
	if cfg.Database.Type == "postgres" && cfg.Database.PostgresDSN == "" {
		return fmt.Errorf("database.postgres_dsn is required when type is 'postgres'")
	}

	// Validate server port
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	// Validate vault settings
	if cfg.Vault.Path == "" {
		return fmt.Errorf("vault.path is required")
	}

	// Validate ranking weights
	r := cfg.Ranking
	if r.RecencyWeight < 0 || r.QualityWeight < 0 {
		return fmt.Errorf("ranking weights must be non-negative")
	}
	if math.Abs(r.RecencyWeight+r.QualityWeight-1.0) > weightSumEpsilon {
		return fmt.Errorf("ranking.recency_weight and ranking.quality_weight must sum to 1, got %.4f",
			r.RecencyWeight+r.QualityWeight)
	}
	if r.MinQualityScore < 0 || r.MinQualityScore > 1 {
		return fmt.Errorf("ranking.min_quality_score must be in [0,1], got %.4f", r.MinQualityScore)
	}
	if r.MaxAgeDays < 1 {
		return fmt.Errorf("ranking.max_age_days must be at least 1, got %d", r.MaxAgeDays)
	}

	// Validate quality weight profiles
	for vaultType, w := range cfg.QualityWeights {
		if w.CompletenessWeight < 0 || w.AccuracyWeight < 0 || w.RelevanceWeight < 0 {
			return fmt.Errorf("quality_weights[%s]: weights must be non-negative", vaultType)
		}
		sum := w.CompletenessWeight + w.AccuracyWeight + w.RelevanceWeight
		if math.Abs(sum-1.0) > weightSumEpsilon {
			return fmt.Errorf("quality_weights[%s]: weights must sum to 1, got %.4f", vaultType, sum)
		}
	}

	// Validate scheduler settings
	if cfg.Scheduler.Enabled && cfg.Scheduler.IntervalMinutes < 1 {
		return fmt.Errorf("scheduler.interval_minutes must be at least 1, got %d", cfg.Scheduler.IntervalMinutes)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".muninn/db/muninn.db"),
		},
		Vault: VaultConfig{
			Path:       filepath.Join(homeDir, ".muninn/vault"),
			VaultType:  ranking.DefaultVaultType,
			GitEnabled: true,
		},
		Ranking: ranking.DefaultConfig(),
		Scheduler: SchedulerConfig{
			Enabled:         true,
			IntervalMinutes: 60,
		},
	}
}
