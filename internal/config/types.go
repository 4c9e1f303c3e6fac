// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import "github.com/tejzpr/muninn-mcp/internal/ranking"

// Config represents the complete application configuration
type Config struct {
	Server         ServerConfig                               `mapstructure:"server"`
	Database       DatabaseConfig                             `mapstructure:"database"`
	Vault          VaultConfig                                `mapstructure:"vault"`
	Ranking        ranking.Config                             `mapstructure:"ranking"`
	QualityWeights map[string]ranking.VaultTypeQualityWeights `mapstructure:"quality_weights"`
	Scheduler      SchedulerConfig                            `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type        string `mapstructure:"type"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// VaultConfig holds the memory vault settings
type VaultConfig struct {
	Path       string `mapstructure:"path"`
	VaultType  string `mapstructure:"vault_type"` // selects the quality weight profile
	GitEnabled bool   `mapstructure:"git_enabled"`
}

// SchedulerConfig holds the background quality sweep settings
type SchedulerConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
}

// WeightTable merges the configured quality weight profiles over the built-in
// table. Configured entries win; the default entry is always present.
func (c *Config) WeightTable() ranking.WeightTable {
	table := ranking.DefaultWeightTable()
	for vaultType, weights := range c.QualityWeights {
		table[vaultType] = weights
	}
	return table
}

// VaultWeights resolves the quality weight profile for the configured vault type.
func (c *Config) VaultWeights() ranking.VaultTypeQualityWeights {
	return c.WeightTable().Resolve(c.Vault.VaultType)
}
