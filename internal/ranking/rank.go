// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ranking

import (
	"time"

	"github.com/tejzpr/muninn-mcp/internal/memory"
)

// Default ranking configuration values.
const (
	DefaultRecencyWeight   = 0.3
	DefaultQualityWeight   = 0.7
	DefaultMinQualityScore = 0.3
	DefaultMaxAgeDays      = 365
	DefaultTopLimit        = 3

	// usageBonusWeight bounds the usage nudge: a fully-saturated usage count
	// lifts the ranking score by at most this much before clamping.
	usageBonusWeight = 0.05
)

// Config controls how recency, quality, and usage combine into a ranking
// score. RecencyWeight and QualityWeight should sum to 1; the host validates
// configuration at load time, the engine does not correct it.
type Config struct {
	RecencyWeight   float64 `mapstructure:"recency_weight" json:"recency_weight"`
	QualityWeight   float64 `mapstructure:"quality_weight" json:"quality_weight"`
	MinQualityScore float64 `mapstructure:"min_quality_score" json:"min_quality_score"`
	MaxAgeDays      int     `mapstructure:"max_age_days" json:"max_age_days"`
}

// DefaultConfig returns the ranking defaults, usable with no configuration.
func DefaultConfig() Config {
	return Config{
		RecencyWeight:   DefaultRecencyWeight,
		QualityWeight:   DefaultQualityWeight,
		MinQualityScore: DefaultMinQualityScore,
		MaxAgeDays:      DefaultMaxAgeDays,
	}
}

// MemoryRankingScore merges recency, quality, and usage into the single [0,1]
// score used to order memories for retrieval. Entries without quality data
// fall back to recency alone; they are never rejected or scored undefined.
func MemoryRankingScore(entry memory.IndexEntry, cfg Config) float64 {
	return MemoryRankingScoreAt(entry, cfg, time.Now())
}

// MemoryRankingScoreAt is MemoryRankingScore against an explicit clock.
func MemoryRankingScoreAt(entry memory.IndexEntry, cfg Config, now time.Time) float64 {
	recency := RecencyScoreAt(entry.Timestamp, cfg.MaxAgeDays, now)

	var base float64
	if entry.Quality != nil {
		base = cfg.RecencyWeight*recency + cfg.QualityWeight*clamp01(entry.Quality.Overall)
	} else {
		base = recency
	}

	timesUsed := 0
	if entry.Usage != nil {
		timesUsed = entry.Usage.TimesUsed
	}
	bonus := usageBonusWeight * UsageWeight(timesUsed)

	return clamp01(base + bonus)
}
