// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ranking

import (
	"time"

	"github.com/tejzpr/muninn-mcp/internal/memory"
)

const (
	// usageSaturation is the use count at which usage weight reaches 1.0.
	usageSaturation = 10

	// Trend windows. An access within the hot window on a memory that has
	// already been used a few times reads as increasing interest; a gap
	// beyond the cold window reads as decreasing.
	trendHotWindow    = 7 * 24 * time.Hour
	trendColdWindow   = 30 * 24 * time.Hour
	trendMinHotUses   = 3
)

// UsageWeight converts a use count into a saturating weight in [0,1].
// Zero uses weigh nothing; usageSaturation or more uses weigh 1.0.
func UsageWeight(timesUsed int) float64 {
	if timesUsed <= 0 {
		return 0
	}
	if timesUsed >= usageSaturation {
		return 1
	}
	return float64(timesUsed) / float64(usageSaturation)
}

// UpdateUsageTracking records one retrieval event and returns the new
// tracking state. The existing value is never mutated; the caller owns
// persistence and must call this exactly once per real access.
func UpdateUsageTracking(existing *memory.UsageTracking) memory.UsageTracking {
	return UpdateUsageTrackingAt(existing, time.Now())
}

// UpdateUsageTrackingAt is UpdateUsageTracking against an explicit clock.
func UpdateUsageTrackingAt(existing *memory.UsageTracking, now time.Time) memory.UsageTracking {
	updated := memory.UsageTracking{
		TimesUsed:   1,
		AccessTrend: memory.TrendStable,
	}

	if existing != nil {
		prev := existing.TimesUsed
		if prev < 0 {
			prev = 0
		}
		updated.TimesUsed = prev + 1
		updated.AccessTrend = deriveTrend(existing, now)
	}

	lastUsed := now
	updated.LastUsed = &lastUsed

	return updated
}

// deriveTrend estimates the access trend from the previous tracking state.
// The exact heuristic is internal; other components only rely on the value
// being one of the three trend constants.
func deriveTrend(existing *memory.UsageTracking, now time.Time) string {
	if existing.LastUsed == nil {
		return memory.TrendStable
	}

	gap := now.Sub(*existing.LastUsed)
	switch {
	case gap > trendColdWindow:
		return memory.TrendDecreasing
	case gap < trendHotWindow && existing.TimesUsed >= trendMinHotUses:
		return memory.TrendIncreasing
	default:
		return memory.TrendStable
	}
}
