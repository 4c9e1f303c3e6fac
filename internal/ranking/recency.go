// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ranking implements the deterministic memory quality and ranking
// engine: recency decay, usage weighting, heuristic quality scoring, and the
// combined ranking used to select memories for retrieval. Every function is a
// pure transformation of its inputs and is total on well-formed data.
package ranking

import "time"

const (
	// recencyFloor is the minimum recency score. Old memories decay toward
	// this floor but are never fully suppressed.
	recencyFloor = 0.1

	// recencyFreshWindow is the age under which a memory scores full recency.
	recencyFreshWindow = 24 * time.Hour
)

// RecencyScore converts a memory's age into a decay score in [recencyFloor, 1].
// Fresh memories (under one day) score 1.0; memories at or beyond maxAgeDays
// sit on the floor; in between the score decays linearly.
func RecencyScore(timestamp time.Time, maxAgeDays int) float64 {
	return RecencyScoreAt(timestamp, maxAgeDays, time.Now())
}

// RecencyScoreAt is RecencyScore evaluated against an explicit clock, which
// keeps the decay curve testable.
func RecencyScoreAt(timestamp time.Time, maxAgeDays int, now time.Time) float64 {
	if maxAgeDays <= 1 {
		maxAgeDays = DefaultMaxAgeDays
	}

	age := now.Sub(timestamp)
	if age < recencyFreshWindow {
		// Covers future timestamps too; they clamp to full freshness.
		return 1.0
	}

	ageDays := age.Hours() / 24.0
	if ageDays >= float64(maxAgeDays) {
		return recencyFloor
	}

	// Linear decay from 1.0 at day one to the floor at maxAgeDays.
	span := float64(maxAgeDays) - 1.0
	score := 1.0 - (1.0-recencyFloor)*(ageDays-1.0)/span

	return clamp01(score)
}

// clamp01 clamps v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
