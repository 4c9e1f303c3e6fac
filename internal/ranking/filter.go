// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ranking

import (
	"sort"
	"time"

	"github.com/tejzpr/muninn-mcp/internal/memory"
)

// FilterByQuality removes entries whose computed quality falls below the
// threshold. Entries with no quality data are always kept; missing data is
// never penalized. A threshold of zero (or below) disables filtering and
// returns the input unchanged.
func FilterByQuality(entries []memory.IndexEntry, minQuality float64) []memory.IndexEntry {
	if minQuality <= 0 {
		return entries
	}

	filtered := make([]memory.IndexEntry, 0, len(entries))
	for _, e := range entries {
		if e.Quality != nil && e.Quality.Overall < minQuality {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// RankMemories returns the entries sorted by ranking score, descending. The
// sort is stable: entries with equal scores keep their original relative
// order across calls.
func RankMemories(entries []memory.IndexEntry, cfg Config) []memory.IndexEntry {
	return RankMemoriesAt(entries, cfg, time.Now())
}

// RankMemoriesAt is RankMemories against an explicit clock.
func RankMemoriesAt(entries []memory.IndexEntry, cfg Config, now time.Time) []memory.IndexEntry {
	type scoredEntry struct {
		entry memory.IndexEntry
		score float64
	}

	scored := make([]scoredEntry, len(entries))
	for i, e := range entries {
		scored[i] = scoredEntry{entry: e, score: MemoryRankingScoreAt(e, cfg, now)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := make([]memory.IndexEntry, len(scored))
	for i, s := range scored {
		ranked[i] = s.entry
	}
	return ranked
}

// LoadTopMemories applies quality filtering, ranks the survivors, and
// truncates to limit. It returns fewer than limit when not enough entries
// pass the filter; it never pads or duplicates.
func LoadTopMemories(entries []memory.IndexEntry, limit int, cfg Config) []memory.IndexEntry {
	return LoadTopMemoriesAt(entries, limit, cfg, time.Now())
}

// LoadTopMemoriesAt is LoadTopMemories against an explicit clock.
func LoadTopMemoriesAt(entries []memory.IndexEntry, limit int, cfg Config, now time.Time) []memory.IndexEntry {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	passing := FilterByQuality(entries, cfg.MinQualityScore)
	ranked := RankMemoriesAt(passing, cfg, now)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
