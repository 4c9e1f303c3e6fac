// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/muninn-mcp/internal/memory"
)

func TestFilterByQuality_ZeroThresholdReturnsInputUnchanged(t *testing.T) {
	entries := []memory.IndexEntry{
		entryWith(10, 0.1, 0),
		entryWith(20, -1, 0),
		entryWith(30, 0.9, 0),
	}

	out := FilterByQuality(entries, 0)
	require.Len(t, out, len(entries))
	for i := range entries {
		assert.Equal(t, entries[i], out[i])
	}
}

func TestFilterByQuality_NeverRemovesMissingQuality(t *testing.T) {
	entries := []memory.IndexEntry{
		entryWith(10, 0.05, 0), // below threshold, removed
		entryWith(20, -1, 0),   // no quality data, kept
		entryWith(30, 0.95, 0), // above threshold, kept
	}

	out := FilterByQuality(entries, 0.3)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].Quality)
	assert.Equal(t, 0.95, out[1].Quality.Overall)
}

func TestFilterByQuality_EmptyInput(t *testing.T) {
	assert.Empty(t, FilterByQuality(nil, 0.3))
	assert.Empty(t, FilterByQuality([]memory.IndexEntry{}, 0.3))
}

func TestRankMemories_SortsDescending(t *testing.T) {
	entries := []memory.IndexEntry{
		entryWith(300, 0.2, 0),
		entryWith(0, 0.9, 0),
		entryWith(30, 0.6, 0),
	}

	ranked := RankMemoriesAt(entries, DefaultConfig(), testNow)
	require.Len(t, ranked, 3)

	prev := 1.1
	for _, e := range ranked {
		score := MemoryRankingScoreAt(e, DefaultConfig(), testNow)
		assert.LessOrEqual(t, score, prev)
		prev = score
	}
	assert.Equal(t, 0.9, ranked[0].Quality.Overall)
}

func TestRankMemories_StableOnTies(t *testing.T) {
	// Identical entries score identically; order must be preserved.
	a := entryWith(45, 0.5, 0)
	a.SessionID = "first"
	b := entryWith(45, 0.5, 0)
	b.SessionID = "second"
	c := entryWith(45, 0.5, 0)
	c.SessionID = "third"

	ranked := RankMemoriesAt([]memory.IndexEntry{a, b, c}, DefaultConfig(), testNow)
	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].SessionID)
	assert.Equal(t, "second", ranked[1].SessionID)
	assert.Equal(t, "third", ranked[2].SessionID)
}

func TestRankMemories_DoesNotMutateInput(t *testing.T) {
	entries := []memory.IndexEntry{
		entryWith(300, 0.2, 0),
		entryWith(0, 0.9, 0),
	}
	first := entries[0].SessionID

	RankMemoriesAt(entries, DefaultConfig(), testNow)
	assert.Equal(t, first, entries[0].SessionID)
	assert.Equal(t, 0.2, entries[0].Quality.Overall)
}

func TestRankMemories_EmptyAndSingleton(t *testing.T) {
	assert.Empty(t, RankMemoriesAt(nil, DefaultConfig(), testNow))

	single := []memory.IndexEntry{entryWith(5, 0.5, 0)}
	ranked := RankMemoriesAt(single, DefaultConfig(), testNow)
	require.Len(t, ranked, 1)
	assert.Equal(t, single[0], ranked[0])
}

func TestLoadTopMemories_EmptyInput(t *testing.T) {
	assert.Empty(t, LoadTopMemoriesAt(nil, 5, DefaultConfig(), testNow))
}

func TestLoadTopMemories_TruncatesToLimit(t *testing.T) {
	var entries []memory.IndexEntry
	for i := 0; i < 10; i++ {
		entries = append(entries, entryWith(i*10, 0.5+float64(i)*0.04, 0))
	}

	top := LoadTopMemoriesAt(entries, 4, DefaultConfig(), testNow)
	assert.Len(t, top, 4)
}

func TestLoadTopMemories_ReturnsFewerWhenFilteredOut(t *testing.T) {
	entries := []memory.IndexEntry{
		entryWith(10, 0.1, 0),
		entryWith(20, 0.2, 0),
		entryWith(30, 0.8, 0),
	}

	top := LoadTopMemoriesAt(entries, 5, DefaultConfig(), testNow)
	require.Len(t, top, 1)
	assert.Equal(t, 0.8, top[0].Quality.Overall)
}

func TestLoadTopMemories_DefaultLimit(t *testing.T) {
	var entries []memory.IndexEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, entryWith(i, 0.9, 0))
	}

	top := LoadTopMemoriesAt(entries, 0, DefaultConfig(), testNow)
	assert.Len(t, top, DefaultTopLimit)
}

func TestLoadTopMemories_KeepsUnscoredEntries(t *testing.T) {
	entries := []memory.IndexEntry{
		entryWith(5, -1, 0),   // pre-existing unscored memory
		entryWith(10, 0.1, 0), // filtered out
	}

	top := LoadTopMemoriesAt(entries, 3, DefaultConfig(), testNow)
	require.Len(t, top, 1)
	assert.Nil(t, top[0].Quality)
}
