// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scheduler

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/muninn-mcp/internal/index"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"github.com/tejzpr/muninn-mcp/internal/ranking"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSweepFixture(t *testing.T) (*Scheduler, *index.Service, *memory.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&index.VaultMemory{}, &index.VaultTag{}, &index.VaultMemoryTag{}))

	idx := index.NewService(db)
	store := memory.NewStore(t.TempDir())
	weights := ranking.GetVaultTypeQualityWeights(ranking.DefaultVaultType)

	return NewScheduler(idx, store, weights, 60), idx, store
}

func saveAndIndex(t *testing.T, idx *index.Service, store *memory.Store, sessionID string) {
	t.Helper()

	mem := &memory.SessionMemory{
		SessionID: sessionID,
		NodeID:    "node-1",
		NodeName:  "Sweep Node",
		Created:   time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC),
		Command:   "run the tests",
		Summary:   "Ran the suite and fixed two flakes",
		Tags:      []string{"tests"},
		Title:     "Test run",
		Learnings: "Flakes resolved by pinning the clock",
	}
	path, err := store.Save(mem)
	require.NoError(t, err)
	require.NoError(t, idx.Add(mem, path, nil))
}

func TestSweepOnce_ScoresUnscored(t *testing.T) {
	sched, idx, store := newSweepFixture(t)

	saveAndIndex(t, idx, store, "sess-1")
	saveAndIndex(t, idx, store, "sess-2")

	scored := sched.SweepOnce()
	assert.Equal(t, 2, scored)

	unscored, err := idx.Unscored(0)
	require.NoError(t, err)
	assert.Empty(t, unscored)

	entry, err := idx.Get("sess-1", "node-1")
	require.NoError(t, err)
	require.NotNil(t, entry.Quality)
	assert.Greater(t, entry.Quality.Overall, 0.0)
}

func TestSweepOnce_SkipsScored(t *testing.T) {
	sched, idx, store := newSweepFixture(t)

	saveAndIndex(t, idx, store, "sess-1")
	require.Equal(t, 1, sched.SweepOnce())

	// Second sweep has nothing left to do
	assert.Equal(t, 0, sched.SweepOnce())
}

func TestSweepOnce_MissingFile(t *testing.T) {
	sched, idx, _ := newSweepFixture(t)

	mem := &memory.SessionMemory{
		SessionID: "sess-ghost",
		NodeID:    "node-1",
		NodeName:  "Sweep Node",
		Created:   time.Now(),
	}
	require.NoError(t, idx.Add(mem, "/nonexistent/path.md", nil))

	// Unreadable files are skipped, not fatal
	assert.Equal(t, 0, sched.SweepOnce())
}

func TestScheduler_StartStop(t *testing.T) {
	sched, _, _ := newSweepFixture(t)

	sched.Start()
	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
