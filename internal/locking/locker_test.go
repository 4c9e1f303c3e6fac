// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package locking

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestLocker(t *testing.T) *Locker {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, MigrateLocks(db))

	return NewLocker(db)
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	locker := newTestLocker(t)

	acquired, err := locker.Acquire("node-abc123", "agent-1")
	require.NoError(t, err)
	assert.True(t, acquired)

	locked, by, err := locker.IsLocked("node-abc123")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, "agent-1", by)

	require.NoError(t, locker.Release("node-abc123", "agent-1"))

	locked, _, err = locker.IsLocked("node-abc123")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLocker_SecondAgentBlocked(t *testing.T) {
	locker := newTestLocker(t)

	acquired, err := locker.Acquire("node-abc123", "agent-1")
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = locker.Acquire("node-abc123", "agent-2")
	require.NoError(t, err)
	assert.False(t, acquired)

	// Same agent re-acquires its own lock
	acquired, err = locker.Acquire("node-abc123", "agent-1")
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestLocker_ExpiredLockTakeover(t *testing.T) {
	locker := newTestLocker(t).WithTTL(-time.Second)

	acquired, err := locker.Acquire("node-abc123", "agent-1")
	require.NoError(t, err)
	require.True(t, acquired)

	// The lock is already expired; another agent takes it over
	locker.lockTTL = DefaultLockTTL
	acquired, err = locker.Acquire("node-abc123", "agent-2")
	require.NoError(t, err)
	assert.True(t, acquired)

	_, by, err := locker.IsLocked("node-abc123")
	require.NoError(t, err)
	assert.Equal(t, "agent-2", by)
}

func TestLocker_WithLock(t *testing.T) {
	locker := newTestLocker(t)

	ran := false
	err := locker.WithLock("node-abc123", "agent-1", func() error {
		ran = true
		locked, by, err := locker.IsLocked("node-abc123")
		require.NoError(t, err)
		assert.True(t, locked)
		assert.Equal(t, "agent-1", by)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	// Released after execution
	locked, _, err := locker.IsLocked("node-abc123")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLocker_Extend(t *testing.T) {
	locker := newTestLocker(t)

	_, err := locker.Acquire("node-abc123", "agent-1")
	require.NoError(t, err)

	assert.NoError(t, locker.Extend("node-abc123", "agent-1"))

	err = locker.Extend("node-abc123", "agent-2")
	assert.Error(t, err)
	var lockErr *LockError
	assert.ErrorAs(t, err, &lockErr)
}

func TestLocker_CleanupExpired(t *testing.T) {
	locker := newTestLocker(t).WithTTL(-time.Second)

	_, err := locker.Acquire("node-a", "agent-1")
	require.NoError(t, err)
	_, err = locker.Acquire("node-b", "agent-1")
	require.NoError(t, err)

	removed, err := locker.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestLocker_ReleaseAll(t *testing.T) {
	locker := newTestLocker(t)

	_, err := locker.Acquire("node-a", "agent-1")
	require.NoError(t, err)
	_, err = locker.Acquire("node-b", "agent-1")
	require.NoError(t, err)
	_, err = locker.Acquire("node-c", "agent-2")
	require.NoError(t, err)

	require.NoError(t, locker.ReleaseAll("agent-1"))

	locked, _, _ := locker.IsLocked("node-a")
	assert.False(t, locked)
	locked, _, _ = locker.IsLocked("node-c")
	assert.True(t, locked)
}
