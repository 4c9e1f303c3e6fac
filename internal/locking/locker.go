// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package locking serializes writers on a memory slug through database-backed
// advisory locks, so concurrent save requests never interleave a file write
// with its git commit.
package locking

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultLockTTL is the default time-to-live for locks
const DefaultLockTTL = 5 * time.Minute

// Locker manages advisory locks for memory slugs
type Locker struct {
	db      *gorm.DB
	lockTTL time.Duration
}

// NewLocker creates a new locker instance
func NewLocker(db *gorm.DB) *Locker {
	return &Locker{
		db:      db,
		lockTTL: DefaultLockTTL,
	}
}

// WithTTL sets a custom TTL for locks
func (l *Locker) WithTTL(ttl time.Duration) *Locker {
	l.lockTTL = ttl
	return l
}

// Acquire attempts to acquire a lock for a memory slug.
// Returns true if the lock was acquired, false if held by another agent.
func (l *Locker) Acquire(slug, agentID string) (bool, error) {
	now := time.Now()
	expiresAt := now.Add(l.lockTTL)

	var existing MemoryLock
	err := l.db.Where("slug = ?", slug).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		lock := MemoryLock{
			Slug:      slug,
			LockedBy:  agentID,
			LockedAt:  now,
			ExpiresAt: expiresAt,
		}
		if err := l.db.Create(&lock).Error; err != nil {
			// Lost the race to another creator
			return false, nil
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check lock: %w", err)
	}

	// Take over when expired or already ours
	if existing.IsExpired() || existing.LockedBy == agentID {
		result := l.db.Model(&MemoryLock{}).
			Where("slug = ? AND locked_by = ?", slug, existing.LockedBy).
			Updates(map[string]interface{}{
				"locked_by":  agentID,
				"locked_at":  now,
				"expires_at": expiresAt,
			})
		if result.Error != nil {
			return false, result.Error
		}
		return result.RowsAffected > 0, nil
	}

	return false, nil
}

// Release releases a lock held by the specified agent
func (l *Locker) Release(slug, agentID string) error {
	result := l.db.Where("slug = ? AND locked_by = ?", slug, agentID).
		Delete(&MemoryLock{})
	return result.Error
}

// ReleaseAll releases all locks held by an agent
func (l *Locker) ReleaseAll(agentID string) error {
	result := l.db.Where("locked_by = ?", agentID).Delete(&MemoryLock{})
	return result.Error
}

// IsLocked checks if a slug is currently locked and by whom
func (l *Locker) IsLocked(slug string) (bool, string, error) {
	var lock MemoryLock
	err := l.db.Where("slug = ?", slug).First(&lock).Error

	if err != nil {
		return false, "", nil
	}
	if lock.IsExpired() {
		return false, "", nil
	}

	return true, lock.LockedBy, nil
}

// Extend extends the TTL of an existing lock
func (l *Locker) Extend(slug, agentID string) error {
	expiresAt := time.Now().Add(l.lockTTL)

	result := l.db.Model(&MemoryLock{}).
		Where("slug = ? AND locked_by = ?", slug, agentID).
		Update("expires_at", expiresAt)

	if result.RowsAffected == 0 {
		return &LockError{
			Slug:     slug,
			LockedBy: agentID,
			Message:  "lock not found or owned by different agent",
		}
	}

	return result.Error
}

// CleanupExpired removes all expired locks
func (l *Locker) CleanupExpired() (int64, error) {
	result := l.db.Where("expires_at < ?", time.Now()).Delete(&MemoryLock{})
	return result.RowsAffected, result.Error
}

// WithLock executes a function while holding a lock on the slug.
// The lock is released after execution.
func (l *Locker) WithLock(slug, agentID string, fn func() error) error {
	acquired, err := l.Acquire(slug, agentID)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return &LockError{
			Slug:    slug,
			Message: "failed to acquire lock",
		}
	}

	defer l.Release(slug, agentID) //nolint:errcheck

	return fn()
}
