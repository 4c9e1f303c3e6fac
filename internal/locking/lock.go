// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package locking

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MemoryLock represents an advisory lock on a memory slug
type MemoryLock struct {
	Slug      string    `gorm:"primaryKey" json:"slug"`
	LockedBy  string    `gorm:"not null" json:"locked_by"`
	LockedAt  time.Time `gorm:"not null" json:"locked_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// TableName specifies the table name for MemoryLock
func (MemoryLock) TableName() string {
	return "memory_locks"
}

// MigrateLocks runs migrations for the memory_locks table
func MigrateLocks(db *gorm.DB) error {
	return db.AutoMigrate(&MemoryLock{})
}

// IsExpired returns true if the lock has expired
func (l *MemoryLock) IsExpired() bool {
	return time.Now().After(l.ExpiresAt)
}

// LockError represents a locking failure
type LockError struct {
	Slug     string
	LockedBy string
	Message  string
}

func (e *LockError) Error() string {
	return fmt.Sprintf("%s: %s", e.Slug, e.Message)
}
