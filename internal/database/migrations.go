// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"fmt"
	"strings"

	"github.com/tejzpr/muninn-mcp/internal/index"
	"gorm.io/gorm"
)

// AllModels returns all models that need to be migrated
func AllModels() []interface{} {
	return []interface{}{
		&index.VaultMemory{},
		&index.VaultTag{},
		&index.VaultMemoryTag{},
	}
}

// Migrate runs auto-migration for all models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CreateIndexes creates additional indexes for query performance
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns []string
	}{
		{"vault_memories", "idx_vault_memories_node_timestamp", []string{"node_id", "timestamp"}},
		{"vault_memories", "idx_vault_memories_node_session", []string{"node_id", "session_id"}},
		{"vault_memories", "idx_vault_memories_quality", []string{"quality_overall"}},
		{"vault_memories", "idx_vault_memories_usage", []string{"times_used", "last_used_at"}},
	}

	for _, idx := range indexes {
		sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			idx.name, idx.table, joinColumns(idx.columns))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// joinColumns joins column names with commas
func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
