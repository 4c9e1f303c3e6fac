// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package index maintains the queryable database view of the memory vault.
// The markdown files on disk are the source of truth; the index can always
// be rebuilt from them.
package index

import (
	"fmt"
	"time"

	"github.com/tejzpr/muninn-mcp/internal/memory"
	"github.com/tejzpr/muninn-mcp/internal/ranking"
	"gorm.io/gorm"
)

// Service provides index operations over the vault database
type Service struct {
	db *gorm.DB
}

// NewService creates a new index service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add inserts or updates the index entry for a memory. The quality score is
// optional; pass nil to leave the entry unscored. Usage state survives
// re-indexing of an existing entry.
func (s *Service) Add(mem *memory.SessionMemory, filePath string, quality *memory.QualityScore) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var model VaultMemory
		err := tx.Where("session_id = ? AND node_id = ?", mem.SessionID, mem.NodeID).
			First(&model).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to look up index entry: %w", err)
		}

		model.SessionID = mem.SessionID
		model.NodeID = mem.NodeID
		model.NodeName = mem.NodeName
		model.Timestamp = mem.Created
		model.Command = mem.Command
		model.Summary = mem.Summary
		model.FilePath = filePath
		if quality != nil {
			model.SetQuality(*quality)
		}

		if err := tx.Save(&model).Error; err != nil {
			return fmt.Errorf("failed to save index entry: %w", err)
		}

		return s.replaceTags(tx, model.ID, mem.Tags)
	})
}

// replaceTags rewrites the tag links for a memory
func (s *Service) replaceTags(tx *gorm.DB, memoryID uint, tags []string) error {
	if err := tx.Where("memory_id = ?", memoryID).Delete(&VaultMemoryTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear tag links: %w", err)
	}

	for _, name := range tags {
		if name == "" {
			continue
		}
		var tag VaultTag
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag, VaultTag{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to upsert tag %s: %w", name, err)
		}
		link := VaultMemoryTag{MemoryID: memoryID, TagID: tag.ID}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link tag %s: %w", name, err)
		}
	}
	return nil
}

// GetAllEntries returns all index entries, newest first. A limit of 0 or
// less returns everything.
func (s *Service) GetAllEntries(limit int) ([]memory.IndexEntry, error) {
	query := s.db.Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []VaultMemory
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query index entries: %w", err)
	}
	return s.toEntries(models)
}

// QueryByNode returns the index entries for a single node, newest first
func (s *Service) QueryByNode(nodeID string, limit int) ([]memory.IndexEntry, error) {
	query := s.db.Where("node_id = ?", nodeID).Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []VaultMemory
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query node %s: %w", nodeID, err)
	}
	return s.toEntries(models)
}

// QueryByTags returns entries carrying any of the given tags, newest first
func (s *Service) QueryByTags(tags []string, limit int) ([]memory.IndexEntry, error) {
	if len(tags) == 0 {
		return []memory.IndexEntry{}, nil
	}

	query := s.db.
		Joins("JOIN vault_memory_tags ON vault_memory_tags.memory_id = vault_memories.id").
		Joins("JOIN vault_tags ON vault_tags.id = vault_memory_tags.tag_id").
		Where("vault_tags.name IN ?", tags).
		Group("vault_memories.id").
		Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []VaultMemory
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query by tags: %w", err)
	}
	return s.toEntries(models)
}

// Search returns entries whose summary or command matches the query string
func (s *Service) Search(text string, limit int) ([]memory.IndexEntry, error) {
	pattern := "%" + text + "%"
	query := s.db.
		Where("summary LIKE ? OR command LIKE ?", pattern, pattern).
		Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []VaultMemory
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	return s.toEntries(models)
}

// Get returns the index entry for a single memory, or nil if not indexed
func (s *Service) Get(sessionID, nodeID string) (*memory.IndexEntry, error) {
	var model VaultMemory
	err := s.db.Where("session_id = ? AND node_id = ?", sessionID, nodeID).
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up index entry: %w", err)
	}

	tags, err := s.tagsFor(model.ID)
	if err != nil {
		return nil, err
	}
	entry := model.ToEntry(tags)
	return &entry, nil
}

// RecordUsage registers a retrieval event for a memory and returns the new
// usage state
func (s *Service) RecordUsage(sessionID, nodeID string) (*memory.UsageTracking, error) {
	return s.RecordUsageAt(sessionID, nodeID, time.Now())
}

// RecordUsageAt is RecordUsage with an explicit event time
func (s *Service) RecordUsageAt(sessionID, nodeID string, now time.Time) (*memory.UsageTracking, error) {
	var model VaultMemory
	err := s.db.Where("session_id = ? AND node_id = ?", sessionID, nodeID).
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("memory %s/%s is not indexed", nodeID, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up index entry: %w", err)
	}

	updated := ranking.UpdateUsageTrackingAt(model.Usage(), now)
	model.SetUsage(updated)

	if err := s.db.Model(&model).Updates(map[string]interface{}{
		"times_used":   model.TimesUsed,
		"last_used_at": model.LastUsedAt,
		"access_trend": model.AccessTrend,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to record usage: %w", err)
	}

	return &updated, nil
}

// SaveQuality stores a quality score for a memory
func (s *Service) SaveQuality(sessionID, nodeID string, score memory.QualityScore) error {
	var model VaultMemory
	err := s.db.Where("session_id = ? AND node_id = ?", sessionID, nodeID).
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("memory %s/%s is not indexed", nodeID, sessionID)
	}
	if err != nil {
		return fmt.Errorf("failed to look up index entry: %w", err)
	}

	model.SetQuality(score)
	if err := s.db.Model(&model).Updates(map[string]interface{}{
		"quality_overall":      model.QualityOverall,
		"quality_completeness": model.QualityCompleteness,
		"quality_accuracy":     model.QualityAccuracy,
		"quality_relevance":    model.QualityRelevance,
	}).Error; err != nil {
		return fmt.Errorf("failed to save quality score: %w", err)
	}
	return nil
}

// Unscored returns entries that have no quality score yet
func (s *Service) Unscored(limit int) ([]memory.IndexEntry, error) {
	query := s.db.Where("quality_overall IS NULL").Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []VaultMemory
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query unscored entries: %w", err)
	}
	return s.toEntries(models)
}

// Remove deletes the index entry for a memory, leaving the file untouched
func (s *Service) Remove(sessionID, nodeID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var model VaultMemory
		err := tx.Where("session_id = ? AND node_id = ?", sessionID, nodeID).
			First(&model).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up index entry: %w", err)
		}

		if err := tx.Where("memory_id = ?", model.ID).Delete(&VaultMemoryTag{}).Error; err != nil {
			return fmt.Errorf("failed to remove tag links: %w", err)
		}
		if err := tx.Delete(&model).Error; err != nil {
			return fmt.Errorf("failed to remove index entry: %w", err)
		}
		return nil
	})
}

// Clear drops every entry and tag link. Used before a full rebuild.
func (s *Service) Clear() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&VaultMemoryTag{}).Error; err != nil {
			return fmt.Errorf("failed to clear tag links: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&VaultMemory{}).Error; err != nil {
			return fmt.Errorf("failed to clear index entries: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&VaultTag{}).Error; err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}
		return nil
	})
}

// Count returns the number of indexed memories
func (s *Service) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&VaultMemory{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count index entries: %w", err)
	}
	return count, nil
}

// toEntries converts models to engine entries, attaching tags
func (s *Service) toEntries(models []VaultMemory) ([]memory.IndexEntry, error) {
	entries := make([]memory.IndexEntry, 0, len(models))
	for i := range models {
		tags, err := s.tagsFor(models[i].ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models[i].ToEntry(tags))
	}
	return entries, nil
}

// tagsFor returns the tag names linked to a memory
func (s *Service) tagsFor(memoryID uint) ([]string, error) {
	var names []string
	err := s.db.Model(&VaultTag{}).
		Joins("JOIN vault_memory_tags ON vault_memory_tags.tag_id = vault_tags.id").
		Where("vault_memory_tags.memory_id = ?", memoryID).
		Order("vault_tags.name").
		Pluck("vault_tags.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	return names, nil
}
