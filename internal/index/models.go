// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package index

import (
	"time"

	"github.com/tejzpr/muninn-mcp/internal/memory"
)

// VaultMemory is the indexed view of a session memory. Quality columns are
// nullable so "never scored" stays distinguishable from a zero score; usage
// columns default to the never-used state.
type VaultMemory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"index;not null" json:"session_id"`
	NodeID    string    `gorm:"index;not null" json:"node_id"`
	NodeName  string    `gorm:"not null" json:"node_name"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	Command   string    `gorm:"type:text" json:"command"`
	Summary   string    `gorm:"type:text" json:"summary"`
	FilePath  string    `gorm:"not null" json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Quality columns; nil until computed or supplied.
	QualityOverall      *float64 `gorm:"column:quality_overall" json:"quality_overall,omitempty"`
	QualityCompleteness *float64 `gorm:"column:quality_completeness" json:"quality_completeness,omitempty"`
	QualityAccuracy     *float64 `gorm:"column:quality_accuracy" json:"quality_accuracy,omitempty"`
	QualityRelevance    *float64 `gorm:"column:quality_relevance" json:"quality_relevance,omitempty"`

	// Usage columns, mutated only on retrieval events.
	TimesUsed   int        `gorm:"column:times_used;default:0" json:"times_used"`
	LastUsedAt  *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	AccessTrend string     `gorm:"column:access_trend;default:stable" json:"access_trend"`
}

// TableName specifies the table name for VaultMemory
func (VaultMemory) TableName() string {
	return "vault_memories"
}

// VaultTag represents a tag that can be applied to memories
type VaultTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for VaultTag
func (VaultTag) TableName() string {
	return "vault_tags"
}

// VaultMemoryTag represents the many-to-many relationship between memories and tags
type VaultMemoryTag struct {
	MemoryID uint `gorm:"primaryKey" json:"memory_id"`
	TagID    uint `gorm:"primaryKey" json:"tag_id"`

	// Foreign key relationships
	Memory VaultMemory `gorm:"foreignKey:MemoryID;constraint:OnDelete:CASCADE" json:"-"`
	Tag    VaultTag    `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for VaultMemoryTag
func (VaultMemoryTag) TableName() string {
	return "vault_memory_tags"
}

// Quality returns the stored quality score, or nil if never computed.
func (m *VaultMemory) Quality() *memory.QualityScore {
	if m.QualityOverall == nil {
		return nil
	}
	score := memory.QualityScore{Overall: *m.QualityOverall}
	if m.QualityCompleteness != nil {
		score.Completeness = *m.QualityCompleteness
	}
	if m.QualityAccuracy != nil {
		score.Accuracy = *m.QualityAccuracy
	}
	if m.QualityRelevance != nil {
		score.RelevanceToCommand = *m.QualityRelevance
	}
	return &score
}

// Usage returns the stored usage tracking, or nil if never accessed.
func (m *VaultMemory) Usage() *memory.UsageTracking {
	if m.TimesUsed == 0 && m.LastUsedAt == nil {
		return nil
	}
	trend := m.AccessTrend
	if trend == "" {
		trend = memory.TrendStable
	}
	return &memory.UsageTracking{
		TimesUsed:   m.TimesUsed,
		LastUsed:    m.LastUsedAt,
		AccessTrend: trend,
	}
}

// ToEntry converts the model into the engine's index entry view.
func (m *VaultMemory) ToEntry(tags []string) memory.IndexEntry {
	return memory.IndexEntry{
		SessionID: m.SessionID,
		NodeID:    m.NodeID,
		NodeName:  m.NodeName,
		Timestamp: m.Timestamp,
		Command:   m.Command,
		Summary:   m.Summary,
		Tags:      tags,
		FilePath:  m.FilePath,
		Quality:   m.Quality(),
		Usage:     m.Usage(),
	}
}

// SetQuality stores a quality score on the model.
func (m *VaultMemory) SetQuality(score memory.QualityScore) {
	m.QualityOverall = &score.Overall
	m.QualityCompleteness = &score.Completeness
	m.QualityAccuracy = &score.Accuracy
	m.QualityRelevance = &score.RelevanceToCommand
}

// SetUsage stores usage tracking on the model.
func (m *VaultMemory) SetUsage(usage memory.UsageTracking) {
	m.TimesUsed = usage.TimesUsed
	m.LastUsedAt = usage.LastUsed
	m.AccessTrend = usage.AccessTrend
}
