// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import "time"

// SessionMemory is the full record of one past work session on a vault node.
// The seven text sections are optional; completeness scoring counts how many
// are filled.
type SessionMemory struct {
	SessionID string    `yaml:"session_id" json:"session_id"`
	NodeID    string    `yaml:"node_id" json:"node_id"`
	NodeName  string    `yaml:"node_name" json:"node_name"`
	Created   time.Time `yaml:"created" json:"created"`
	Command   string    `yaml:"command,omitempty" json:"command,omitempty"`
	Summary   string    `yaml:"summary,omitempty" json:"summary,omitempty"`
	Tags      []string  `yaml:"tags,omitempty" json:"tags,omitempty"`

	// Text sections, stored in the markdown body rather than frontmatter.
	Title        string `yaml:"-" json:"title,omitempty"`
	CurrentState string `yaml:"-" json:"current_state,omitempty"`
	TaskSpec     string `yaml:"-" json:"task_spec,omitempty"`
	Workflow     string `yaml:"-" json:"workflow,omitempty"`
	Errors       string `yaml:"-" json:"errors,omitempty"`
	Learnings    string `yaml:"-" json:"learnings,omitempty"`
	KeyResults   string `yaml:"-" json:"key_results,omitempty"`
}

// Sections returns the seven text sections in their canonical order.
func (m *SessionMemory) Sections() []string {
	return []string{
		m.Title,
		m.CurrentState,
		m.TaskSpec,
		m.Workflow,
		m.Errors,
		m.Learnings,
		m.KeyResults,
	}
}

// QualityScore holds the heuristic or human-supplied quality estimate for a
// memory. All fields are in [0,1].
type QualityScore struct {
	Overall            float64 `yaml:"overall" json:"overall"`
	Completeness       float64 `yaml:"completeness" json:"completeness"`
	Accuracy           float64 `yaml:"accuracy" json:"accuracy"`
	RelevanceToCommand float64 `yaml:"relevance_to_command" json:"relevance_to_command"`
}

// AccessTrend constants for usage tracking
const (
	TrendStable     = "stable"
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
)

// UsageTracking records how often and how recently a memory was retrieved.
type UsageTracking struct {
	TimesUsed   int        `yaml:"times_used" json:"times_used"`
	LastUsed    *time.Time `yaml:"last_used,omitempty" json:"last_used,omitempty"`
	AccessTrend string     `yaml:"access_trend" json:"access_trend"`
}

// IndexEntry is the lightweight, indexed view of a memory that the ranking
// engine operates on. Quality and Usage are nil until computed or recorded,
// so "no data yet" stays distinguishable from a zero score.
type IndexEntry struct {
	SessionID string         `json:"session_id"`
	NodeID    string         `json:"node_id"`
	NodeName  string         `json:"node_name"`
	Timestamp time.Time      `json:"timestamp"`
	Command   string         `json:"command,omitempty"`
	Summary   string         `json:"summary,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	FilePath  string         `json:"file_path"`
	Quality   *QualityScore  `json:"quality,omitempty"`
	Usage     *UsageTracking `json:"usage,omitempty"`
}

// ValidAccessTrends returns all valid access trend values
func ValidAccessTrends() []string {
	return []string{TrendStable, TrendIncreasing, TrendDecreasing}
}

// IsValidAccessTrend checks if an access trend value is valid
func IsValidAccessTrend(trend string) bool {
	for _, valid := range ValidAccessTrends() {
		if trend == valid {
			return true
		}
	}
	return false
}
