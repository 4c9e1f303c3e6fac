// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scheduler runs the periodic quality sweep: any indexed memory
// without a quality score gets scored from its file content, so entries
// indexed before scoring was enabled still end up ranked by quality.
package scheduler

import (
	"log"
	"time"

	"github.com/tejzpr/muninn-mcp/internal/index"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"github.com/tejzpr/muninn-mcp/internal/ranking"
)

// sweepBatchSize bounds how many entries one sweep scores
const sweepBatchSize = 100

// Scheduler handles the periodic quality sweep
type Scheduler struct {
	index    *index.Service
	store    *memory.Store
	weights  ranking.VaultTypeQualityWeights
	interval time.Duration
	stopChan chan bool
}

// NewScheduler creates a new scheduler
func NewScheduler(idx *index.Service, store *memory.Store, weights ranking.VaultTypeQualityWeights, intervalMinutes int) *Scheduler {
	return &Scheduler{
		index:    idx,
		store:    store,
		weights:  weights,
		interval: time.Duration(intervalMinutes) * time.Minute,
		stopChan: make(chan bool),
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.SweepOnce()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.stopChan <- true
}

// SweepOnce scores one batch of unscored entries and returns how many it
// scored. Exposed so the sweep can also run on demand.
func (s *Scheduler) SweepOnce() int {
	entries, err := s.index.Unscored(sweepBatchSize)
	if err != nil {
		log.Printf("Quality sweep: failed to fetch unscored entries: %v", err)
		return 0
	}

	scored := 0
	for _, entry := range entries {
		mem, err := s.store.LoadFile(entry.FilePath)
		if err != nil {
			log.Printf("Quality sweep: failed to load %s: %v", entry.FilePath, err)
			continue
		}

		score := ranking.AutoCalculateQualityScore(mem, s.weights)
		if err := s.index.SaveQuality(entry.SessionID, entry.NodeID, score); err != nil {
			log.Printf("Quality sweep: failed to save score for %s/%s: %v", entry.NodeID, entry.SessionID, err)
			continue
		}
		scored++
	}

	if scored > 0 {
		log.Printf("Quality sweep: scored %d memories", scored)
	}
	return scored
}
