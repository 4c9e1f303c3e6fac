// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rebuild reconstructs the database index from the vault files. The
// markdown files are the source of truth, so the index can always be thrown
// away and rebuilt from disk.
package rebuild

import (
	"fmt"
	"log"

	"github.com/tejzpr/muninn-mcp/internal/index"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"github.com/tejzpr/muninn-mcp/internal/ranking"
)

// Options configures rebuild behavior
type Options struct {
	Force bool // Clear existing index data before rebuild
	// RecomputeQuality scores every memory during the rebuild instead of
	// leaving entries unscored for the background sweep.
	RecomputeQuality bool
	// Weights used when RecomputeQuality is set
	Weights ranking.VaultTypeQualityWeights
}

// Result contains statistics from the rebuild operation
type Result struct {
	FilesProcessed int
	EntriesCreated int
	EntriesSkipped int
	QualityScored  int
	Errors         []string
}

// RebuildIndex scans the vault and rebuilds the database index
func RebuildIndex(store *memory.Store, svc *index.Service, opts Options) (*Result, error) {
	result := &Result{}

	if err := handleExistingData(svc, opts); err != nil {
		return nil, err
	}

	files, err := store.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault: %w", err)
	}

	log.Printf("Found %d memory files to process", len(files))

	for _, filePath := range files {
		result.FilesProcessed++

		mem, err := store.LoadFile(filePath)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", filePath, err))
			continue
		}

		if mem.SessionID == "" || mem.NodeID == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: missing session_id or node_id", filePath))
			continue
		}

		// Keep the first file seen for a session/node pair
		existing, err := svc.Get(mem.SessionID, mem.NodeID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", filePath, err))
			continue
		}
		if existing != nil {
			log.Printf("Skipping already indexed memory: %s/%s", mem.NodeID, mem.SessionID)
			result.EntriesSkipped++
			continue
		}

		var quality *memory.QualityScore
		if opts.RecomputeQuality {
			score := ranking.AutoCalculateQualityScore(mem, opts.Weights)
			quality = &score
			result.QualityScored++
		}

		if err := svc.Add(mem, filePath, quality); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", filePath, err))
			continue
		}

		result.EntriesCreated++
	}

	return result, nil
}

// handleExistingData checks for existing entries and clears them if force is enabled
func handleExistingData(svc *index.Service, opts Options) error {
	count, err := svc.Count()
	if err != nil {
		return fmt.Errorf("failed to count existing entries: %w", err)
	}

	if count > 0 && !opts.Force {
		return fmt.Errorf("index contains %d existing entries. Use --force to clear and rebuild", count)
	}

	if opts.Force && count > 0 {
		log.Printf("Force rebuild: clearing %d existing entries...", count)
		if err := svc.Clear(); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}
	}

	return nil
}
