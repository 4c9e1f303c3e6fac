// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store persists session memories as markdown files in the vault directory.
// It owns the storage layout; callers hand it plain records and get paths back.
type Store struct {
	organizer *Organizer
}

// NewStore creates a store rooted at the vault path.
func NewStore(vaultPath string) *Store {
	return &Store{organizer: NewOrganizer(vaultPath)}
}

// VaultPath returns the vault root directory.
func (s *Store) VaultPath() string {
	return s.organizer.VaultPath()
}

// Save writes a session memory to its canonical path and returns that path.
func (s *Store) Save(mem *SessionMemory) (string, error) {
	if mem.SessionID == "" || mem.NodeID == "" {
		return "", fmt.Errorf("session id and node id are required")
	}

	content, err := mem.ToMarkdown()
	if err != nil {
		return "", fmt.Errorf("failed to render memory: %w", err)
	}

	path := s.organizer.MemoryPath(mem)
	if err := EnsureDirectoryExists(path); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write memory file: %w", err)
	}

	return path, nil
}

// LoadFile reads and parses a single memory file.
func (s *Store) LoadFile(path string) (*SessionMemory, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory file: %w", err)
	}

	mem, err := ParseMarkdown(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return mem, nil
}

// Resolve finds the full record for a (sessionID, nodeID) pair by walking the
// vault. Used for on-demand quality computation when the index has no score.
func (s *Store) Resolve(sessionID, nodeID string) (*SessionMemory, error) {
	suffix := fmt.Sprintf("-%s.md", Slugify(sessionID))

	var found *SessionMemory
	err := filepath.WalkDir(s.organizer.VaultPath(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if !strings.HasSuffix(filepath.Base(path), suffix) {
			return nil
		}

		mem, parseErr := s.LoadFile(path)
		if parseErr != nil {
			// Skip unparseable files; the rebuild command reports them.
			return nil
		}
		if mem.SessionID == sessionID && mem.NodeID == nodeID {
			found = mem
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}

	if found == nil {
		return nil, fmt.Errorf("memory not found for session %s node %s", sessionID, nodeID)
	}
	return found, nil
}

// ListFiles returns all memory markdown files in the vault.
func (s *Store) ListFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.organizer.VaultPath(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip the git internals
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".md") && filepath.Base(path) != "README.md" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}
	return files, nil
}
