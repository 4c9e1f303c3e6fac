// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Organizer maps memories to file paths inside the vault directory. Layout is
// date-partitioned with a node subfolder: <vault>/<year>/<month>/<node>/<slug>.md
type Organizer struct {
	vaultPath string
}

// NewOrganizer creates a new organizer rooted at the vault path.
func NewOrganizer(vaultPath string) *Organizer {
	return &Organizer{vaultPath: vaultPath}
}

// VaultPath returns the vault root directory.
func (o *Organizer) VaultPath() string {
	return o.vaultPath
}

// MemoryPath determines the file path for a session memory.
func (o *Organizer) MemoryPath(mem *SessionMemory) string {
	year := mem.Created.Format("2006")
	month := mem.Created.Format("01")

	node := Slugify(mem.NodeName)
	if node == "" {
		node = Slugify(mem.NodeID)
	}
	if node == "" {
		node = "unfiled"
	}

	filename := fmt.Sprintf("%s.md", MemorySlug(mem))
	return filepath.Join(o.vaultPath, year, month, node, filename)
}

// ParsePathForNode extracts the node folder from a memory file path.
func ParsePathForNode(vaultPath, filePath string) (string, error) {
	relPath, err := filepath.Rel(vaultPath, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}

	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) < 4 {
		return "", fmt.Errorf("path does not follow vault layout: %s", relPath)
	}

	return parts[2], nil
}

// EnsureDirectoryExists creates the directory for a file path if it doesn't exist
func EnsureDirectoryExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
