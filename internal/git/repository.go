// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package git versions the memory vault with a local-only repository. Every
// saved memory becomes a commit, so the vault history doubles as an audit
// trail of what the engine knew and when.
package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps go-git repository operations for the vault
type Repository struct {
	Path string
	repo *git.Repository
}

// InitRepository initializes a new git repository at the vault path
func InitRepository(path string) (*Repository, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create repository directory: %w", err)
	}

	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize git repository: %w", err)
	}

	return &Repository{
		Path: path,
		repo: repo,
	}, nil
}

// OpenRepository opens an existing git repository
func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	return &Repository{
		Path: path,
		repo: repo,
	}, nil
}

// EnsureRepository opens the vault repository, initializing it with a README
// and an initial commit if it does not exist yet
func EnsureRepository(path string) (*Repository, error) {
	if repo, err := OpenRepository(path); err == nil {
		return repo, nil
	}

	repo, err := InitRepository(path)
	if err != nil {
		return nil, err
	}

	readmePath := filepath.Join(path, "README.md")
	if _, err := os.Stat(readmePath); os.IsNotExist(err) {
		content := "# Muninn Memory Vault\n\nSession memories organized by year/month/node. Managed by muninn-mcp.\n"
		if err := os.WriteFile(readmePath, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write vault README: %w", err)
		}
	}

	if err := repo.CommitFile(readmePath, CommitMessageFormats{}.InitialCommit()); err != nil {
		return nil, fmt.Errorf("failed to create initial commit: %w", err)
	}

	return repo, nil
}

// Status returns the status of the repository
func (r *Repository) Status() (git.Status, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return status, nil
}

// IsClean returns true if the repository has no uncommitted changes
func (r *Repository) IsClean() (bool, error) {
	status, err := r.Status()
	if err != nil {
		return false, err
	}
	return status.IsClean(), nil
}

// HasChanges returns true if there are uncommitted changes
func (r *Repository) HasChanges() (bool, error) {
	clean, err := r.IsClean()
	if err != nil {
		return false, err
	}
	return !clean, nil
}

// GetHeadCommit returns the current HEAD reference
func (r *Repository) GetHeadCommit() (*plumbing.Reference, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	return ref, nil
}

// GetRepo returns the underlying go-git repository
func (r *Repository) GetRepo() *git.Repository {
	return r.repo
}
