// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRepository(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	repo, err := InitRepository(repoPath)
	require.NoError(t, err)
	assert.NotNil(t, repo)
	assert.Equal(t, repoPath, repo.Path)

	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenRepository(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	_, err := InitRepository(repoPath)
	require.NoError(t, err)

	repo, err := OpenRepository(repoPath)
	require.NoError(t, err)
	assert.NotNil(t, repo)
	assert.Equal(t, repoPath, repo.Path)
}

func TestOpenRepository_NotExist(t *testing.T) {
	tempDir := t.TempDir()

	_, err := OpenRepository(filepath.Join(tempDir, "nonexistent"))
	assert.Error(t, err)
}

func TestEnsureRepository_Initializes(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	repo, err := EnsureRepository(repoPath)
	require.NoError(t, err)

	// README committed as the initial commit
	_, err = os.Stat(filepath.Join(repoPath, "README.md"))
	assert.NoError(t, err)

	commit, err := repo.GetLastCommit()
	require.NoError(t, err)
	assert.Equal(t, CommitMessageFormats{}.InitialCommit(), commit.Message)

	clean, err := repo.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)
}

func TestEnsureRepository_OpensExisting(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	_, err := EnsureRepository(repoPath)
	require.NoError(t, err)

	// Second call opens the same repository without a new commit
	repo, err := EnsureRepository(repoPath)
	require.NoError(t, err)

	commits, err := repo.GetCommitHistory(0)
	require.NoError(t, err)
	assert.Len(t, commits, 1)
}

func TestIsClean(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	repo, err := InitRepository(repoPath)
	require.NoError(t, err)

	clean, err := repo.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)

	testFile := filepath.Join(repoPath, "test.md")
	require.NoError(t, os.WriteFile(testFile, []byte("test content"), 0644))

	clean, err = repo.IsClean()
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestCommitFile(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	repo, err := InitRepository(repoPath)
	require.NoError(t, err)

	testFile := filepath.Join(repoPath, "memory.md")
	require.NoError(t, os.WriteFile(testFile, []byte("# Memory\n"), 0644))

	msg := CommitMessageFormats{}.SaveMemory("test-node-abc123")
	require.NoError(t, repo.CommitFile(testFile, msg))

	commit, err := repo.GetLastCommit()
	require.NoError(t, err)
	assert.Equal(t, msg, commit.Message)
	assert.Equal(t, "Muninn", commit.Author.Name)

	clean, err := repo.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)
}

func TestCommitFile_NoChanges(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	repo, err := InitRepository(repoPath)
	require.NoError(t, err)

	testFile := filepath.Join(repoPath, "memory.md")
	require.NoError(t, os.WriteFile(testFile, []byte("# Memory\n"), 0644))
	require.NoError(t, repo.CommitFile(testFile, "first"))

	// Committing again with nothing staged fails
	err = repo.CommitFile(testFile, "second")
	assert.Error(t, err)
}

func TestCommitAll(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	repo, err := InitRepository(repoPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "a.md"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "b.md"), []byte("b"), 0644))

	require.NoError(t, repo.CommitAll("chore: Rebuild vault"))

	clean, err := repo.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)
}

func TestGetCommitHistory(t *testing.T) {
	tempDir := t.TempDir()
	repoPath := filepath.Join(tempDir, "vault")

	repo, err := InitRepository(repoPath)
	require.NoError(t, err)

	for _, name := range []string{"one.md", "two.md", "three.md"} {
		path := filepath.Join(repoPath, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
		require.NoError(t, repo.CommitFile(path, "feat: Save memory '"+name+"'"))
	}

	commits, err := repo.GetCommitHistory(2)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	// Newest first
	assert.Contains(t, commits[0].Message, "three.md")
}
