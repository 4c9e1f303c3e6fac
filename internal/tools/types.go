// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tools implements the MCP tools exposed by the Muninn server:
// muninn_remember stores session memories, muninn_recall retrieves them
// ranked by recency, quality, and usage, and muninn_suggest assembles a
// bounded context block for a node.
package tools

import (
	"github.com/tejzpr/muninn-mcp/internal/config"
	"github.com/tejzpr/muninn-mcp/internal/git"
	"github.com/tejzpr/muninn-mcp/internal/index"
	"github.com/tejzpr/muninn-mcp/internal/locking"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"gorm.io/gorm"
)

// AgentID identifies this server's writes in the lock table
const AgentID = "muninn-server"

// ToolContext holds shared dependencies for all tools
type ToolContext struct {
	DB     *gorm.DB
	Index  *index.Service
	Store  *memory.Store
	Locker *locking.Locker
	Config *config.Config
}

// NewToolContext creates a new tool context
func NewToolContext(db *gorm.DB, cfg *config.Config) *ToolContext {
	return &ToolContext{
		DB:     db,
		Index:  index.NewService(db),
		Store:  memory.NewStore(cfg.Vault.Path),
		Locker: locking.NewLocker(db),
		Config: cfg,
	}
}

// GetRepository opens the vault git repository
func (tc *ToolContext) GetRepository() (*git.Repository, error) {
	return git.OpenRepository(tc.Config.Vault.Path)
}

// GitEnabled returns true if vault commits are enabled
func (tc *ToolContext) GitEnabled() bool {
	return tc.Config.Vault.GitEnabled
}
