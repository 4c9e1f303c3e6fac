// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/muninn-mcp/internal/config"
	"github.com/tejzpr/muninn-mcp/internal/tools"
	"gorm.io/gorm"
)

// MCPServer wraps the mcp-go server with our configuration
type MCPServer struct {
	mcpServer *server.MCPServer
	config    *config.Config
	db        *gorm.DB
	toolCtx   *tools.ToolContext
}

// NewMCPServer creates a new MCP server instance with all tools registered
func NewMCPServer(cfg *config.Config, db *gorm.DB) (*MCPServer, error) {
	mcpServer := server.NewMCPServer(
		"Muninn",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	toolCtx := tools.NewToolContext(db, cfg)

	// muninn_remember: store a session memory - "Keep this for next time"
	mcpServer.AddTool(tools.NewRememberTool(), tools.RememberHandler(toolCtx))

	// muninn_recall: ranked retrieval - "What do I know about X?"
	mcpServer.AddTool(tools.NewRecallTool(), tools.RecallHandler(toolCtx))

	// muninn_suggest: context priming - "What should I know before starting?"
	mcpServer.AddTool(tools.NewSuggestTool(), tools.SuggestHandler(toolCtx))

	return &MCPServer{
		mcpServer: mcpServer,
		config:    cfg,
		db:        db,
		toolCtx:   toolCtx,
	}, nil
}

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ToolContext returns the shared tool context
func (s *MCPServer) ToolContext() *tools.ToolContext {
	return s.toolCtx
}
