// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/muninn-mcp/internal/git"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"github.com/tejzpr/muninn-mcp/internal/ranking"
)

// NewRememberTool creates the muninn_remember tool definition
func NewRememberTool() mcp.Tool {
	return mcp.NewTool("muninn_remember",
		mcp.WithDescription("Store a session memory in the vault. Saves the memory as a markdown file, commits it to the vault history, indexes it for retrieval, and scores its quality. Saving again with the same session_id and node_id updates the existing memory."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Unique identifier of the session this memory belongs to"),
		),
		mcp.WithString("node_id",
			mcp.Required(),
			mcp.Description("Identifier of the node (project, workspace, agent) the session ran against"),
		),
		mcp.WithString("node_name",
			mcp.Required(),
			mcp.Description("Human-readable node name, used in the vault file layout"),
		),
		mcp.WithString("command",
			mcp.Description("The command or request that started the session"),
		),
		mcp.WithString("summary",
			mcp.Description("Short summary of what happened in the session"),
		),
		mcp.WithArray("tags",
			mcp.Description("Labels for organization and tag-based recall"),
		),
		mcp.WithString("title",
			mcp.Description("Title section of the memory"),
		),
		mcp.WithString("current_state",
			mcp.Description("Current State section: where things stand now"),
		),
		mcp.WithString("task_spec",
			mcp.Description("Task Spec section: what was asked"),
		),
		mcp.WithString("workflow",
			mcp.Description("Workflow section: the steps taken"),
		),
		mcp.WithString("errors",
			mcp.Description("Errors section: what went wrong and how it was handled"),
		),
		mcp.WithString("learnings",
			mcp.Description("Learnings section: insights worth keeping"),
		),
		mcp.WithString("key_results",
			mcp.Description("Key Results section: concrete outcomes"),
		),
	)
}

// RememberHandler handles the muninn_remember tool
func RememberHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		nodeID, err := request.RequireString("node_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		nodeName, err := request.RequireString("node_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		mem := &memory.SessionMemory{
			SessionID:    sessionID,
			NodeID:       nodeID,
			NodeName:     nodeName,
			Created:      time.Now(),
			Command:      request.GetString("command", ""),
			Summary:      request.GetString("summary", ""),
			Tags:         request.GetStringSlice("tags", []string{}),
			Title:        request.GetString("title", ""),
			CurrentState: request.GetString("current_state", ""),
			TaskSpec:     request.GetString("task_spec", ""),
			Workflow:     request.GetString("workflow", ""),
			Errors:       request.GetString("errors", ""),
			Learnings:    request.GetString("learnings", ""),
			KeyResults:   request.GetString("key_results", ""),
		}

		// Preserve the original creation time on update
		if existing, err := ctx.Index.Get(sessionID, nodeID); err == nil && existing != nil {
			mem.Created = existing.Timestamp
		}

		slug := memory.MemorySlug(mem)
		if err := memory.ValidateSlug(slug); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid memory slug: %v", err)), nil
		}

		quality := ranking.AutoCalculateQualityScore(mem, ctx.Config.VaultWeights())

		var filePath string
		err = ctx.Locker.WithLock(slug, AgentID, func() error {
			path, err := ctx.Store.Save(mem)
			if err != nil {
				return fmt.Errorf("failed to save memory file: %w", err)
			}
			filePath = path

			if ctx.GitEnabled() {
				repo, err := git.EnsureRepository(ctx.Store.VaultPath())
				if err != nil {
					return fmt.Errorf("failed to open vault repository: %w", err)
				}
				msg := git.CommitMessageFormats{}.SaveMemory(slug)
				if err := repo.CommitFile(path, msg); err != nil {
					return fmt.Errorf("failed to commit memory: %w", err)
				}
			}

			if err := ctx.Index.Add(mem, filePath, &quality); err != nil {
				return fmt.Errorf("failed to index memory: %w", err)
			}
			return nil
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := fmt.Sprintf("Memory saved: %s\nFile: %s\nQuality: %.2f (completeness %.2f, accuracy %.2f, relevance %.2f)",
			slug, filePath, quality.Overall, quality.Completeness, quality.Accuracy, quality.RelevanceToCommand)
		return mcp.NewToolResultText(result), nil
	}
}
