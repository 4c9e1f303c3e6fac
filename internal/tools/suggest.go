// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"github.com/tejzpr/muninn-mcp/internal/ranking"
)

// DefaultSuggestBudget bounds the context block when no max_chars is given
const DefaultSuggestBudget = 4000

// NewSuggestTool creates the muninn_suggest tool definition
func NewSuggestTool() mcp.Tool {
	return mcp.NewTool("muninn_suggest",
		mcp.WithDescription("Assemble a context block for a node from its best memories. Picks the top-ranked memories that pass the quality threshold and packs their summaries into a character budget. Use at session start to prime context."),
		mcp.WithString("node_id",
			mcp.Required(),
			mcp.Description("Node to assemble context for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max memories to consider. Default: 3"),
		),
		mcp.WithNumber("max_chars",
			mcp.Description("Character budget for the context block. Default: 4000"),
		),
	)
}

// SuggestHandler handles the muninn_suggest tool
func SuggestHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		nodeID, err := request.RequireString("node_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := int(request.GetFloat("limit", float64(ranking.DefaultTopLimit)))
		maxChars := int(request.GetFloat("max_chars", float64(DefaultSuggestBudget)))
		if maxChars <= 0 {
			maxChars = DefaultSuggestBudget
		}

		entries, err := ctx.Index.QueryByNode(nodeID, 0)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to query index: %v", err)), nil
		}

		top := ranking.LoadTopMemories(entries, limit, ctx.Config.Ranking)
		if len(top) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No memories found for node '%s'.", nodeID)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Context from %d past sessions:\n", len(top)))

		used := sb.Len()
		included := 0
		for _, entry := range top {
			block := formatSuggestBlock(ctx, entry)
			if used+len(block) > maxChars {
				break
			}
			sb.WriteString(block)
			used += len(block)
			included++

			if _, err := ctx.Index.RecordUsage(entry.SessionID, entry.NodeID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to record usage: %v", err)), nil
			}
		}

		if included == 0 {
			return mcp.NewToolResultText("No memories fit within the character budget."), nil
		}

		return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
	}
}

// formatSuggestBlock renders one memory for the context block. Prefers the
// summary; falls back to Learnings and Key Results when no summary exists.
func formatSuggestBlock(ctx *ToolContext, entry memory.IndexEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n## Session %s (%s)\n", entry.SessionID, entry.Timestamp.Format("2006-01-02")))
	if entry.Command != "" {
		sb.WriteString(fmt.Sprintf("Command: %s\n", entry.Command))
	}

	if entry.Summary != "" {
		sb.WriteString(entry.Summary + "\n")
		return sb.String()
	}

	mem, err := ctx.Store.LoadFile(entry.FilePath)
	if err != nil {
		return sb.String()
	}
	if mem.Learnings != "" {
		sb.WriteString("Learnings: " + mem.Learnings + "\n")
	}
	if mem.KeyResults != "" {
		sb.WriteString("Key Results: " + mem.KeyResults + "\n")
	}
	return sb.String()
}
