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

// NewRecallTool creates the muninn_recall tool definition
func NewRecallTool() mcp.Tool {
	return mcp.NewTool("muninn_recall",
		mcp.WithDescription("Retrieve session memories ranked by recency, quality, and usage. Filter by node, tags, or free text. Returns the top memories with their full content; retrieval is recorded so frequently-used memories rank higher over time."),
		mcp.WithString("node_id",
			mcp.Description("Limit results to memories of this node"),
		),
		mcp.WithArray("tags",
			mcp.Description("Limit results to memories carrying any of these tags"),
		),
		mcp.WithString("search",
			mcp.Description("Free-text match against summaries and commands"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results. Default: 3"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Include the full memory content, not just the index entry (default: true)"),
		),
	)
}

// RecallHandler handles the muninn_recall tool
func RecallHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		nodeID := request.GetString("node_id", "")
		tags := request.GetStringSlice("tags", []string{})
		search := request.GetString("search", "")
		limit := int(request.GetFloat("limit", float64(ranking.DefaultTopLimit)))
		includeContent := request.GetBool("include_content", true)

		entries, err := gatherEntries(ctx, nodeID, tags, search)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to query index: %v", err)), nil
		}

		top := ranking.LoadTopMemories(entries, limit, ctx.Config.Ranking)
		if len(top) == 0 {
			return mcp.NewToolResultText("No memories found."), nil
		}

		// Record the retrieval so usage feeds back into future rankings
		for _, entry := range top {
			if _, err := ctx.Index.RecordUsage(entry.SessionID, entry.NodeID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to record usage: %v", err)), nil
			}
		}

		output := formatRecallResults(ctx, top, includeContent)
		return mcp.NewToolResultText(output), nil
	}
}

// gatherEntries fetches candidate entries using the narrowest available filter
func gatherEntries(ctx *ToolContext, nodeID string, tags []string, search string) ([]memory.IndexEntry, error) {
	switch {
	case nodeID != "":
		entries, err := ctx.Index.QueryByNode(nodeID, 0)
		if err != nil {
			return nil, err
		}
		return intersect(entries, tags, search), nil
	case len(tags) > 0:
		entries, err := ctx.Index.QueryByTags(tags, 0)
		if err != nil {
			return nil, err
		}
		return intersect(entries, nil, search), nil
	case search != "":
		return ctx.Index.Search(search, 0)
	default:
		return ctx.Index.GetAllEntries(0)
	}
}

// intersect narrows entries by the remaining tag and search filters
func intersect(entries []memory.IndexEntry, tags []string, search string) []memory.IndexEntry {
	if len(tags) == 0 && search == "" {
		return entries
	}

	filtered := make([]memory.IndexEntry, 0, len(entries))
	for _, entry := range entries {
		if len(tags) > 0 && !hasAnyTag(entry.Tags, tags) {
			continue
		}
		if search != "" && !matchesText(entry, search) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func hasAnyTag(entryTags, wanted []string) bool {
	for _, tag := range entryTags {
		for _, w := range wanted {
			if tag == w {
				return true
			}
		}
	}
	return false
}

func matchesText(entry memory.IndexEntry, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(entry.Summary), needle) ||
		strings.Contains(strings.ToLower(entry.Command), needle)
}

// formatRecallResults renders ranked entries for the tool response
func formatRecallResults(ctx *ToolContext, entries []memory.IndexEntry, includeContent bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d memories:\n\n", len(entries)))

	for i, entry := range entries {
		score := ranking.MemoryRankingScore(entry, ctx.Config.Ranking)
		sb.WriteString(fmt.Sprintf("## %d. %s / %s (score %.3f)\n", i+1, entry.NodeName, entry.SessionID, score))
		sb.WriteString(fmt.Sprintf("Created: %s\n", entry.Timestamp.Format("2006-01-02 15:04")))
		if entry.Command != "" {
			sb.WriteString(fmt.Sprintf("Command: %s\n", entry.Command))
		}
		if entry.Summary != "" {
			sb.WriteString(fmt.Sprintf("Summary: %s\n", entry.Summary))
		}
		if len(entry.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(entry.Tags, ", ")))
		}
		if entry.Quality != nil {
			sb.WriteString(fmt.Sprintf("Quality: %.2f\n", entry.Quality.Overall))
		}

		if includeContent {
			mem, err := ctx.Store.LoadFile(entry.FilePath)
			if err != nil {
				sb.WriteString(fmt.Sprintf("(content unavailable: %v)\n", err))
			} else {
				sb.WriteString("\n")
				sb.WriteString(renderSections(mem))
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderSections renders the non-empty body sections of a memory
func renderSections(mem *memory.SessionMemory) string {
	var sb strings.Builder
	names := []string{"Title", "Current State", "Task Spec", "Workflow", "Errors", "Learnings", "Key Results"}
	for i, content := range mem.Sections() {
		if strings.TrimSpace(content) == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n%s\n", names[i], content))
	}
	return sb.String()
}
