// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tejzpr/muninn-mcp/internal/database"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"github.com/tejzpr/muninn-mcp/internal/ranking"
)

// HTTPServer exposes read-only inspection routes next to the MCP endpoint
type HTTPServer struct {
	mcpServer *MCPServer
}

// NewHTTPServer creates a new HTTP server
func NewHTTPServer(mcpServer *MCPServer) *HTTPServer {
	return &HTTPServer{mcpServer: mcpServer}
}

// RegisterRoutes registers all HTTP routes
func (h *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/api/memories", h.HandleMemories)
}

// HandleHealth reports server and database health
func (h *HTTPServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
	}
	code := http.StatusOK

	if err := database.Ping(h.mcpServer.db); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	count, err := h.mcpServer.toolCtx.Index.Count()
	if err == nil {
		status["memories"] = count
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status) //nolint:errcheck
}

// memoryView is the JSON shape returned by /api/memories
type memoryView struct {
	memory.IndexEntry
	Score float64 `json:"score"`
}

// HandleMemories returns indexed memories ranked for retrieval.
// Query params: node_id, limit.
func (h *HTTPServer) HandleMemories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	nodeID := r.URL.Query().Get("node_id")
	limit := ranking.DefaultTopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	idx := h.mcpServer.toolCtx.Index
	var entries []memory.IndexEntry
	var err error
	if nodeID != "" {
		entries, err = idx.QueryByNode(nodeID, 0)
	} else {
		entries, err = idx.GetAllEntries(0)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cfg := h.mcpServer.config.Ranking
	top := ranking.LoadTopMemories(entries, limit, cfg)

	views := make([]memoryView, 0, len(top))
	for _, entry := range top {
		views = append(views, memoryView{
			IndexEntry: entry,
			Score:      ranking.MemoryRankingScore(entry, cfg),
		})
	}

	writeJSON(w, views)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
