// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/muninn-mcp/internal/config"
	"github.com/tejzpr/muninn-mcp/internal/index"
	"github.com/tejzpr/muninn-mcp/internal/locking"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestHTTPServer(t *testing.T) (*HTTPServer, *MCPServer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&index.VaultMemory{}, &index.VaultTag{}, &index.VaultMemoryTag{}))
	require.NoError(t, locking.MigrateLocks(db))

	cfg := config.DefaultConfig()
	cfg.Vault.Path = t.TempDir()
	cfg.Vault.GitEnabled = false

	mcpSrv, err := NewMCPServer(cfg, db)
	require.NoError(t, err)

	return NewHTTPServer(mcpSrv), mcpSrv
}

func seedEntries(t *testing.T, srv *MCPServer, count int) {
	t.Helper()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		mem := &memory.SessionMemory{
			SessionID: "sess-" + string(rune('a'+i)),
			NodeID:    "node-1",
			NodeName:  "API Node",
			Created:   base.AddDate(0, 0, i),
			Summary:   "Session summary",
		}
		require.NoError(t, srv.toolCtx.Index.Add(mem, "/vault/x.md", nil))
	}
}

func TestHandleHealth(t *testing.T) {
	httpSrv, _ := newTestHTTPServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	httpSrv.HandleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
}

func TestHandleMemories(t *testing.T) {
	httpSrv, mcpSrv := newTestHTTPServer(t)
	seedEntries(t, mcpSrv, 5)

	req := httptest.NewRequest(http.MethodGet, "/api/memories?node_id=node-1&limit=2", nil)
	rec := httptest.NewRecorder()
	httpSrv.HandleMemories(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var views []memoryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)

	// Ranked descending
	assert.GreaterOrEqual(t, views[0].Score, views[1].Score)
}

func TestHandleMemories_BadLimit(t *testing.T) {
	httpSrv, _ := newTestHTTPServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/memories?limit=zero", nil)
	rec := httptest.NewRecorder()
	httpSrv.HandleMemories(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMemories_MethodNotAllowed(t *testing.T) {
	httpSrv, _ := newTestHTTPServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/memories", nil)
	rec := httptest.NewRecorder()
	httpSrv.HandleMemories(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
