// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/muninn-mcp/internal/config"
	"github.com/tejzpr/muninn-mcp/internal/database"
	"github.com/tejzpr/muninn-mcp/internal/git"
	"github.com/tejzpr/muninn-mcp/internal/index"
	"github.com/tejzpr/muninn-mcp/internal/locking"
	"github.com/tejzpr/muninn-mcp/internal/memory"
	"github.com/tejzpr/muninn-mcp/internal/rebuild"
	"github.com/tejzpr/muninn-mcp/internal/server"
	"github.com/tejzpr/muninn-mcp/pkg/scheduler"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Version is set at build time via ldflags (e.g. -X main.Version={{.Version}}).
var Version string

func main() {
	// CRITICAL: MCP servers must ONLY output JSON-RPC to stdout
	// Redirect all logging to stderr
	log.SetOutput(os.Stderr)

	httpMode := flag.Bool("http", false, "Run in HTTP server mode (default: stdio for MCP)")
	rebuildDB := flag.Bool("rebuilddb", false, "Rebuild database index from the vault files")
	forceRebuild := flag.Bool("force", false, "Force rebuild (requires --rebuilddb)")
	rescoreQuality := flag.Bool("rescore", false, "Recompute quality scores during rebuild")
	dbType := flag.String("db-type", "", "Database type (sqlite or postgres)")
	dbPath := flag.String("db-path", "", "Database path (for sqlite)")
	dbDSN := flag.String("db-dsn", "", "Database DSN (for postgres)")
	vaultPath := flag.String("vault", "", "Path to the memory vault")
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", 0, "Server port (HTTP mode only)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Muninn MCP Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Server Mode:\n")
		fmt.Fprintf(os.Stderr, "  %s                    Start MCP server (stdio)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --http             Start HTTP server with inspection API\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nIndex Rebuild:\n")
		fmt.Fprintf(os.Stderr, "  %s --rebuilddb                  Rebuild index from vault files\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --rebuilddb --force          Clear and rebuild existing index\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --rebuilddb --rescore        Recompute quality scores while rebuilding\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DB_TYPE        Database type (sqlite or postgres)\n")
		fmt.Fprintf(os.Stderr, "  DB_PATH        SQLite database path\n")
		fmt.Fprintf(os.Stderr, "  DB_DSN         PostgreSQL connection string\n")
		fmt.Fprintf(os.Stderr, "  VAULT_PATH     Memory vault path\n")
		fmt.Fprintf(os.Stderr, "  PORT           Server port (HTTP mode only)\n")
	}

	flag.Parse()

	if *forceRebuild && !*rebuildDB {
		log.Fatal("ERROR: --force can only be used with --rebuilddb")
	}
	if *rescoreQuality && !*rebuildDB {
		log.Fatal("ERROR: --rescore can only be used with --rebuilddb")
	}
	if *rebuildDB && *httpMode {
		log.Fatal("ERROR: --rebuilddb and --http cannot be used together")
	}

	if *rebuildDB {
		log.Println("Starting Muninn index rebuild...")
	} else {
		log.Println("Starting Muninn MCP Server...")
	}

	// Load configuration
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config from %s: %v", *configPath, err)
		}
		log.Printf("Loaded configuration from %s", *configPath)
	} else {
		cfg, err = config.Load()
		if err != nil {
			log.Printf("Warning: Failed to load default config: %v", err)
			log.Println("Using built-in defaults")
			cfg = config.DefaultConfig()
		} else {
			log.Printf("Loaded configuration from ~/%s/config.json", config.DefaultConfigDir)
		}
	}

	applyEnvOverrides(cfg)
	applyCLIOverrides(cfg, *dbType, *dbPath, *dbDSN, *vaultPath, *port)

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Configuration: database=%s vault=%s vault_type=%s",
		cfg.Database.Type, cfg.Vault.Path, cfg.Vault.VaultType)

	// Connect database and run migrations
	dbCfg := &database.Config{
		Type:        cfg.Database.Type,
		SQLitePath:  cfg.Database.SQLitePath,
		PostgresDSN: cfg.Database.PostgresDSN,
		LogLevel:    logger.Silent, // CRITICAL: Silence GORM stdout output for MCP
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db) //nolint:errcheck

	log.Printf("Connected to database: %s", cfg.Database.Type)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := locking.MigrateLocks(db); err != nil {
		log.Fatalf("Failed to migrate lock table: %v", err)
	}
	if err := database.CreateIndexes(db); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	log.Println("Database migrations completed")

	// Initialize the vault repository up front when git is enabled
	if cfg.Vault.GitEnabled {
		if _, err := git.EnsureRepository(cfg.Vault.Path); err != nil {
			log.Fatalf("Failed to initialize vault repository: %v", err)
		}
		log.Printf("Vault repository ready at %s", cfg.Vault.Path)
	}

	// REBUILD MODE: Run rebuild and exit
	if *rebuildDB {
		runRebuildMode(cfg, db, *forceRebuild, *rescoreQuality)
		return
	}

	if *httpMode {
		log.Println("Running in HTTP server mode")
		runHTTPMode(cfg, db)
	} else {
		log.Println("Running in stdio mode (MCP)")
		runStdioMode(cfg, db)
	}
}

// runRebuildMode rebuilds the index from the vault and exits
func runRebuildMode(cfg *config.Config, db *gorm.DB, force, rescore bool) {
	store := memory.NewStore(cfg.Vault.Path)
	svc := indexService(db)

	opts := rebuild.Options{
		Force:            force,
		RecomputeQuality: rescore,
		Weights:          cfg.VaultWeights(),
	}

	result, err := rebuild.RebuildIndex(store, svc, opts)
	if err != nil {
		log.Fatalf("Rebuild failed: %v", err)
	}

	log.Println("Rebuild completed successfully")
	log.Printf("  Files processed:  %d", result.FilesProcessed)
	log.Printf("  Entries created:  %d", result.EntriesCreated)
	log.Printf("  Entries skipped:  %d", result.EntriesSkipped)
	log.Printf("  Quality scored:   %d", result.QualityScored)

	if len(result.Errors) > 0 {
		log.Printf("  Warnings: %d", len(result.Errors))
		for _, e := range result.Errors {
			log.Printf("    - %s", e)
		}
	}
}

// runStdioMode runs the server in stdio mode for MCP clients
func runStdioMode(cfg *config.Config, db *gorm.DB) {
	mcpServer, err := server.NewMCPServer(cfg, db)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	sched := startScheduler(cfg, db)
	if sched != nil {
		defer sched.Stop()
	}

	log.Println("MCP server ready (stdio mode) - 3 tools registered")

	if err := mcpserver.ServeStdio(mcpServer.GetMCPServer()); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}

// runHTTPMode runs the server with the HTTP inspection API
func runHTTPMode(cfg *config.Config, db *gorm.DB) {
	mcpServer, err := server.NewMCPServer(cfg, db)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	httpServer := server.NewHTTPServer(mcpServer)
	mux := http.NewServeMux()
	httpServer.RegisterRoutes(mux)

	sched := startScheduler(cfg, db)
	if sched != nil {
		defer sched.Stop()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("HTTP server starting on %s", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// startScheduler starts the background quality sweep when enabled
func startScheduler(cfg *config.Config, db *gorm.DB) *scheduler.Scheduler {
	if !cfg.Scheduler.Enabled {
		return nil
	}

	sched := scheduler.NewScheduler(
		indexService(db),
		memory.NewStore(cfg.Vault.Path),
		cfg.VaultWeights(),
		cfg.Scheduler.IntervalMinutes,
	)
	sched.Start()
	log.Printf("Quality sweep scheduler started (interval: %d minutes)", cfg.Scheduler.IntervalMinutes)
	return sched
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *config.Config) {
	if dbType := getEnv("DB_TYPE", "MUNINN_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
		log.Printf("Database type from ENV: %s", dbType)
	}

	if dbPath := getEnv("DB_PATH", "MUNINN_DB_PATH"); dbPath != "" {
		cfg.Database.SQLitePath = dbPath
		log.Printf("Database path from ENV")
	}

	if dbDSN := getEnv("DB_DSN", "MUNINN_DB_DSN"); dbDSN != "" {
		cfg.Database.PostgresDSN = dbDSN
		log.Printf("Database DSN from ENV (hidden)")
	}

	if vaultPath := getEnv("VAULT_PATH", "MUNINN_VAULT_PATH"); vaultPath != "" {
		cfg.Vault.Path = vaultPath
		log.Printf("Vault path from ENV")
	}

	if portStr := getEnv("PORT", "MUNINN_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
			log.Printf("Port from ENV: %d", port)
		}
	}
}

// applyCLIOverrides applies command-line flag overrides to configuration
func applyCLIOverrides(cfg *config.Config, dbType, dbPath, dbDSN, vaultPath string, port int) {
	if dbType != "" {
		cfg.Database.Type = dbType
		log.Printf("Database type from CLI: %s", dbType)
	}

	if dbPath != "" {
		cfg.Database.SQLitePath = dbPath
		log.Printf("Database path from CLI")
	}

	if dbDSN != "" {
		cfg.Database.PostgresDSN = dbDSN
		log.Printf("Database DSN from CLI (hidden)")
	}

	if vaultPath != "" {
		cfg.Vault.Path = vaultPath
		log.Printf("Vault path from CLI")
	}

	if port > 0 {
		cfg.Server.Port = port
		log.Printf("Port from CLI: %d", port)
	}
}

// indexService builds an index service on the shared connection
func indexService(db *gorm.DB) *index.Service {
	return index.NewService(db)
}

// getEnv tries multiple environment variable names and returns the first non-empty value
func getEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}
