package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"urlresolver/internal/adapters/filesystem"
	mcpadapter "urlresolver/internal/adapters/mcp"
	"urlresolver/internal/adapters/sqlite"
	"urlresolver/internal/application/commands"
	"urlresolver/internal/config"
	"urlresolver/internal/logging"
)

func main() {
	configDir := flag.String("config", "", "config directory (default $URLRESOLVER_CONFIG_DIR or XDG config dir)")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("urlresolve-mcp: %v", err)
	}

	// stdout carries the protocol; logs go to stderr
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("urlresolve-mcp: %v", err)
	}

	ctx := context.Background()
	store := sqlite.NewStore()
	if err := store.Open(cfg.CatalogDB); err != nil {
		log.Fatalf("urlresolve-mcp: %v", err)
	}
	defer store.Close()

	docs := filesystem.NewStore("")
	if cfg.CatalogFile != "" {
		stats, err := commands.NewImportCatalogCommand(store, docs, cfg.CatalogFile).Execute(ctx)
		if err != nil {
			log.Fatalf("urlresolve-mcp: import %s: %v", cfg.CatalogFile, err)
		}
		logger.Info("catalog imported", "file", cfg.CatalogFile, "added", stats.Added, "replaced", stats.Replaced, "skipped", stats.Skipped)
	}

	opts := cfg.ServiceOptions()
	opts.Logger = logger
	backend, err := mcpadapter.NewBackend(ctx, store, docs, opts)
	if err != nil {
		log.Fatalf("urlresolve-mcp: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"urlresolve-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterResolveTools(mcpServer, backend)
	mcpadapter.RegisterCatalogTools(mcpServer, backend)

	logger.Info("serving", "catalog", store.Path(), "entries", backend.Service().CatalogSize())
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("urlresolve-mcp: %v", err)
	}
}
