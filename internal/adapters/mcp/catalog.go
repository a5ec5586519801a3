package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"urlresolver/internal/application/commands"
)

// RegisterCatalogTools adds the route catalog tools to the MCP server.
func RegisterCatalogTools(s *server.MCPServer, b *Backend) {
	s.AddTool(catalogListTool(), catalogListHandler(b))
	s.AddTool(catalogImportTool(), catalogImportHandler(b))
}

// --- catalog_list ---

func catalogListTool() mcp.Tool {
	return mcp.NewTool("catalog_list",
		mcp.WithDescription("List route catalog entries. Filter by kind (assay, assayrun, list, sample) and fuzzy-match by name, parent or id."),
		mcp.WithString("kind",
			mcp.Description("Entry kind. Omit for all kinds."),
		),
		mcp.WithString("query",
			mcp.Description("Fuzzy query"),
		),
	)
}

func catalogListHandler(b *Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewListCatalogCommand(b.catalog, req.GetString("kind", ""), req.GetString("query", ""))
		matches, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(matches) == 0 {
			return mcp.NewToolResultText("No results."), nil
		}

		var sb strings.Builder
		for _, m := range matches {
			fmt.Fprintf(&sb, "%-8s %6d  %s  %s\n", m.Kind, m.ID, m.Name, m.Parent)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- catalog_import ---

func catalogImportTool() mcp.Tool {
	return mcp.NewTool("catalog_import",
		mcp.WithDescription("Import a catalog export file (JSON, JSONC or YAML) and reload the route resolvers."),
		mcp.WithString("path",
			mcp.Description("Catalog file path"),
			mcp.Required(),
		),
		mcp.WithBoolean("replace",
			mcp.Description("Drop existing entries of every kind present in the file first"),
		),
	)
}

func catalogImportHandler(b *Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewImportCatalogCommand(b.catalog, b.docs, req.GetString("path", ""))
		cmd.Replace = req.GetBool("replace", false)

		stats, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if err := b.Reload(ctx); err != nil {
			return toolError(fmt.Errorf("reload after import: %w", err))
		}
		return mcp.NewToolResultText(fmt.Sprintf("Imported %s: %d added, %d replaced, %d skipped (batch %s, %d entries loaded)",
			cmd.Path, stats.Added, stats.Replaced, stats.Skipped, stats.BatchID, b.Service().CatalogSize())), nil
	}
}
