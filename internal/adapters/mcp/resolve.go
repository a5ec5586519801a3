package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"urlresolver/internal/application/commands"
	"urlresolver/internal/application/resolver"
)

// RegisterResolveTools adds the document, route and url tools to the MCP server.
func RegisterResolveTools(s *server.MCPServer, b *Backend) {
	s.AddTool(resolveDocumentTool("resolve_select_rows", "selectRows"), resolveDocumentHandler(b, commands.DocumentSelectRows))
	s.AddTool(resolveDocumentTool("resolve_search", "search"), resolveDocumentHandler(b, commands.DocumentSearch))
	s.AddTool(resolveRouteTool(), resolveRouteHandler(b))
	s.AddTool(inspectURLTool(), inspectURLHandler(b))
	s.AddTool(parsePathTool(), parsePathHandler(b))
	s.AddTool(buildHrefTool(), buildHrefHandler())
}

// --- resolve_select_rows / resolve_search ---

func resolveDocumentTool(name, api string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(fmt.Sprintf("Rewrite the urls in a %s response to application routes. Pass the response JSON, or the path of a file holding it.", api)),
		mcp.WithString("document",
			mcp.Description("Response JSON"),
		),
		mcp.WithString("path",
			mcp.Description("File holding the response (JSON or JSONC). Used when document is empty."),
		),
		mcp.WithString("out_dir",
			mcp.Description("When path is set, also write the resolved document here under the same file name"),
		),
	)
}

func resolveDocumentHandler(b *Backend, kind commands.DocumentKind) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		document := req.GetString("document", "")
		path := req.GetString("path", "")
		engine := b.Service().Engine

		if document != "" {
			cmd := commands.NewResolveJSONCommand(engine, kind, []byte(document))
			out, stats, err := cmd.Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			return documentResult(out, stats), nil
		}
		if path == "" {
			return toolError(fmt.Errorf("document or path is required"))
		}

		cmd := commands.NewResolveFilesCommand(engine, b.docs, kind, []string{path})
		cmd.OutDir = req.GetString("out_dir", "")
		results, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		out, err := json.Marshal(results[0].Document)
		if err != nil {
			return toolError(err)
		}
		return documentResult(out, results[0].Stats), nil
	}
}

func documentResult(doc []byte, stats resolver.Stats) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(doc)),
			mcp.NewTextContent(formatStats(stats)),
		},
	}
}

func formatStats(s resolver.Stats) string {
	return fmt.Sprintf("walk %s: %d urls, %d rewritten, %d suppressed, %d unmapped, %d failed",
		s.WalkID, s.Cells, s.Rewritten, s.Suppressed, s.Unmapped, s.Failed)
}

// --- resolve_route ---

func resolveRouteTool() mcp.Tool {
	return mcp.NewTool("resolve_route",
		mcp.WithDescription("Translate a legacy numeric-id route (e.g. /rd/assayrun/923) to its named form using the catalog. Unknown routes are returned unchanged."),
		mcp.WithString("route",
			mcp.Description("Application route, with or without a leading #"),
			mcp.Required(),
		),
	)
}

func resolveRouteHandler(b *Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		route := req.GetString("route", "")
		if route == "" {
			return toolError(fmt.Errorf("route is required"))
		}

		redirect, err := commands.NewResolveRouteCommand(b.Service().Routes, route).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if !redirect.Changed() {
			return mcp.NewToolResultText(redirect.From + " (unchanged)"), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s -> %s (%s)", redirect.From, redirect.To, redirect.Resolver)), nil
	}
}

// --- inspect_url ---

func inspectURLTool() mcp.Tool {
	return mcp.NewTool("inspect_url",
		mcp.WithDescription("Show how a single server url would be rewritten: parsed path, mapped url, outcome and legacy-route redirect."),
		mcp.WithString("url",
			mcp.Description("Server url, e.g. /labkey/home/assay-assayDetailRedirect.view?runId=1"),
			mcp.Required(),
		),
		mcp.WithString("value",
			mcp.Description("Cell value the url came with"),
		),
		mcp.WithString("display_value",
			mcp.Description("Cell display value the url came with"),
		),
	)
}

func inspectURLHandler(b *Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewInspectURLCommand(b.Service(), req.GetString("url", ""))
		cmd.Value = req.GetString("value", "")
		cmd.DisplayValue = req.GetString("display_value", "")

		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "controller:  %s\n", res.Path.Controller)
		fmt.Fprintf(&sb, "action:      %s\n", res.Path.Action)
		fmt.Fprintf(&sb, "container:   %s\n", res.Path.ContainerPath)
		fmt.Fprintf(&sb, "outcome:     %s\n", res.Kind)
		fmt.Fprintf(&sb, "url:         %s\n", res.URL)
		if res.Redirect != "" {
			fmt.Fprintf(&sb, "redirect:    %s\n", res.Redirect)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- parse_path ---

func parsePathTool() mcp.Tool {
	return mcp.NewTool("parse_path",
		mcp.WithDescription("Split a server url into controller, action and container path."),
		mcp.WithString("url",
			mcp.Description("Server url or path"),
			mcp.Required(),
		),
		mcp.WithString("context_path",
			mcp.Description("Context path to strip. Defaults to the configured one."),
		),
	)
}

func parsePathHandler(b *Backend) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		contextPath := req.GetString("context_path", b.Service().Registry.ContextPath())
		p, err := commands.NewParsePathCommand(req.GetString("url", ""), contextPath).Execute()
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("controller=%s action=%s container=%s", p.Controller, p.Action, p.ContainerPath)), nil
	}
}

// --- build_href ---

func buildHrefTool() mcp.Tool {
	return mcp.NewTool("build_href",
		mcp.WithDescription("Build an application route from path segments, query params and grid filters. Segments are percent-encoded."),
		mcp.WithArray("segments",
			mcp.Description("Path segments, e.g. [\"samples\", \"Blood\", \"12\"]"),
			mcp.Items(map[string]any{"type": "string"}),
			mcp.Required(),
		),
		mcp.WithArray("params",
			mcp.Description("Query params as key=value"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("filters",
			mcp.Description("Grid filters as column~op=value, e.g. Status~neq=closed"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func buildHrefHandler() server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewBuildHrefCommand(
			req.GetStringSlice("segments", nil),
			req.GetStringSlice("params", nil),
			req.GetStringSlice("filters", nil),
		)
		u, err := cmd.Execute()
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("#" + u.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
