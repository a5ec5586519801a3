package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlresolver/internal/adapters/filesystem"
	"urlresolver/internal/adapters/sqlite"
	"urlresolver/internal/application"
	"urlresolver/internal/application/commands"
)

const catalogJSON = `{
	"assayRuns": [{"id": 923, "protocolId": 15}],
	"samples": [{"id": 77, "sampleType": "Blood"}],
	"lists": [{"id": 12, "name": "Reagents"}]
}`

type fixture struct {
	backend *Backend
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	store := sqlite.NewStore()
	require.NoError(t, store.Open(filepath.Join(dir, "catalog.db")))
	t.Cleanup(func() { store.Close() })

	b, err := NewBackend(context.Background(), store, filesystem.NewStore(dir), application.Options{})
	require.NoError(t, err)
	return &fixture{backend: b, dir: dir}
}

func (f *fixture) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0644))
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult, i int) string {
	t.Helper()
	require.Greater(t, len(res.Content), i)
	tc, ok := res.Content[i].(mcp.TextContent)
	require.True(t, ok, "content %d is %T", i, res.Content[i])
	return tc.Text
}

func TestCatalogImportReloadsRoutes(t *testing.T) {
	f := newFixture(t)
	f.write(t, "catalog.json", catalogJSON)

	route := resolveRouteHandler(f.backend)
	res := call(t, route, map[string]any{"route": "/rd/assayrun/923"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res, 0), "unchanged")

	res = call(t, catalogImportHandler(f.backend), map[string]any{"path": "catalog.json"})
	require.False(t, res.IsError, text(t, res, 0))
	assert.Contains(t, text(t, res, 0), "3 added")
	assert.Equal(t, 3, f.backend.Service().CatalogSize())

	res = call(t, route, map[string]any{"route": "/rd/assayrun/923"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res, 0), "-> /assays/15/runs/923")
}

func TestCatalogList(t *testing.T) {
	f := newFixture(t)
	f.write(t, "catalog.json", catalogJSON)
	call(t, catalogImportHandler(f.backend), map[string]any{"path": "catalog.json"})

	res := call(t, catalogListHandler(f.backend), map[string]any{"kind": "list"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res, 0), "Reagents")
	assert.NotContains(t, text(t, res, 0), "Blood")

	res = call(t, catalogListHandler(f.backend), map[string]any{"kind": "wiki"})
	assert.True(t, res.IsError)

	res = call(t, catalogListHandler(f.backend), map[string]any{"query": "zzzz"})
	assert.Equal(t, "No results.", text(t, res, 0))
}

func TestResolveSelectRows(t *testing.T) {
	f := newFixture(t)
	doc := `{"schemaName": "samples", "queryName": "Blood", "rows": [
		{"Name": {"value": "S-1", "url": "/labkey/home/experiment-showMaterial.view?rowId=77"}}
	]}`

	h := resolveDocumentHandler(f.backend, commands.DocumentSelectRows)
	res := call(t, h, map[string]any{"document": doc})
	require.False(t, res.IsError, text(t, res, 0))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res, 0)), &out))
	row := out["rows"].([]any)[0].(map[string]any)
	assert.Equal(t, "#/rd/samples/77", row["Name"].(map[string]any)["url"])
	assert.Contains(t, text(t, res, 1), "1 rewritten")

	f.write(t, "rows.json", doc)
	res = call(t, h, map[string]any{"path": "rows.json", "out_dir": "out"})
	require.False(t, res.IsError, text(t, res, 0))
	assert.FileExists(t, filepath.Join(f.dir, "out", "rows.json"))

	res = call(t, h, map[string]any{})
	assert.True(t, res.IsError)

	res = call(t, h, map[string]any{"document": "{"})
	assert.True(t, res.IsError)
}

func TestResolveSearch(t *testing.T) {
	f := newFixture(t)
	doc := `{"hits": [{"id": "material:77", "url": "/labkey/home/experiment-showMaterial.view?rowId=77&_docid=material:77", "data": {"id": "77"}}]}`

	res := call(t, resolveDocumentHandler(f.backend, commands.DocumentSearch), map[string]any{"document": doc})
	require.False(t, res.IsError, text(t, res, 0))
	assert.NotContains(t, text(t, res, 0), "_docid")
}

func TestInspectURL(t *testing.T) {
	f := newFixture(t)
	f.write(t, "catalog.json", catalogJSON)
	call(t, catalogImportHandler(f.backend), map[string]any{"path": "catalog.json"})

	res := call(t, inspectURLHandler(f.backend), map[string]any{"url": "/labkey/home/experiment-showMaterial.view?rowId=77"})
	require.False(t, res.IsError, text(t, res, 0))
	out := text(t, res, 0)
	assert.Contains(t, out, "controller:  experiment")
	assert.Contains(t, out, "outcome:     rewritten")
	assert.Contains(t, out, "url:         #/rd/samples/77")
	assert.Contains(t, out, "redirect:    #/samples/Blood/77")

	res = call(t, inspectURLHandler(f.backend), map[string]any{})
	assert.True(t, res.IsError)
}

func TestParsePath(t *testing.T) {
	f := newFixture(t)
	res := call(t, parsePathHandler(f.backend), map[string]any{"url": "https://server/labkey/my%20folder/list-grid.view?listId=1"})
	require.False(t, res.IsError)
	assert.Equal(t, "controller=list action=grid container=/my folder", text(t, res, 0))
}

func TestBuildHref(t *testing.T) {
	res := call(t, buildHrefHandler(), map[string]any{
		"segments": []any{"samples", "Blood Samples"},
		"params":   []any{"view=all"},
	})
	require.False(t, res.IsError, text(t, res, 0))
	assert.Equal(t, "#/samples/Blood%20Samples?view=all", text(t, res, 0))

	res = call(t, buildHrefHandler(), map[string]any{})
	assert.True(t, res.IsError)
}
