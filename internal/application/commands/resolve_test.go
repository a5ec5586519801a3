package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlresolver/internal/application"
	"urlresolver/internal/domain"
)

const rowsDoc = `{
	"schemaName": ["lists"],
	"queryName": "Reagents",
	"metaData": {"fields": [{"fieldKey": "Name"}]},
	"rows": [{"Name": {"value": "A", "url": "/labkey/home/list-details.view?listId=4&pk=1"}}]
}`

const searchDoc = `{"hits": [{"id": "material:7", "url": "/labkey/home/experiment-showMaterial.view?rowId=7&_docid=material:7"}]}`

func newTestService(t *testing.T) *application.Service {
	t.Helper()
	svc, err := application.NewService(domain.NewCatalog([]domain.CatalogEntry{
		{Kind: domain.RouteList, ID: 4, Name: "Reagents"},
		{Kind: domain.RouteSample, ID: 7, Parent: "Blood"},
	}), application.Options{})
	require.NoError(t, err)
	return svc
}

func TestResolveFilesCommand(t *testing.T) {
	svc := newTestService(t)
	docs := newMemDocs()
	docs.files["in/a.json"] = rowsDoc
	docs.files["in/b.json"] = rowsDoc
	docs.files["in/s.json"] = searchDoc

	t.Run("rows written to out dir", func(t *testing.T) {
		cmd := NewResolveFilesCommand(svc.Engine, docs, DocumentSelectRows, []string{"in/a.json", "in/b.json"})
		cmd.OutDir = "out"
		cmd.Concurrency = 1

		results, err := cmd.Execute(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "in/a.json", results[0].Path)
		assert.Equal(t, "out/b.json", results[1].OutPath)
		assert.Equal(t, 1, results[0].Stats.Rewritten)
		assert.NotEqual(t, results[0].Stats.WalkID, results[1].Stats.WalkID)

		assert.Contains(t, string(docs.written["out/a.json"]), `"url":"#/q/lists/4/1"`)
	})

	t.Run("search without out dir", func(t *testing.T) {
		cmd := NewResolveFilesCommand(svc.Engine, docs, DocumentSearch, []string{"in/s.json"})
		results, err := cmd.Execute(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Empty(t, results[0].OutPath)

		doc, ok := results[0].Document.(*domain.SearchDocument)
		require.True(t, ok)
		assert.Equal(t, "#/rd/samples/7", doc.Hits[0].URL)
	})

	t.Run("missing file fails", func(t *testing.T) {
		cmd := NewResolveFilesCommand(svc.Engine, docs, DocumentSelectRows, []string{"in/a.json", "in/missing.json"})
		_, err := cmd.Execute(context.Background())
		assert.ErrorIs(t, err, application.ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewResolveFilesCommand(svc.Engine, docs, DocumentSelectRows, nil).Execute(context.Background())
		assert.ErrorContains(t, err, "at least one file")

		cmd := NewResolveFilesCommand(svc.Engine, docs, DocumentSelectRows, []string{"x/a.json", "y/a.json"})
		cmd.OutDir = "out"
		assert.ErrorContains(t, cmd.Validate(), "share the file name a.json")
	})
}

func TestParseDocumentKind(t *testing.T) {
	k, err := ParseDocumentKind("Search")
	require.NoError(t, err)
	assert.Equal(t, DocumentSearch, k)

	k, err = ParseDocumentKind("select-rows")
	require.NoError(t, err)
	assert.Equal(t, DocumentSelectRows, k)

	_, err = ParseDocumentKind("grid")
	var valErr *application.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestResolveJSONCommand(t *testing.T) {
	svc := newTestService(t)

	out, stats, err := NewResolveJSONCommand(svc.Engine, DocumentSelectRows, []byte(rowsDoc)).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Cells)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	rows := doc["rows"].([]any)
	name := rows[0].(map[string]any)["Name"].(map[string]any)
	assert.Equal(t, "#/q/lists/4/1", name["url"])

	_, _, err = NewResolveJSONCommand(svc.Engine, DocumentSearch, []byte(`{"hits": [`)).Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrInvalidDocument)

	_, _, err = NewResolveJSONCommand(svc.Engine, DocumentSearch, []byte(`{"hits": 3}`)).Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrInvalidDocument)

	_, _, err = NewResolveJSONCommand(svc.Engine, DocumentSearch, nil).Execute(context.Background())
	assert.ErrorContains(t, err, "document is required")
}

func TestResolveRouteCommand(t *testing.T) {
	svc := newTestService(t)

	got, err := NewResolveRouteCommand(svc.Routes, "#/q/lists/4/12").Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Changed())
	assert.Equal(t, "/q/lists/Reagents/12", got.String())

	got, err = NewResolveRouteCommand(svc.Routes, "/assays/91f").Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Changed())

	_, err = NewResolveRouteCommand(svc.Routes, "q/lists/4").Execute(context.Background())
	assert.ErrorContains(t, err, "must start with /")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewResolveRouteCommand(svc.Routes, "/q/lists/4").Execute(ctx)
	assert.ErrorIs(t, err, application.ErrInvalidRoute)
}

func TestInspectURLCommand(t *testing.T) {
	svc := newTestService(t)

	res, err := NewInspectURLCommand(svc, "/labkey/home/experiment-showMaterial.view?rowId=7").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PathName{Controller: "experiment", Action: "showMaterial", ContainerPath: "/home"}, res.Path)
	assert.Equal(t, "#/rd/samples/7", res.URL)
	assert.Equal(t, domain.ResolutionRewritten, res.Kind)
	assert.Equal(t, "#/samples/Blood/7", res.Redirect)

	cmd := NewInspectURLCommand(svc, "/labkey/home/query-detailsQueryRow.view?schemaName=exp")
	cmd.Lookup = &domain.Lookup{SchemaName: "exp", QueryName: "DataClasses"}
	cmd.Value = "3"
	cmd.DisplayValue = "Cells"
	res, err = cmd.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "#/rd/dataclass/Cells", res.URL)
	assert.Empty(t, res.Redirect)

	res, err = NewInspectURLCommand(svc, "/labkey/home/issues-details.view?issueId=1").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionSuppressed, res.Kind)
	assert.Equal(t, "/labkey/home/issues-details.view?issueId=1", res.URL)

	_, err = NewInspectURLCommand(svc, " ").Execute(context.Background())
	assert.Error(t, err)
}
