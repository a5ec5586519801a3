package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectRowsFixture = `{
	"schemaName": ["exp", "data"],
	"queryName": "Stuff",
	"formatVersion": 9.1,
	"metaData": {
		"id": "RowId",
		"fields": [
			{"fieldKey": "Name"},
			{"fieldKey": ["Run", "Name"]},
			{"fieldKeyPath": "DataClass", "lookup": {"schemaName": "exp", "queryName": "DataClasses"}},
			{"fieldKey": {"name": "Tags", "parent": null}}
		]
	},
	"rows": [
		{
			"Name": {"value": "S-1", "url": "/labkey/home/experiment-showData.view?rowId=1"},
			"Run/Name": {"value": 7},
			"DataClass": {"value": 3, "displayValue": "Cells", "url": "/x"},
			"Tags": [{"value": "a", "url": "/a"}, {"value": "b"}]
		}
	],
	"rowCount": 1
}`

func TestSelectRowsDocument_Unmarshal(t *testing.T) {
	var doc SelectRowsDocument
	require.NoError(t, json.Unmarshal([]byte(selectRowsFixture), &doc))

	assert.Equal(t, "exp.data", doc.Schema())
	assert.Equal(t, "Stuff", doc.QueryName)
	require.Len(t, doc.Fields, 4)
	assert.Equal(t, "Name", doc.Fields[0].FieldKey)
	assert.Equal(t, "Run/Name", doc.Fields[1].FieldKey)
	assert.Equal(t, "DataClass", doc.Fields[2].FieldKey)
	assert.Equal(t, "Tags", doc.Fields[3].FieldKey)

	dc := doc.Field("dataclass")
	require.NotNil(t, dc)
	assert.True(t, dc.HasLookup())
	assert.Equal(t, "exp", dc.Lookup.SchemaName)
	assert.Equal(t, "DataClasses", dc.Lookup.QueryName)
	assert.Nil(t, doc.Field("Missing"))

	require.Len(t, doc.Rows, 1)
	row := doc.Rows[0]
	assert.Equal(t, []string{"Name", "Run/Name", "DataClass", "Tags"}, row.Keys())

	name, ok := row.Get("Name")
	require.True(t, ok)
	assert.Equal(t, CellObject, name.Kind())
	u, ok := name.URL()
	assert.True(t, ok)
	assert.Equal(t, "/labkey/home/experiment-showData.view?rowId=1", u)

	run, _ := row.Get("Run/Name")
	v, ok := run.Value()
	assert.True(t, ok)
	assert.Equal(t, "7", v)
	assert.False(t, run.HasURL())

	tags, _ := row.Get("Tags")
	assert.Equal(t, CellMulti, tags.Kind())
	require.Len(t, tags.Items(), 2)
	assert.True(t, tags.Items()[0].HasURL())
	assert.False(t, tags.Items()[1].HasURL())
}

func TestSelectRowsDocument_MarshalPreservesMembers(t *testing.T) {
	var doc SelectRowsDocument
	require.NoError(t, json.Unmarshal([]byte(selectRowsFixture), &doc))

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, selectRowsFixture, string(out))

	var keys []string
	members, err := parseMembers(out)
	require.NoError(t, err)
	for pair := members.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"schemaName", "queryName", "formatVersion", "metaData", "rows", "rowCount"}, keys)
}

func TestSelectRowsDocument_WithRowsIsIndependent(t *testing.T) {
	var doc SelectRowsDocument
	require.NoError(t, json.Unmarshal([]byte(selectRowsFixture), &doc))

	name, _ := doc.Rows[0].Get("Name")
	row := NewRow()
	row.Set("Name", name.WithURL("#/replaced"))
	copied := doc.WithRows([]Row{row})

	copied.Fields[2].Lookup.QueryName = "Changed"
	assert.Equal(t, "DataClasses", doc.Fields[2].Lookup.QueryName)

	orig, _ := doc.Rows[0].Get("Name")
	u, _ := orig.URL()
	assert.Equal(t, "/labkey/home/experiment-showData.view?rowId=1", u)
}

func TestSelectRowsDocument_BuiltInCode(t *testing.T) {
	cell, err := NewCell(map[string]any{"value": 1, "url": "/u"})
	require.NoError(t, err)
	row := NewRow()
	row.Set("A", cell)

	doc := SelectRowsDocument{
		SchemaName: SchemaKey{"lists"},
		QueryName:  "Things",
		Fields:     []Field{{FieldKey: "A"}},
		Rows:       []Row{row},
	}
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"schemaName": ["lists"],
		"queryName": "Things",
		"metaData": {"fields": [{"fieldKey": "A"}]},
		"rows": [{"A": {"url": "/u", "value": 1}}]
	}`, string(out))
}

func TestCell_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind CellKind
	}{
		{name: "string", in: `"x"`, kind: CellScalar},
		{name: "number", in: `12`, kind: CellScalar},
		{name: "null", in: `null`, kind: CellScalar},
		{name: "object", in: `{"value": 1}`, kind: CellObject},
		{name: "array", in: `[{"value": 1}, 2]`, kind: CellMulti},
		{name: "empty array", in: `[]`, kind: CellMulti},
		{name: "broken object", in: `{"value": `, kind: CellScalar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseCell([]byte(tt.in))
			assert.Equal(t, tt.kind, c.Kind())
		})
	}
}

func TestCell_WithURLDoesNotMutate(t *testing.T) {
	c := ParseCell([]byte(`{"value": 1, "url": "/raw", "displayValue": "One"}`))
	next := c.WithURL("#/new")

	u, _ := c.URL()
	assert.Equal(t, "/raw", u)
	u, _ = next.URL()
	assert.Equal(t, "#/new", u)
	assert.Equal(t, []string{"value", "url", "displayValue"}, next.Keys())

	scalar := ParseCell([]byte(`5`))
	assert.Equal(t, scalar, scalar.WithURL("#/x"))
}

func TestCell_Path(t *testing.T) {
	c := ParseCell([]byte(`{"sampleSet": {"name": "Blood"}, "id": 9}`))
	name, ok := c.Path("sampleSet", "name")
	require.True(t, ok)
	s, ok := name.Scalar()
	assert.True(t, ok)
	assert.Equal(t, "Blood", s)

	_, ok = c.Path("dataClass", "name")
	assert.False(t, ok)

	id, ok := c.String("id")
	assert.True(t, ok)
	assert.Equal(t, "9", id)
}

func TestSearchDocument_RoundTrip(t *testing.T) {
	const in = `{"success": true, "hits": [
		{"id": "material:1", "url": "/u?rowId=1&_docid=material:1", "title": "S-1", "data": {"id": "1", "sampleSet": {"name": "Blood"}}, "summary": "x"},
		{"id": "wiki:home", "url": "/wiki", "title": "Home"}
	], "totalHits": 2}`

	var doc SearchDocument
	require.NoError(t, json.Unmarshal([]byte(in), &doc))
	require.Len(t, doc.Hits, 2)
	assert.Equal(t, "material:1", doc.Hits[0].ID)
	assert.True(t, doc.Hits[0].HasData())
	assert.False(t, doc.Hits[1].HasData())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	changed := doc.WithHits([]Hit{doc.Hits[0].WithURL("#/rd/samples/1"), doc.Hits[1]})
	out, err = json.Marshal(changed)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"url":"#/rd/samples/1"`)
	assert.Equal(t, "/u?rowId=1&_docid=material:1", doc.Hits[0].URL)
}

func TestRow_NonObjectEntries(t *testing.T) {
	var doc SelectRowsDocument
	require.NoError(t, json.Unmarshal([]byte(`{"rows": [{"a": {"value": 1, "url": "/x"}}, null, 5, [1]]}`), &doc))
	require.Len(t, doc.Rows, 4)

	assert.False(t, doc.Rows[0].IsRaw())
	for _, row := range doc.Rows[1:] {
		assert.True(t, row.IsRaw())
		assert.Zero(t, row.Len())
		assert.Nil(t, row.Keys())
	}

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows": [{"a": {"value": 1, "url": "/x"}}, null, 5, [1]]}`, string(out))

	row := doc.Rows[1].Clone()
	row.Set("b", ParseCell([]byte(`2`)))
	assert.False(t, row.IsRaw())
	assert.True(t, doc.Rows[1].IsRaw())
}
