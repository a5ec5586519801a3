package mapping

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlresolver/internal/domain"
)

func cell(t *testing.T, v map[string]any) domain.Cell {
	t.Helper()
	c, err := domain.NewCell(v)
	require.NoError(t, err)
	return c
}

func lookupColumn(schema, query string) *domain.Field {
	return &domain.Field{FieldKey: "Ref", Lookup: &domain.Lookup{SchemaName: schema, QueryName: query}}
}

func TestRegistry_ActionWithoutLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Defaults()...)

	url := "/labkey/home/experiment-showDataClass.view?rowId=124"
	got := reg.MapURL(domain.LinkContext{
		RawURL: url,
		Row:    cell(t, map[string]any{"value": "NoLookupDataClass", "url": url}),
		Column: &domain.Field{FieldKey: "Name"},
	})
	assert.Equal(t, "#/rd/dataclass/NoLookupDataClass", got)
}

func TestRegistry_LookupBeatsGenericFallback(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Defaults()...)

	url := "/labkey/home/experiment-showDataClass.view?rowId=3"
	got := reg.MapURL(domain.LinkContext{
		RawURL: url,
		Row:    cell(t, map[string]any{"value": 3, "displayValue": "Cells", "url": url}),
		Column: lookupColumn("exp", "DataClasses"),
	})
	assert.Equal(t, "#/rd/dataclass/Cells", got)
}

func TestLookupMapper_FallbackOrder(t *testing.T) {
	rewrite := func(s string) ResolveFunc {
		return func(domain.LinkContext) domain.Resolution { return domain.RewrittenText(s) }
	}
	m := LookupMapper{
		DefaultPrefix: "q",
		Resolvers: map[string]ResolveFunc{
			"exp-foo": rewrite("composite"),
			"exp":     rewrite("schema"),
		},
	}
	row := cell(t, map[string]any{"value": 7})

	tests := []struct {
		name   string
		column *domain.Field
		want   domain.Resolution
	}{
		{name: "composite key wins", column: lookupColumn("exp", "Foo"), want: domain.RewrittenText("composite")},
		{name: "schema key", column: lookupColumn("EXP", "Bar"), want: domain.RewrittenText("schema")},
		{name: "generic default", column: lookupColumn("lists", "Reagents"), want: domain.Rewritten(domain.MustCreate("q", "lists", "Reagents", "7"))},
		{name: "no lookup", column: &domain.Field{FieldKey: "x"}, want: domain.NoOpinion()},
		{name: "no column", column: nil, want: domain.NoOpinion()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Resolve(domain.LinkContext{RawURL: "/x", Row: row, Column: tt.column})
			assert.Equal(t, tt.want.Apply("/x"), got.Apply("/x"))
			assert.Equal(t, tt.want.Kind, got.Kind)
		})
	}

	t.Run("generic default needs a value", func(t *testing.T) {
		got := m.Resolve(domain.LinkContext{RawURL: "/x", Row: cell(t, map[string]any{"url": "/x"}), Column: lookupColumn("lists", "R")})
		assert.Equal(t, domain.ResolutionNoOpinion, got.Kind)
	})
}

func TestRegistry_SuppressionStopsScan(t *testing.T) {
	calls := 0
	rewriter := ActionMapper{Controller: "wiki", Action: "page", Name: "rewriter", Resolve: func(domain.LinkContext) domain.Resolution {
		calls++
		return domain.Rewritten(domain.MustCreate("wiki"))
	}}
	lc := domain.LinkContext{RawURL: "/labkey/home/wiki-page.view?name=x"}

	t.Run("suppressed first", func(t *testing.T) {
		calls = 0
		reg := NewRegistry()
		reg.Register(
			ActionMapper{Controller: "wiki", Action: "page", Name: "suppress", Resolve: func(domain.LinkContext) domain.Resolution { return domain.Suppressed() }},
			rewriter,
		)
		res := reg.Resolve(lc)
		assert.Equal(t, domain.ResolutionSuppressed, res.Kind)
		assert.Equal(t, lc.RawURL, res.Apply(lc.RawURL))
		assert.Zero(t, calls)
	})

	t.Run("no opinion first", func(t *testing.T) {
		calls = 0
		reg := NewRegistry()
		reg.Register(
			ActionMapper{Controller: "wiki", Action: "page", Name: "shrug", Resolve: func(domain.LinkContext) domain.Resolution { return domain.NoOpinion() }},
			rewriter,
		)
		assert.Equal(t, "#/wiki", reg.MapURL(lc))
		assert.Equal(t, 1, calls)
	})

	t.Run("nothing registered", func(t *testing.T) {
		reg := NewRegistry()
		res := reg.Resolve(lc)
		assert.Equal(t, domain.ResolutionNoOpinion, res.Kind)
		assert.Equal(t, lc.RawURL, res.Apply(lc.RawURL))
	})
}

func TestRegistry_RegisterDeduplicates(t *testing.T) {
	reg := NewRegistry()
	m := ActionMapper{Controller: "a", Action: "b", Name: "one"}

	assert.Equal(t, 1, reg.Register(m))
	assert.Equal(t, 0, reg.Register(m))
	assert.Equal(t, 0, reg.Register(ActionMapper{Controller: "A", Action: "B", Name: "one"}))
	assert.Equal(t, 1, reg.Register(ActionMapper{Controller: "a", Action: "b", Name: "two"}))
	assert.Equal(t, 1, reg.Register(&LookupMapper{DefaultPrefix: "q"}))
	assert.Len(t, reg.Mappers(), 3)

	all := Defaults()
	assert.Equal(t, len(all), reg.Register(all...))
	assert.Equal(t, 0, reg.Register(Defaults()...))
}

type otherMapper struct{}

func (otherMapper) Key() Key { return Key{Scope: "other"} }

func TestRegistry_RegisterSkipsNilAndUnknown(t *testing.T) {
	reg := NewRegistry()

	var added int
	require.NotPanics(t, func() {
		added = reg.Register(nil, (*ActionMapper)(nil), (*LookupMapper)(nil), otherMapper{})
	})
	assert.Zero(t, added)
	assert.Empty(t, reg.Mappers())

	assert.Equal(t, 1, reg.Register((*ActionMapper)(nil), &ActionMapper{Controller: "a", Action: "b"}))
	assert.Len(t, reg.Mappers(), 1)
}

type stubResolver struct{ name string }

func (s stubResolver) Name() string             { return s.name }
func (s stubResolver) Matches(path string) bool { return path == "/"+s.name }
func (s stubResolver) Fetch(context.Context, domain.Location) (domain.RouteResult, error) {
	return domain.RouteResult{Passthrough: true}, nil
}

func TestRegistry_RegisterAppRouteResolvers(t *testing.T) {
	reg := NewRegistry()
	a, b := stubResolver{"a"}, stubResolver{"b"}

	assert.Equal(t, 2, reg.RegisterAppRouteResolvers(a, b))
	assert.Equal(t, 0, reg.RegisterAppRouteResolvers(b, a))
	assert.Equal(t, 1, reg.RegisterAppRouteResolvers(nil, stubResolver{"c"}))

	names := []string{}
	for _, r := range reg.RouteResolvers() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestRegistry_DevModeWarning(t *testing.T) {
	lc := domain.LinkContext{RawURL: "/labkey/home/wiki-page.view", Schema: "lists", Query: "Q"}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewRegistry(WithLogger(logger)).Resolve(lc)
	assert.Empty(t, buf.String())

	NewRegistry(WithLogger(logger), WithDevMode(true)).Resolve(lc)
	assert.Contains(t, buf.String(), "unmapped url")
	assert.Contains(t, buf.String(), "controller=wiki")
	assert.Contains(t, buf.String(), "component=mapping")
}

func TestRegistry_ContextPath(t *testing.T) {
	reg := NewRegistry(WithContextPath("/lk"))
	reg.Register(Defaults()...)

	got := reg.MapURL(domain.LinkContext{RawURL: "/lk/Project/assay-assayBegin.view?rowId=88"})
	assert.Equal(t, "#/assays/88", got)
	assert.Equal(t, "/lk", reg.ContextPath())
}
