package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	loc := ParseLocation("#/rd/assayrun/923/details?view=graph&x=a%20b")
	assert.Equal(t, []string{"rd", "assayrun", "923", "details"}, loc.Segments)
	assert.Equal(t, "view=graph&x=a%20b", loc.Query)
	assert.Equal(t, [][2]string{{"view", "graph"}, {"x", "a b"}}, loc.QueryParams())
	assert.Equal(t, "/rd/assayrun/923/details?view=graph&x=a%20b", loc.String())

	empty := ParseLocation("")
	assert.Empty(t, empty.Segments)
	assert.Equal(t, "/", empty.Path())
}

func TestLocation_Redirect(t *testing.T) {
	loc := ParseLocation("/q/lists/12/my%20view?pk=3")
	u, err := loc.Redirect(3, "q", "lists", "Reagents")
	require.NoError(t, err)
	assert.Equal(t, "/q/lists/Reagents/my%20view?pk=3", u.String())

	u, err = ParseLocation("/q/lists/5?flag&a=1&a=2").Redirect(3, "q", "lists", "MyList")
	require.NoError(t, err)
	assert.Equal(t, "/q/lists/MyList?flag&a=1&a=2", u.String())
	assert.Equal(t, map[string]string{"flag": "", "a": "2"}, u.ToQuery())

	u, err = ParseLocation("/rd/samples/4").Redirect(3, "samples", "Blood", "4")
	require.NoError(t, err)
	assert.Equal(t, "/samples/Blood/4", u.String())

	_, err = NewLocation("q").Redirect(1, "q", "")
	assert.Error(t, err)
}

func TestParseRouteKind(t *testing.T) {
	for _, k := range RouteKinds {
		assert.Equal(t, k, ParseRouteKind(k.String()))
	}
	assert.Equal(t, RouteAssayRun, ParseRouteKind(" Runs "))
	assert.Equal(t, RouteUnknown, ParseRouteKind("wiki"))
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]CatalogEntry{
		{Kind: RouteAssayRun, ID: 595, Parent: "13"},
		{Kind: RouteAssayRun, ID: 923, Parent: "14"},
		{Kind: RouteAssayRun, ID: 923, Parent: "15"},
		{Kind: RouteUnknown, ID: 1, Name: "ignored"},
	})
	assert.Equal(t, 2, c.Len())

	e, ok := c.Get(RouteAssayRun, 923)
	require.True(t, ok)
	assert.Equal(t, "15", e.Parent)

	_, ok = c.Get(RouteList, 923)
	assert.False(t, ok)
}

func TestCatalogEntry_LegacyRoute(t *testing.T) {
	tests := []struct {
		entry CatalogEntry
		want  string
	}{
		{CatalogEntry{Kind: RouteAssay, ID: 91}, "/assays/91"},
		{CatalogEntry{Kind: RouteAssayRun, ID: 923}, "/rd/assayrun/923"},
		{CatalogEntry{Kind: RouteList, ID: 12}, "/q/lists/12"},
		{CatalogEntry{Kind: RouteSample, ID: 77}, "/rd/samples/77"},
		{CatalogEntry{Kind: RouteUnknown, ID: 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.entry.Kind.String(), func(t *testing.T) {
			got := tt.entry.LegacyRoute()
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.True(t, ParseLocation(got).Path() == got)
			}
		})
	}
}
