package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name  string
		parts []any
		want  string
	}{
		{name: "single part", parts: []any{"somePath"}, want: "/somePath"},
		{name: "multiple parts", parts: []any{"registry", "molecule"}, want: "/registry/molecule"},
		{name: "numeric part", parts: []any{"rd", "samples", 42}, want: "/rd/samples/42"},
		{name: "encodes each part", parts: []any{"q", "my schema", "a/b"}, want: "/q/my%20schema/a%2Fb"},
		{name: "leading slash kept verbatim", parts: []any{"/q/", "exp", "data"}, want: "/q/exp/data"},
		{name: "unreserved characters untouched", parts: []any{"it's(ok)*!"}, want: "/it's(ok)*!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Create(tt.parts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
			assert.Equal(t, "#"+tt.want, u.ToHref())
		})
	}
}

func TestCreate_Errors(t *testing.T) {
	t.Run("zero parts", func(t *testing.T) {
		_, err := Create()
		var ce *ConstructionError
		require.True(t, errors.As(err, &ce))
		assert.Contains(t, err.Error(), "zero parts")
	})

	t.Run("nil part names every part", func(t *testing.T) {
		_, err := Create("path", nil)
		var ce *ConstructionError
		require.True(t, errors.As(err, &ce))
		assert.Contains(t, err.Error(), "[path, <nil>]")
		assert.Len(t, ce.Parts, 2)
	})

	t.Run("empty string part", func(t *testing.T) {
		_, err := Create("a", "", "c")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[a, , c]")
	})

	t.Run("MustCreate panics", func(t *testing.T) {
		assert.Panics(t, func() { MustCreate("x", nil) })
	})
}

func TestAppURL_Params(t *testing.T) {
	u := MustCreate("registry", "molecule").AddParam("RowId", 4)
	assert.Equal(t, "#/registry/molecule?RowId=4", u.ToHref())

	t.Run("last write wins", func(t *testing.T) {
		got := u.AddParam("RowId", 5).AddParam("view", "detail")
		assert.Equal(t, "/registry/molecule?RowId=5&view=detail", got.String())
	})

	t.Run("nil value is a no-op", func(t *testing.T) {
		assert.Equal(t, u.String(), u.AddParam("x", nil).String())
		assert.Equal(t, u.String(), u.AddParams(nil).String())
	})

	t.Run("AddParams applies keys in sorted order", func(t *testing.T) {
		got := MustCreate("a").AddParams(map[string]any{"b": 2, "a": "x y"})
		assert.Equal(t, "/a?a=x%20y&b=2", got.String())
	})

	t.Run("mutators do not change the receiver", func(t *testing.T) {
		base := MustCreate("a")
		_ = base.AddParam("k", "v")
		_ = base.AddFilters(NewFilter("c", 1, Equal))
		assert.Equal(t, "/a", base.String())
	})
}

func TestAppURL_Filters(t *testing.T) {
	u := MustCreate("somePath").AddFilters(NewFilter("Status", "closed", NotEqual))
	assert.Equal(t, "#/somePath?query.Status~neq=closed", u.ToHref())

	t.Run("params come before filters", func(t *testing.T) {
		got := MustCreate("p").
			AddFilters(NewFilter("A", 1, Equal)).
			AddParam("z", "last").
			AddFilters(NewFilter("B", []string{"x", "y"}, EqualsOneOf))
		assert.Equal(t, "/p?z=last&query.A~eq=1&query.B~in=x%3By", got.String())
	})

	t.Run("ToQuery holds the same pairs", func(t *testing.T) {
		got := MustCreate("p").AddParam("RowId", 4).AddFilters(NewFilter("Status", "closed", NotEqual))
		assert.Equal(t, map[string]string{
			"RowId":            "4",
			"query.Status~neq": "closed",
		}, got.ToQuery())
	})
}

func TestAppURL_ToString(t *testing.T) {
	u := MustCreate("a", "b").AddParam("x", 1)
	assert.Equal(t, "/labkey/app/a/b?x=1", u.ToString("/labkey/app"))

	// repeated rendering is stable
	for range 3 {
		assert.Equal(t, "/a/b?x=1", u.String())
	}
}

func TestAppURL_Segments(t *testing.T) {
	u := MustCreate("q", "my schema", "a/b")
	assert.Equal(t, []string{"q", "my schema", "a/b"}, u.Segments())
	assert.False(t, u.IsZero())
	assert.True(t, AppURL{}.IsZero())
}

func TestParseAppURL(t *testing.T) {
	u, err := ParseAppURL("#/rd/samples/4?view=x&RowId=9")
	require.NoError(t, err)
	assert.Equal(t, "#/rd/samples/4?view=x&RowId=9", u.ToHref())

	_, err = ParseAppURL("#/")
	assert.Error(t, err)
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "a%20b", EncodeURIComponent("a b"))
	assert.Equal(t, "a%2Bb", EncodeURIComponent("a+b"))
	assert.Equal(t, "~-_.!*'()", EncodeURIComponent("~-_.!*'()"))
	assert.Equal(t, "%26%3D%3F%23", EncodeURIComponent("&=?#"))
}

func TestParseFilterParam(t *testing.T) {
	f, ok := ParseFilterParam("query.Status~neq", "closed")
	require.True(t, ok)
	assert.Equal(t, "Status", f.Column)
	assert.Equal(t, NotEqual, f.Type)
	assert.Equal(t, "query.Status~neq", f.URLParamName())

	f, ok = ParseFilterParam("query.Id~in", "1;2")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, f.Value)

	_, ok = ParseFilterParam("query.Id~bogus", "1")
	assert.False(t, ok)

	_, ok = ParseFilterParam("RowId", "1")
	assert.False(t, ok)
}
