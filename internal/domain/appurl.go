package domain

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ConstructionError is returned when an AppURL is built from missing or empty parts
type ConstructionError struct {
	Parts []any
}

func (e *ConstructionError) Error() string {
	if len(e.Parts) == 0 {
		return "AppURL: unable to create URL from zero parts"
	}
	return fmt.Sprintf("AppURL: unable to create URL with empty parts. Parts are %s", formatParts(e.Parts))
}

func formatParts(parts []any) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		if p == nil {
			out[i] = "<nil>"
			continue
		}
		out[i] = fmt.Sprint(p)
	}
	return "[" + strings.Join(out, ", ") + "]"
}

type param struct {
	key   string
	value string
}

// AppURL is an immutable application route: path segments, query params and filters.
// The zero value is not a valid route; build one with Create.
type AppURL struct {
	base     string
	params   []param
	filters  []Filter
	rawQuery string // already encoded, rendered after params and filters
}

// Create builds an AppURL from path parts. Every part must be non-nil and
// render to a non-empty string. Parts are percent-encoded individually.
// A first part that already starts with "/" is used verbatim.
func Create(parts ...any) (AppURL, error) {
	if len(parts) == 0 {
		return AppURL{}, &ConstructionError{}
	}

	var sb strings.Builder
	for i, part := range parts {
		s, ok := partString(part)
		if !ok {
			return AppURL{}, &ConstructionError{Parts: slices.Clone(parts)}
		}

		if i == 0 && strings.HasPrefix(s, "/") {
			sb.WriteString(strings.TrimSuffix(s, "/"))
			continue
		}
		sb.WriteByte('/')
		sb.WriteString(EncodeURIComponent(s))
	}

	base := sb.String()
	if base == "" {
		// a lone "/" part trims to nothing
		base = "/"
	}
	return AppURL{base: base}, nil
}

// MustCreate is like Create but panics on a construction error
func MustCreate(parts ...any) AppURL {
	u, err := Create(parts...)
	if err != nil {
		panic(err)
	}
	return u
}

func partString(part any) (string, bool) {
	switch v := part.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case *string:
		if v == nil || *v == "" {
			return "", false
		}
		return *v, true
	default:
		s := fmt.Sprint(v)
		return s, s != ""
	}
}

// IsZero reports whether the URL was never built
func (u AppURL) IsZero() bool {
	return u.base == ""
}

// Base returns the encoded path without params or filters
func (u AppURL) Base() string {
	return u.base
}

// Segments returns the decoded path segments
func (u AppURL) Segments() []string {
	trimmed := strings.Trim(u.base, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	for i, p := range parts {
		if dec, err := url.PathUnescape(p); err == nil {
			parts[i] = dec
		}
	}
	return parts
}

// AddParam returns a copy with key set to value. A nil value leaves the URL unchanged.
func (u AppURL) AddParam(key string, value any) AppURL {
	if value == nil || key == "" {
		return u
	}
	out := u.clone()
	out.setParam(EncodeURIComponent(key), EncodeURIComponent(fmt.Sprint(value)))
	return out
}

// AddParams returns a copy with every pair of params merged in, applied in
// sorted key order. A nil map leaves the URL unchanged.
func (u AppURL) AddParams(params map[string]any) AppURL {
	if params == nil {
		return u
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := u.clone()
	for _, k := range keys {
		v := params[k]
		if v == nil || k == "" {
			continue
		}
		out.setParam(EncodeURIComponent(k), EncodeURIComponent(fmt.Sprint(v)))
	}
	return out
}

// WithRawQuery returns a copy that renders query verbatim after its params
// and filters. Repeated keys and bare flags in query are kept as they are.
func (u AppURL) WithRawQuery(query string) AppURL {
	out := u.clone()
	out.rawQuery = strings.TrimPrefix(query, "?")
	return out
}

// AddFilters returns a copy with filters appended in order
func (u AppURL) AddFilters(filters ...Filter) AppURL {
	if len(filters) == 0 {
		return u
	}
	out := u.clone()
	out.filters = append(out.filters, filters...)
	return out
}

func (u *AppURL) setParam(key, value string) {
	for i := range u.params {
		if u.params[i].key == key {
			u.params[i].value = value
			return
		}
	}
	u.params = append(u.params, param{key: key, value: value})
}

func (u AppURL) clone() AppURL {
	return AppURL{
		base:     u.base,
		params:   slices.Clone(u.params),
		filters:  slices.Clone(u.filters),
		rawQuery: u.rawQuery,
	}
}

// pairs returns params then filters, both in insertion order.
// This order is relied on by callers comparing hrefs as strings.
func (u AppURL) pairs() []param {
	out := make([]param, 0, len(u.params)+len(u.filters))
	out = append(out, u.params...)
	for _, f := range u.filters {
		out = append(out, param{
			key:   EncodeURIComponent(f.URLParamName()),
			value: EncodeURIComponent(f.URLParamValue()),
		})
	}
	return out
}

// String renders the path and query string without a leading "#"
func (u AppURL) String() string {
	return u.ToString("")
}

// ToString renders the URL with prefix prepended to the path
func (u AppURL) ToString(prefix string) string {
	pairs := u.pairs()
	parts := make([]string, 0, len(pairs)+1)
	for _, p := range pairs {
		parts = append(parts, p.key+"="+p.value)
	}
	if u.rawQuery != "" {
		parts = append(parts, u.rawQuery)
	}
	if len(parts) == 0 {
		return prefix + u.base
	}
	return prefix + u.base + "?" + strings.Join(parts, "&")
}

// ToHref renders the URL as a hash route, always starting with "#/"
func (u AppURL) ToHref() string {
	return "#" + u.String()
}

// ToQuery returns the query pairs as a map, keyed by encoded parameter name
func (u AppURL) ToQuery() map[string]string {
	pairs := u.pairs()
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[p.key] = p.value
	}
	for pair := range strings.SplitSeq(u.rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		out[k] = v
	}
	return out
}

// ParseAppURL parses a rendered route such as "#/rd/samples/4?x=1" back into an AppURL.
// Query pairs come back as params; filter structure is not recovered.
func ParseAppURL(route string) (AppURL, error) {
	route = strings.TrimPrefix(route, "#")
	path, query, _ := strings.Cut(route, "?")

	var parts []any
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" {
			continue
		}
		dec, err := url.PathUnescape(seg)
		if err != nil {
			dec = seg
		}
		parts = append(parts, dec)
	}

	u, err := Create(parts...)
	if err != nil {
		return AppURL{}, err
	}
	if query == "" {
		return u, nil
	}

	for pair := range strings.SplitSeq(query, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		// values are kept encoded as they were rendered
		u.setParam(k, v)
	}
	return u, nil
}

// EncodeURIComponent escapes s the way browsers' encodeURIComponent does:
// everything except letters, digits and -_.!~*'() is percent-encoded.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return uriUnreserved.Replace(escaped)
}

var uriUnreserved = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
