package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// RouteKind identifies which legacy numeric-id route a catalog entry serves
type RouteKind int

const (
	RouteUnknown  RouteKind = iota
	RouteAssay              // /assays/{protocolId}
	RouteAssayRun           // /rd/assayrun/{runId}
	RouteList               // /q/lists/{listId}
	RouteSample             // /rd/samples/{rowId}
)

func (k RouteKind) String() string {
	switch k {
	case RouteAssay:
		return "assay"
	case RouteAssayRun:
		return "assayrun"
	case RouteList:
		return "list"
	case RouteSample:
		return "sample"
	default:
		return "unknown"
	}
}

// ParseRouteKind maps a kind name back to a RouteKind
func ParseRouteKind(s string) RouteKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assay", "assays":
		return RouteAssay
	case "assayrun", "assayruns", "run", "runs":
		return RouteAssayRun
	case "list", "lists":
		return RouteList
	case "sample", "samples":
		return RouteSample
	default:
		return RouteUnknown
	}
}

// RouteKinds lists every known kind in catalog order
var RouteKinds = []RouteKind{RouteAssay, RouteAssayRun, RouteList, RouteSample}

// RouteResult is the outcome of fetching a matched legacy route.
// Passthrough means the id is unknown and the route should be left alone.
type RouteResult struct {
	Passthrough bool
	Target      AppURL
}

// Location is an application route split into decoded path segments and a raw query string
type Location struct {
	Segments []string
	Query    string
}

// NewLocation builds a location from already-decoded segments
func NewLocation(segments ...string) Location {
	return Location{Segments: segments}
}

// ParseLocation parses "/rd/assayrun/923?x=1" or "#/rd/assayrun/923"
func ParseLocation(route string) Location {
	route = strings.TrimPrefix(strings.TrimSpace(route), "#")
	path, query, _ := strings.Cut(route, "?")

	var segments []string
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, decodeSegment(seg))
	}
	return Location{Segments: segments, Query: query}
}

// Path renders the segments, each percent-encoded, with a leading "/"
func (l Location) Path() string {
	if len(l.Segments) == 0 {
		return "/"
	}
	encoded := make([]string, len(l.Segments))
	for i, s := range l.Segments {
		encoded[i] = EncodeURIComponent(s)
	}
	return "/" + strings.Join(encoded, "/")
}

// String renders the path and query
func (l Location) String() string {
	if l.Query == "" {
		return l.Path()
	}
	return l.Path() + "?" + l.Query
}

// QueryParams returns the query pairs in their original order
func (l Location) QueryParams() [][2]string {
	if l.Query == "" {
		return nil
	}
	var out [][2]string
	for pair := range strings.SplitSeq(l.Query, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if dk, err := url.QueryUnescape(k); err == nil {
			k = dk
		}
		if dv, err := url.QueryUnescape(v); err == nil {
			v = dv
		}
		out = append(out, [2]string{k, v})
	}
	return out
}

// Redirect builds the replacement route for a location: head segments,
// then the location's segments from index tail on, then its query string
// exactly as it was written.
func (l Location) Redirect(tail int, head ...any) (AppURL, error) {
	parts := append([]any{}, head...)
	if tail < len(l.Segments) {
		for _, s := range l.Segments[tail:] {
			if s == "" {
				continue
			}
			parts = append(parts, s)
		}
	}

	u, err := Create(parts...)
	if err != nil {
		return AppURL{}, fmt.Errorf("redirect %s: %w", l.Path(), err)
	}
	return u.WithRawQuery(l.Query), nil
}
