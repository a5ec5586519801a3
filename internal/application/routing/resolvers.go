// Package routing translates legacy numeric-id application routes into
// their named form using a catalog loaded once at startup.
package routing

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"urlresolver/internal/domain"
	"urlresolver/internal/ports"
)

// Resolver names, also used as registration keys
const (
	AssayResolverName    = "assay"
	AssayRunResolverName = "assayrun"
	ListResolverName     = "list"
	SamplesResolverName  = "samples"
)

var (
	assayPattern    = regexp.MustCompile(`^/assays/(\d+)(/.*)?$`)
	assayRunPattern = regexp.MustCompile(`^/rd/assayrun/(\d+)(/.*)?$`)
	listPattern     = regexp.MustCompile(`^/q/lists/(\d+)(/.*)?$`)
	samplesPattern  = regexp.MustCompile(`^/rd/samples/(\d+)(/.*)?$`)
)

// redirectFunc builds the named route for a location whose id is known
type redirectFunc func(loc domain.Location, id string, e domain.CatalogEntry) (domain.AppURL, error)

// idResolver is the shared shape of every legacy-route resolver:
// a route either does not match, or matches and its id is either
// found in the cache (resolved) or not (pass through).
type idResolver struct {
	name     string
	pattern  *regexp.Regexp
	idIndex  int
	cache    map[int64]domain.CatalogEntry
	redirect redirectFunc
}

// Name implements ports.RouteResolver
func (r *idResolver) Name() string {
	return r.name
}

// Matches implements ports.RouteResolver. A leading "#" and any query are ignored.
func (r *idResolver) Matches(path string) bool {
	if path == "" {
		return false
	}
	path = strings.TrimPrefix(path, "#")
	path, _, _ = strings.Cut(path, "?")
	return r.pattern.MatchString(path)
}

// Fetch implements ports.RouteResolver
func (r *idResolver) Fetch(ctx context.Context, loc domain.Location) (domain.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RouteResult{}, err
	}
	pass := domain.RouteResult{Passthrough: true}

	if r.idIndex >= len(loc.Segments) {
		return pass, nil
	}
	raw := loc.Segments[r.idIndex]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return pass, nil
	}
	entry, ok := r.cache[id]
	if !ok {
		return pass, nil
	}

	target, err := r.redirect(loc, raw, entry)
	if err != nil {
		// an incomplete catalog entry cannot name the route
		return pass, nil
	}
	return domain.RouteResult{Target: target}, nil
}

// Len returns the number of cached ids
func (r *idResolver) Len() int {
	return len(r.cache)
}

func newIDResolver(name string, pattern *regexp.Regexp, idIndex int, entries map[int64]domain.CatalogEntry, fn redirectFunc) *idResolver {
	cache := make(map[int64]domain.CatalogEntry, len(entries))
	for id, e := range entries {
		cache[id] = e
	}
	return &idResolver{name: name, pattern: pattern, idIndex: idIndex, cache: cache, redirect: fn}
}

// AssayResolver maps /assays/{id}/... to /assays/{provider}/{name}/...
type AssayResolver struct{ *idResolver }

// NewAssayResolver builds the resolver from assay entries (Name = assay name, Parent = provider)
func NewAssayResolver(entries map[int64]domain.CatalogEntry) *AssayResolver {
	return &AssayResolver{newIDResolver(AssayResolverName, assayPattern, 1, entries,
		func(loc domain.Location, _ string, e domain.CatalogEntry) (domain.AppURL, error) {
			return loc.Redirect(2, "assays", e.Parent, e.Name)
		})}
}

// AssayRunResolver maps /rd/assayrun/{runId}/... to /assays/{protocolId}/runs/{runId}/...
type AssayRunResolver struct{ *idResolver }

// NewAssayRunResolver builds the resolver from assay-run entries (Parent = protocol id)
func NewAssayRunResolver(entries map[int64]domain.CatalogEntry) *AssayRunResolver {
	return &AssayRunResolver{newIDResolver(AssayRunResolverName, assayRunPattern, 2, entries,
		func(loc domain.Location, runID string, e domain.CatalogEntry) (domain.AppURL, error) {
			return loc.Redirect(3, "assays", e.Parent, "runs", runID)
		})}
}

// NewAssayRunResolverFromProtocols builds the resolver from a run id → protocol id map
func NewAssayRunResolverFromProtocols(protocols map[int64]int64) *AssayRunResolver {
	entries := make(map[int64]domain.CatalogEntry, len(protocols))
	for runID, protocolID := range protocols {
		entries[runID] = domain.CatalogEntry{
			Kind:   domain.RouteAssayRun,
			ID:     runID,
			Parent: strconv.FormatInt(protocolID, 10),
		}
	}
	return NewAssayRunResolver(entries)
}

// ListResolver maps /q/lists/{id}/... to /q/lists/{name}/...
type ListResolver struct{ *idResolver }

// NewListResolver builds the resolver from list entries (Name = list name)
func NewListResolver(entries map[int64]domain.CatalogEntry) *ListResolver {
	return &ListResolver{newIDResolver(ListResolverName, listPattern, 2, entries,
		func(loc domain.Location, _ string, e domain.CatalogEntry) (domain.AppURL, error) {
			return loc.Redirect(3, "q", "lists", e.Name)
		})}
}

// SamplesResolver maps /rd/samples/{rowId}/... to /samples/{sampleType}/{rowId}/...
type SamplesResolver struct{ *idResolver }

// NewSamplesResolver builds the resolver from sample entries (Parent = sample type)
func NewSamplesResolver(entries map[int64]domain.CatalogEntry) *SamplesResolver {
	return &SamplesResolver{newIDResolver(SamplesResolverName, samplesPattern, 2, entries,
		func(loc domain.Location, rowID string, e domain.CatalogEntry) (domain.AppURL, error) {
			return loc.Redirect(3, "samples", e.Parent, rowID)
		})}
}

// FromCatalog builds every resolver, in matching order, from one catalog
func FromCatalog(c domain.Catalog) []ports.RouteResolver {
	return []ports.RouteResolver{
		NewAssayResolver(c[domain.RouteAssay]),
		NewAssayRunResolver(c[domain.RouteAssayRun]),
		NewListResolver(c[domain.RouteList]),
		NewSamplesResolver(c[domain.RouteSample]),
	}
}
