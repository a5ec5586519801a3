package domain

import (
	"fmt"
	"time"
)

// CatalogEntry is one id→name record from the server's bulk export.
// Parent carries the kind-specific context: the provider for assays, the
// protocol id for assay runs, the sample type for samples.
type CatalogEntry struct {
	Kind   RouteKind
	ID     int64
	Name   string
	Parent string
}

// LegacyRoute returns the numeric-id route the entry resolves, or "" for an unknown kind
func (e CatalogEntry) LegacyRoute() string {
	switch e.Kind {
	case RouteAssay:
		return fmt.Sprintf("/assays/%d", e.ID)
	case RouteAssayRun:
		return fmt.Sprintf("/rd/assayrun/%d", e.ID)
	case RouteList:
		return fmt.Sprintf("/q/lists/%d", e.ID)
	case RouteSample:
		return fmt.Sprintf("/rd/samples/%d", e.ID)
	default:
		return ""
	}
}

// Catalog groups entries by kind, keyed by numeric id
type Catalog map[RouteKind]map[int64]CatalogEntry

// NewCatalog indexes entries. Later entries replace earlier ones with the same kind and id.
func NewCatalog(entries []CatalogEntry) Catalog {
	c := make(Catalog, len(RouteKinds))
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add stores e, replacing any entry with the same kind and id
func (c Catalog) Add(e CatalogEntry) {
	if e.Kind == RouteUnknown {
		return
	}
	byID, ok := c[e.Kind]
	if !ok {
		byID = make(map[int64]CatalogEntry)
		c[e.Kind] = byID
	}
	byID[e.ID] = e
}

// Get returns the entry for kind and id
func (c Catalog) Get(kind RouteKind, id int64) (CatalogEntry, bool) {
	e, ok := c[kind][id]
	return e, ok
}

// Len returns the number of entries of every kind
func (c Catalog) Len() int {
	n := 0
	for _, byID := range c {
		n += len(byID)
	}
	return n
}

// ImportStats holds statistics from a catalog import
type ImportStats struct {
	BatchID  string
	Added    int
	Replaced int
	Skipped  int
	Duration time.Duration
}
