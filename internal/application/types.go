package application

import "urlresolver/internal/domain"

// Re-export route kinds for use by adapters
type RouteKind = domain.RouteKind

const (
	RouteUnknown  = domain.RouteUnknown
	RouteAssay    = domain.RouteAssay
	RouteAssayRun = domain.RouteAssayRun
	RouteList     = domain.RouteList
	RouteSample   = domain.RouteSample
)

// Re-export domain types for use by adapters
type (
	CatalogEntry       = domain.CatalogEntry
	Catalog            = domain.Catalog
	ImportStats        = domain.ImportStats
	PathName           = domain.PathName
	SelectRowsDocument = domain.SelectRowsDocument
	SearchDocument     = domain.SearchDocument
)

// ParseRouteKind maps a kind name back to a RouteKind
func ParseRouteKind(s string) RouteKind {
	return domain.ParseRouteKind(s)
}

// ParsePathName splits a server url into controller, action and container
func ParsePathName(rawURL, contextPath string) PathName {
	return domain.ParsePathName(rawURL, contextPath)
}
