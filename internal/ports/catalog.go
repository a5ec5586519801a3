package ports

import (
	"context"

	"urlresolver/internal/domain"
)

// CatalogStore persists the id→name route catalog the route resolvers are
// built from. Reads are served from sqlite indexes.
type CatalogStore interface {
	// Lifecycle
	Open(path string) error
	Close() error

	// Queries
	Load(ctx context.Context) (domain.Catalog, error)
	List(ctx context.Context, kind domain.RouteKind) ([]domain.CatalogEntry, error)
	Get(ctx context.Context, kind domain.RouteKind, id int64) (*domain.CatalogEntry, error)
	Count(ctx context.Context) (map[domain.RouteKind]int, error)

	// Batch updates (imports)
	BeginTx(ctx context.Context) (CatalogTx, error)
}

// CatalogTx represents a transaction for atomic catalog updates
type CatalogTx interface {
	UpsertEntry(entry *domain.CatalogEntry) (replaced bool, err error)
	DeleteKind(kind domain.RouteKind) error
	RecordImport(stats *domain.ImportStats, source string) error

	// Transaction control
	Commit() error
	Rollback() error
}
