package ports

import "urlresolver/internal/domain"

// DocumentStore reads server documents and catalog exports from disk and
// writes resolved documents back
type DocumentStore interface {
	ReadSelectRows(path string) (*domain.SelectRowsDocument, error)
	ReadSearch(path string) (*domain.SearchDocument, error)
	ReadCatalog(path string) ([]domain.CatalogEntry, error)
	WriteJSON(path string, v any) error
}
