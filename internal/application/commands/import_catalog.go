package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"urlresolver/internal/application"
	"urlresolver/internal/domain"
	"urlresolver/internal/ports"
)

// ImportCatalogCommand loads a catalog export file into the catalog store
type ImportCatalogCommand struct {
	store   ports.CatalogStore
	docs    ports.DocumentStore
	Path    string
	Replace bool // drop existing entries of every kind present in the file first
}

// NewImportCatalogCommand creates a new ImportCatalogCommand
func NewImportCatalogCommand(store ports.CatalogStore, docs ports.DocumentStore, path string) *ImportCatalogCommand {
	return &ImportCatalogCommand{store: store, docs: docs, Path: path}
}

// Validate checks if the import operation is valid
func (c *ImportCatalogCommand) Validate() error {
	return application.ValidateRequired("path", c.Path)
}

// Execute imports the file in one transaction
func (c *ImportCatalogCommand) Execute(ctx context.Context) (*domain.ImportStats, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	entries, err := c.docs.ReadCatalog(c.Path)
	if err != nil {
		return nil, err
	}

	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if c.Replace {
		kinds := make(map[domain.RouteKind]bool)
		for _, e := range entries {
			if e.Kind != domain.RouteUnknown && !kinds[e.Kind] {
				kinds[e.Kind] = true
				if err := tx.DeleteKind(e.Kind); err != nil {
					return nil, fmt.Errorf("clear %s entries: %w", e.Kind, err)
				}
			}
		}
	}

	stats := &domain.ImportStats{BatchID: uuid.NewString()}
	for i := range entries {
		e := &entries[i]
		if e.Kind == domain.RouteUnknown || e.ID <= 0 {
			stats.Skipped++
			continue
		}
		replaced, err := tx.UpsertEntry(e)
		if err != nil {
			return nil, fmt.Errorf("import %s %d: %w", e.Kind, e.ID, err)
		}
		if replaced {
			stats.Replaced++
		} else {
			stats.Added++
		}
	}

	stats.Duration = time.Since(start)
	if err := tx.RecordImport(stats, c.Path); err != nil {
		return nil, fmt.Errorf("record import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	committed = true
	return stats, nil
}
