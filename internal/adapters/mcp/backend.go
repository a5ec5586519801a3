package mcp

import (
	"context"
	"sync"

	"urlresolver/internal/application"
	"urlresolver/internal/ports"
)

// Backend is the state shared by the tools. Importing a catalog rebuilds the
// service so later route lookups see the new entries.
type Backend struct {
	mu      sync.RWMutex
	svc     *application.Service
	catalog ports.CatalogStore
	docs    ports.DocumentStore
	opts    application.Options
}

// NewBackend loads the catalog and builds the first service
func NewBackend(ctx context.Context, catalog ports.CatalogStore, docs ports.DocumentStore, opts application.Options) (*Backend, error) {
	b := &Backend{catalog: catalog, docs: docs, opts: opts}
	if err := b.Reload(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Service returns the current service
func (b *Backend) Service() *application.Service {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.svc
}

// Reload rebuilds the service from the catalog store
func (b *Backend) Reload(ctx context.Context) error {
	svc, err := application.LoadService(ctx, b.catalog, b.opts)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.svc = svc
	b.mu.Unlock()
	return nil
}
