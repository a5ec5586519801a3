package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"urlresolver/internal/application"
	"urlresolver/internal/domain"
	"urlresolver/internal/ports"
)

// memDocs serves documents from memory and records writes
type memDocs struct {
	mu      sync.Mutex
	files   map[string]string
	catalog map[string][]domain.CatalogEntry
	written map[string][]byte
}

func newMemDocs() *memDocs {
	return &memDocs{
		files:   make(map[string]string),
		catalog: make(map[string][]domain.CatalogEntry),
		written: make(map[string][]byte),
	}
}

func (m *memDocs) read(path string, v any) error {
	m.mu.Lock()
	data, ok := m.files[path]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", path, application.ErrNotFound)
	}
	return json.Unmarshal([]byte(data), v)
}

func (m *memDocs) ReadSelectRows(path string) (*domain.SelectRowsDocument, error) {
	var doc domain.SelectRowsDocument
	if err := m.read(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *memDocs) ReadSearch(path string) (*domain.SearchDocument, error) {
	var doc domain.SearchDocument
	if err := m.read(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *memDocs) ReadCatalog(path string) ([]domain.CatalogEntry, error) {
	entries, ok := m.catalog[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, application.ErrNotFound)
	}
	return entries, nil
}

func (m *memDocs) WriteJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written[path] = data
	return nil
}

var _ ports.DocumentStore = (*memDocs)(nil)

// memCatalog is an in-memory catalog store with all-or-nothing transactions
type memCatalog struct {
	entries map[domain.RouteKind]map[int64]domain.CatalogEntry
	imports []domain.ImportStats
	failOn  int64 // UpsertEntry fails for this id
}

func newMemCatalog() *memCatalog {
	return &memCatalog{entries: make(map[domain.RouteKind]map[int64]domain.CatalogEntry)}
}

func (m *memCatalog) Open(string) error { return nil }
func (m *memCatalog) Close() error      { return nil }

func (m *memCatalog) Load(context.Context) (domain.Catalog, error) {
	c := domain.NewCatalog(nil)
	for _, byID := range m.entries {
		for _, e := range byID {
			c.Add(e)
		}
	}
	return c, nil
}

func (m *memCatalog) List(_ context.Context, kind domain.RouteKind) ([]domain.CatalogEntry, error) {
	var out []domain.CatalogEntry
	for k, byID := range m.entries {
		if kind != domain.RouteUnknown && k != kind {
			continue
		}
		for _, e := range byID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memCatalog) Get(_ context.Context, kind domain.RouteKind, id int64) (*domain.CatalogEntry, error) {
	e, ok := m.entries[kind][id]
	if !ok {
		return nil, application.ErrNotFound
	}
	return &e, nil
}

func (m *memCatalog) Count(context.Context) (map[domain.RouteKind]int, error) {
	out := make(map[domain.RouteKind]int)
	for k, byID := range m.entries {
		out[k] = len(byID)
	}
	return out, nil
}

func (m *memCatalog) BeginTx(context.Context) (ports.CatalogTx, error) {
	staged := make(map[domain.RouteKind]map[int64]domain.CatalogEntry)
	for k, byID := range m.entries {
		staged[k] = make(map[int64]domain.CatalogEntry, len(byID))
		for id, e := range byID {
			staged[k][id] = e
		}
	}
	return &memTx{store: m, staged: staged}, nil
}

type memTx struct {
	store   *memCatalog
	staged  map[domain.RouteKind]map[int64]domain.CatalogEntry
	imports []domain.ImportStats
}

func (t *memTx) UpsertEntry(e *domain.CatalogEntry) (bool, error) {
	if e.ID == t.store.failOn {
		return false, fmt.Errorf("disk full")
	}
	byID, ok := t.staged[e.Kind]
	if !ok {
		byID = make(map[int64]domain.CatalogEntry)
		t.staged[e.Kind] = byID
	}
	_, replaced := byID[e.ID]
	byID[e.ID] = *e
	return replaced, nil
}

func (t *memTx) DeleteKind(kind domain.RouteKind) error {
	delete(t.staged, kind)
	return nil
}

func (t *memTx) RecordImport(stats *domain.ImportStats, _ string) error {
	t.imports = append(t.imports, *stats)
	return nil
}

func (t *memTx) Commit() error {
	t.store.entries = t.staged
	t.store.imports = append(t.store.imports, t.imports...)
	return nil
}

func (t *memTx) Rollback() error { return nil }

var _ ports.CatalogStore = (*memCatalog)(nil)
