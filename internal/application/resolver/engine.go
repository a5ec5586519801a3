// Package resolver walks server documents and rewrites every url it finds
// through a mapping.Registry.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"urlresolver/internal/application/mapping"
	"urlresolver/internal/domain"
	"urlresolver/internal/logging"
)

// ErrNilDocument is returned when a walk is given no document
var ErrNilDocument = errors.New("nil document")

// Stats counts what one walk did
type Stats struct {
	WalkID     string
	Cells      int // cells or hits that carried a url
	Rewritten  int
	Suppressed int
	Unmapped   int
	Failed     int // mapper panicked; raw url kept
	Duration   time.Duration
}

// Add accumulates o into s, keeping s's walk id
func (s *Stats) Add(o Stats) {
	s.Cells += o.Cells
	s.Rewritten += o.Rewritten
	s.Suppressed += o.Suppressed
	s.Unmapped += o.Unmapped
	s.Failed += o.Failed
	s.Duration += o.Duration
}

// Engine rewrites urls in select-rows and search documents. It holds no
// per-walk state and is safe for concurrent use.
type Engine struct {
	registry *mapping.Registry
	logger   *slog.Logger
}

// NewEngine creates an engine over registry
func NewEngine(registry *mapping.Registry, logger *slog.Logger) *Engine {
	logger = logging.Default(logger)
	return &Engine{
		registry: registry,
		logger:   logger.With("component", "resolver"),
	}
}

// Registry returns the registry the engine resolves through
func (e *Engine) Registry() *mapping.Registry {
	return e.registry
}

// ResolveSelectRows returns a copy of doc with every cell url rewritten
func (e *Engine) ResolveSelectRows(ctx context.Context, doc *domain.SelectRowsDocument) (*domain.SelectRowsDocument, error) {
	out, _, err := e.ResolveSelectRowsWithStats(ctx, doc)
	return out, err
}

// ResolveSelectRowsWithStats is ResolveSelectRows plus walk statistics
func (e *Engine) ResolveSelectRowsWithStats(ctx context.Context, doc *domain.SelectRowsDocument) (*domain.SelectRowsDocument, Stats, error) {
	w, err := e.begin(ctx, doc == nil)
	if err != nil {
		return nil, Stats{}, err
	}

	schema, query := doc.Schema(), doc.QueryName
	var rows []domain.Row
	if doc.Rows != nil {
		rows = make([]domain.Row, len(doc.Rows))
	}
	for i, row := range doc.Rows {
		if row.IsRaw() {
			rows[i] = row.Clone()
			continue
		}
		out := domain.NewRow()
		for _, key := range row.Keys() {
			c, _ := row.Get(key)
			out.Set(key, w.cell(c, doc.Field(key), schema, query))
		}
		rows[i] = out
	}

	return doc.WithRows(rows), w.finish("select rows", "schema", schema, "query", query, "rows", len(rows)), nil
}

// ResolveSearchUsingIndex returns a copy of doc with hit urls rewritten.
// Hits are classified by id and data shape; unclassified hits are copied as-is.
func (e *Engine) ResolveSearchUsingIndex(ctx context.Context, doc *domain.SearchDocument) (*domain.SearchDocument, error) {
	out, _, err := e.ResolveSearchWithStats(ctx, doc)
	return out, err
}

// ResolveSearchWithStats is ResolveSearchUsingIndex plus walk statistics
func (e *Engine) ResolveSearchWithStats(ctx context.Context, doc *domain.SearchDocument) (*domain.SearchDocument, Stats, error) {
	w, err := e.begin(ctx, doc == nil)
	if err != nil {
		return nil, Stats{}, err
	}

	var hits []domain.Hit
	if doc.Hits != nil {
		hits = make([]domain.Hit, len(doc.Hits))
	}
	for i, hit := range doc.Hits {
		hits[i] = w.hit(hit)
	}

	return doc.WithHits(hits), w.finish("search", "hits", len(hits)), nil
}

// MapLink resolves a single link outside of any document walk
func (e *Engine) MapLink(lc domain.LinkContext) (string, domain.ResolutionKind, error) {
	w := &walk{engine: e, logger: e.logger}
	res, ok := w.resolve(lc)
	if !ok {
		return lc.RawURL, domain.ResolutionNoOpinion, fmt.Errorf("resolve %s: mapper failed", lc.RawURL)
	}
	return res.Apply(lc.RawURL), res.Kind, nil
}

func (e *Engine) begin(ctx context.Context, nilDoc bool) (*walk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if nilDoc {
		return nil, ErrNilDocument
	}
	id := uuid.NewString()
	return &walk{
		engine:  e,
		logger:  e.logger.With("walk", id),
		stats:   Stats{WalkID: id},
		started: time.Now(),
	}, nil
}

// walk carries the state of one document traversal
type walk struct {
	engine  *Engine
	logger  *slog.Logger
	stats   Stats
	started time.Time
}

func (w *walk) finish(kind string, attrs ...any) Stats {
	w.stats.Duration = time.Since(w.started)
	w.logger.Debug("walk complete", append([]any{
		"kind", kind,
		"cells", w.stats.Cells,
		"rewritten", w.stats.Rewritten,
		"suppressed", w.stats.Suppressed,
		"unmapped", w.stats.Unmapped,
		"failed", w.stats.Failed,
		"duration", w.stats.Duration,
	}, attrs...)...)
	return w.stats
}

func (w *walk) cell(c domain.Cell, column *domain.Field, schema, query string) domain.Cell {
	switch c.Kind() {
	case domain.CellObject:
		raw, ok := c.URL()
		if !ok {
			return c.Clone()
		}
		return w.rewrite(c, domain.LinkContext{RawURL: raw, Row: c, Column: column, Schema: schema, Query: query})
	case domain.CellMulti:
		items := make([]domain.Cell, len(c.Items()))
		for i, item := range c.Items() {
			if item.Kind() == domain.CellMulti {
				// nested arrays are not cells
				items[i] = item.Clone()
				continue
			}
			items[i] = w.cell(item, column, schema, query)
		}
		return domain.NewMultiCell(items)
	default:
		return c.Clone()
	}
}

func (w *walk) rewrite(c domain.Cell, lc domain.LinkContext) domain.Cell {
	res, ok := w.resolve(lc)
	if !ok || res.Kind != domain.ResolutionRewritten {
		return c.Clone()
	}
	return c.WithURL(res.Apply(lc.RawURL))
}

// resolve runs the registry for one link. A panicking mapper is logged and
// reported as not ok.
func (w *walk) resolve(lc domain.LinkContext) (res domain.Resolution, ok bool) {
	w.stats.Cells++
	defer func() {
		if r := recover(); r != nil {
			w.stats.Failed++
			w.logger.Error("mapper panicked", "url", lc.RawURL, "schema", lc.Schema, "query", lc.Query, "panic", r)
			res, ok = domain.NoOpinion(), false
		}
	}()

	res = w.engine.registry.Resolve(lc)
	switch res.Kind {
	case domain.ResolutionRewritten:
		w.stats.Rewritten++
	case domain.ResolutionSuppressed:
		w.stats.Suppressed++
	default:
		w.stats.Unmapped++
	}
	return res, true
}
