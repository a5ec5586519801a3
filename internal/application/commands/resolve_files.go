package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"urlresolver/internal/application"
	"urlresolver/internal/application/resolver"
	"urlresolver/internal/ports"
)

// DocumentKind selects which walk a document goes through
type DocumentKind int

const (
	DocumentSelectRows DocumentKind = iota
	DocumentSearch
)

func (k DocumentKind) String() string {
	if k == DocumentSearch {
		return "search"
	}
	return "rows"
}

// DefaultConcurrency bounds how many files are resolved at once
const DefaultConcurrency = 4

// FileResult is the outcome for one input file
type FileResult struct {
	Path     string
	OutPath  string // empty when nothing was written
	Document any    // *domain.SelectRowsDocument or *domain.SearchDocument
	Stats    resolver.Stats
}

// ResolveFilesCommand resolves document files concurrently with one shared engine
type ResolveFilesCommand struct {
	engine      *resolver.Engine
	store       ports.DocumentStore
	Kind        DocumentKind
	Paths       []string
	OutDir      string // when set, results are written here under the input's base name
	Concurrency int
}

// NewResolveFilesCommand creates a new ResolveFilesCommand
func NewResolveFilesCommand(engine *resolver.Engine, store ports.DocumentStore, kind DocumentKind, paths []string) *ResolveFilesCommand {
	return &ResolveFilesCommand{
		engine:      engine,
		store:       store,
		Kind:        kind,
		Paths:       paths,
		Concurrency: DefaultConcurrency,
	}
}

// Validate checks if the resolve operation is valid
func (c *ResolveFilesCommand) Validate() error {
	if len(c.Paths) == 0 {
		return &application.ValidationError{Field: "path", Message: "at least one file is required"}
	}
	seen := make(map[string]bool, len(c.Paths))
	for _, p := range c.Paths {
		if err := application.ValidateRequired("path", p); err != nil {
			return err
		}
		if c.OutDir == "" {
			continue
		}
		base := filepath.Base(p)
		if seen[base] {
			return &application.ValidationError{
				Field:   "path",
				Message: fmt.Sprintf("two inputs share the file name %s", base),
			}
		}
		seen[base] = true
	}
	return nil
}

// Execute resolves every file. Results keep the order of Paths. The first
// failure cancels files not yet started.
func (c *ResolveFilesCommand) Execute(ctx context.Context) ([]FileResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	results := make([]FileResult, len(c.Paths))
	g, ctx := errgroup.WithContext(ctx)
	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	for i, path := range c.Paths {
		g.Go(func() error {
			res, err := c.resolveOne(ctx, path)
			if err != nil {
				return err
			}
			if c.OutDir != "" {
				res.OutPath = filepath.Join(c.OutDir, filepath.Base(path))
				if err := c.store.WriteJSON(res.OutPath, res.Document); err != nil {
					return fmt.Errorf("write %s: %w", res.OutPath, err)
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *ResolveFilesCommand) resolveOne(ctx context.Context, path string) (FileResult, error) {
	res := FileResult{Path: path}
	switch c.Kind {
	case DocumentSearch:
		doc, err := c.store.ReadSearch(path)
		if err != nil {
			return res, err
		}
		out, stats, err := c.engine.ResolveSearchWithStats(ctx, doc)
		if err != nil {
			return res, fmt.Errorf("resolve %s: %w", path, err)
		}
		res.Document, res.Stats = out, stats
	default:
		doc, err := c.store.ReadSelectRows(path)
		if err != nil {
			return res, err
		}
		out, stats, err := c.engine.ResolveSelectRowsWithStats(ctx, doc)
		if err != nil {
			return res, fmt.Errorf("resolve %s: %w", path, err)
		}
		res.Document, res.Stats = out, stats
	}
	return res, nil
}

// ParseDocumentKind maps "rows" or "search" to a DocumentKind
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rows", "selectrows", "select-rows":
		return DocumentSelectRows, nil
	case "search", "hits":
		return DocumentSearch, nil
	default:
		return 0, &application.ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown document kind %q (expected rows or search)", s),
		}
	}
}
