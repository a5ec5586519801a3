package commands

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"urlresolver/internal/application"
	"urlresolver/internal/domain"
	"urlresolver/internal/ports"
)

// CatalogMatch wraps a catalog entry with a relevance score
type CatalogMatch struct {
	domain.CatalogEntry
	Score int
}

// ListCatalogCommand lists catalog entries, optionally filtered by kind and
// fuzzy-matched against a query
type ListCatalogCommand struct {
	store ports.CatalogStore
	Kind  string
	Query string
}

// NewListCatalogCommand creates a new ListCatalogCommand
func NewListCatalogCommand(store ports.CatalogStore, kind, query string) *ListCatalogCommand {
	return &ListCatalogCommand{store: store, Kind: kind, Query: query}
}

// Execute returns entries in catalog order, or by score when Query is set
func (c *ListCatalogCommand) Execute(ctx context.Context) ([]CatalogMatch, error) {
	kind := domain.RouteUnknown
	if c.Kind != "" {
		k, err := application.ValidateRouteKind("kind", c.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	entries, err := c.store.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(c.Query) == "" {
		out := make([]CatalogMatch, len(entries))
		for i, e := range entries {
			out[i] = CatalogMatch{CatalogEntry: e}
		}
		return out, nil
	}
	return FuzzySort(entries, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// exact substring match first
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// chars in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '/' || target[i-1] == '-' || target[i-1] == '_') {
				score += 10 // after separator
			}
			score++
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// FuzzySort keeps entries matching query by name, parent or id, best first
func FuzzySort(entries []domain.CatalogEntry, query string) []CatalogMatch {
	scored := make([]CatalogMatch, 0, len(entries))

	for _, e := range entries {
		best := max(
			FuzzyScore(e.Name, query),
			FuzzyScore(e.Parent, query),
			FuzzyScore(strconv.FormatInt(e.ID, 10), query),
		)
		if best > 0 {
			scored = append(scored, CatalogMatch{CatalogEntry: e, Score: best})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
