package ports

import (
	"context"

	"urlresolver/internal/domain"
)

// RouteResolver recognises one family of legacy numeric-id routes and
// translates a matching route into its named form.
type RouteResolver interface {
	// Name identifies the resolver; registration de-duplicates on it
	Name() string
	// Matches reports whether path belongs to this resolver. Never fails.
	Matches(path string) bool
	// Fetch translates a matched location. Unknown ids pass through.
	Fetch(ctx context.Context, loc domain.Location) (domain.RouteResult, error)
}
