package routing

import (
	"context"
	"fmt"
	"log/slog"

	"urlresolver/internal/domain"
	"urlresolver/internal/logging"
	"urlresolver/internal/ports"
)

// Redirect is the outcome of resolving one route
type Redirect struct {
	From     string
	To       domain.AppURL // zero when the route is left alone
	Resolver string        // name of the matching resolver, if any
}

// Changed reports whether the route was translated
func (r Redirect) Changed() bool {
	return !r.To.IsZero()
}

// String returns the translated route, or the original one
func (r Redirect) String() string {
	if r.Changed() {
		return r.To.String()
	}
	return r.From
}

// Service tries route resolvers in order; the first that matches decides
type Service struct {
	resolvers []ports.RouteResolver
	logger    *slog.Logger
}

// NewService creates a route service over resolvers
func NewService(logger *slog.Logger, resolvers ...ports.RouteResolver) *Service {
	logger = logging.Default(logger)
	return &Service{
		resolvers: resolvers,
		logger:    logger.With("component", "routing"),
	}
}

// Resolve translates path with the first resolver whose pattern matches it
func (s *Service) Resolve(ctx context.Context, path string) (Redirect, error) {
	out := Redirect{From: path}
	for _, r := range s.resolvers {
		if !r.Matches(path) {
			continue
		}
		out.Resolver = r.Name()

		res, err := r.Fetch(ctx, domain.ParseLocation(path))
		if err != nil {
			return out, fmt.Errorf("%s resolver: %w", r.Name(), err)
		}
		if res.Passthrough {
			s.logger.Debug("route passes through", "path", path, "resolver", r.Name())
			return out, nil
		}
		out.To = res.Target
		s.logger.Debug("route resolved", "path", path, "to", out.To.String(), "resolver", r.Name())
		return out, nil
	}
	return out, nil
}

// Resolvers returns the resolvers in matching order
func (s *Service) Resolvers() []ports.RouteResolver {
	return s.resolvers
}
