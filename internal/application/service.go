package application

import (
	"context"
	"fmt"
	"log/slog"

	"urlresolver/internal/application/mapping"
	"urlresolver/internal/application/resolver"
	"urlresolver/internal/application/routing"
	"urlresolver/internal/domain"
	"urlresolver/internal/logging"
	"urlresolver/internal/ports"
)

// Options configures the resolver service
type Options struct {
	ContextPath string
	DevMode     bool
	Logger      *slog.Logger
}

// Service wires the mapper registry, document engine and route resolvers.
// Everything is built once; the catalog is read-only afterwards.
type Service struct {
	Registry *mapping.Registry
	Engine   *resolver.Engine
	Routes   *routing.Service

	catalogSize int
}

// NewService builds the registry with the default mappers and one route
// resolver per catalog kind
func NewService(catalog domain.Catalog, opts Options) (*Service, error) {
	if err := ValidateContextPath("contextPath", opts.ContextPath); err != nil {
		return nil, err
	}
	logger := logging.Default(opts.Logger)

	contextPath := opts.ContextPath
	if contextPath == "" {
		contextPath = mapping.DefaultContextPath
	}

	reg := mapping.NewRegistry(
		mapping.WithContextPath(contextPath),
		mapping.WithDevMode(opts.DevMode),
		mapping.WithLogger(logger),
	)
	reg.Register(mapping.Defaults()...)
	reg.RegisterAppRouteResolvers(routing.FromCatalog(catalog)...)

	return &Service{
		Registry:    reg,
		Engine:      resolver.NewEngine(reg, logger),
		Routes:      routing.NewService(logger, reg.RouteResolvers()...),
		catalogSize: catalog.Len(),
	}, nil
}

// LoadService reads the catalog from store and builds the service
func LoadService(ctx context.Context, store ports.CatalogStore, opts Options) (*Service, error) {
	catalog, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return NewService(catalog, opts)
}

// CatalogSize returns the number of catalog entries the resolvers were built from
func (s *Service) CatalogSize() int {
	return s.catalogSize
}
