package commands

import (
	"context"

	"urlresolver/internal/application"
	"urlresolver/internal/application/resolver"
	"urlresolver/internal/domain"
)

// InspectResult describes how one server url would be handled
type InspectResult struct {
	Path     domain.PathName
	URL      string // the url that would be emitted
	Kind     domain.ResolutionKind
	Redirect string // named form of URL when it is a legacy route, else empty
}

// InspectURLCommand parses a server url and runs it through the mappers.
// Lookup, Value and DisplayValue stand in for the cell the url came from.
type InspectURLCommand struct {
	engine       *resolver.Engine
	resolveRoute func(ctx context.Context, route string) (string, bool, error)
	RawURL       string
	Lookup       *domain.Lookup
	Value        string
	DisplayValue string
}

// NewInspectURLCommand creates a new InspectURLCommand. svc supplies both the
// mappers and the legacy route resolvers.
func NewInspectURLCommand(svc *application.Service, rawURL string) *InspectURLCommand {
	return &InspectURLCommand{
		engine: svc.Engine,
		resolveRoute: func(ctx context.Context, route string) (string, bool, error) {
			r, err := svc.Routes.Resolve(ctx, route)
			return r.String(), r.Changed(), err
		},
		RawURL: rawURL,
	}
}

// Validate checks if the url is present
func (c *InspectURLCommand) Validate() error {
	return application.ValidateRequired("rawURL", c.RawURL)
}

// Execute maps the url, then follows the mapped route through the legacy route resolvers
func (c *InspectURLCommand) Execute(ctx context.Context) (*InspectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	props := map[string]any{"url": c.RawURL}
	if c.Value != "" {
		props["value"] = c.Value
	}
	if c.DisplayValue != "" {
		props["displayValue"] = c.DisplayValue
	}
	row, err := domain.NewCell(props)
	if err != nil {
		return nil, err
	}

	lc := domain.LinkContext{RawURL: c.RawURL, Row: row}
	if c.Lookup != nil && c.Lookup.SchemaName != "" {
		lc.Column = &domain.Field{FieldKey: "url", Lookup: c.Lookup}
	}

	url, kind, err := c.engine.MapLink(lc)
	if err != nil {
		return nil, err
	}
	res := &InspectResult{
		Path: domain.ParsePathName(c.RawURL, c.engine.Registry().ContextPath()),
		URL:  url,
		Kind: kind,
	}

	if kind == domain.ResolutionRewritten && c.resolveRoute != nil {
		to, changed, err := c.resolveRoute(ctx, url)
		if err != nil {
			return nil, err
		}
		if changed {
			res.Redirect = "#" + to
		}
	}
	return res, nil
}
