package commands

import (
	"context"

	"urlresolver/internal/application"
	"urlresolver/internal/application/routing"
)

// ResolveRouteCommand translates one legacy application route
type ResolveRouteCommand struct {
	routes *routing.Service
	Route  string
}

// NewResolveRouteCommand creates a new ResolveRouteCommand
func NewResolveRouteCommand(routes *routing.Service, route string) *ResolveRouteCommand {
	return &ResolveRouteCommand{routes: routes, Route: route}
}

// Validate checks if the route is an application route
func (c *ResolveRouteCommand) Validate() error {
	return application.ValidateRoute("route", c.Route)
}

// Execute resolves the route. Unknown ids come back unchanged.
func (c *ResolveRouteCommand) Execute(ctx context.Context) (routing.Redirect, error) {
	if err := c.Validate(); err != nil {
		return routing.Redirect{From: c.Route}, err
	}
	redirect, err := c.routes.Resolve(ctx, c.Route)
	if err != nil {
		return redirect, &application.RouteError{Route: c.Route, Reason: err.Error()}
	}
	return redirect, nil
}
