package commands

import (
	"fmt"
	"strings"

	"urlresolver/internal/application"
	"urlresolver/internal/domain"
)

// BuildHrefCommand assembles an application route from parts
type BuildHrefCommand struct {
	Segments []string
	Params   []string // "key=value"
	Filters  []string // "column~suffix=value", e.g. "Status~neq=closed"
}

// NewBuildHrefCommand creates a new BuildHrefCommand
func NewBuildHrefCommand(segments, params, filters []string) *BuildHrefCommand {
	return &BuildHrefCommand{Segments: segments, Params: params, Filters: filters}
}

// Validate checks if the parts can form a route
func (c *BuildHrefCommand) Validate() error {
	if len(c.Segments) == 0 {
		return &application.ValidationError{Field: "segments", Message: "at least one segment is required"}
	}
	for _, p := range c.Params {
		if k, _, ok := strings.Cut(p, "="); !ok || k == "" {
			return &application.ValidationError{Field: "params", Message: fmt.Sprintf("expected key=value, got: %s", p)}
		}
	}
	for _, f := range c.Filters {
		if _, err := parseFilterArg(f); err != nil {
			return err
		}
	}
	return nil
}

// Execute builds the route
func (c *BuildHrefCommand) Execute() (domain.AppURL, error) {
	if err := c.Validate(); err != nil {
		return domain.AppURL{}, err
	}

	parts := make([]any, len(c.Segments))
	for i, s := range c.Segments {
		parts[i] = s
	}
	u, err := domain.Create(parts...)
	if err != nil {
		return domain.AppURL{}, err
	}

	for _, p := range c.Params {
		k, v, _ := strings.Cut(p, "=")
		u = u.AddParam(k, v)
	}
	for _, f := range c.Filters {
		filter, _ := parseFilterArg(f)
		u = u.AddFilters(filter)
	}
	return u, nil
}

func parseFilterArg(arg string) (domain.Filter, error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return domain.Filter{}, &application.ValidationError{Field: "filters", Message: fmt.Sprintf("expected column~op=value, got: %s", arg)}
	}
	f, ok := domain.ParseFilterParam(domain.DefaultDataRegion+"."+name, value)
	if !ok {
		return domain.Filter{}, &application.ValidationError{Field: "filters", Message: fmt.Sprintf("unknown filter %s", name)}
	}
	return f, nil
}

// ParsePathCommand splits a server url into controller, action and container
type ParsePathCommand struct {
	RawURL      string
	ContextPath string
}

// NewParsePathCommand creates a new ParsePathCommand
func NewParsePathCommand(rawURL, contextPath string) *ParsePathCommand {
	return &ParsePathCommand{RawURL: rawURL, ContextPath: contextPath}
}

// Validate checks if the parse operation is valid
func (c *ParsePathCommand) Validate() error {
	if err := application.ValidateRequired("rawURL", c.RawURL); err != nil {
		return err
	}
	return application.ValidateContextPath("contextPath", c.ContextPath)
}

// Execute parses the url. Unrecognised shapes give empty fields, not errors.
func (c *ParsePathCommand) Execute() (domain.PathName, error) {
	if err := c.Validate(); err != nil {
		return domain.PathName{}, err
	}
	return domain.ParsePathName(c.RawURL, c.ContextPath), nil
}
