package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"urlresolver/internal/application"
	"urlresolver/internal/application/resolver"
	"urlresolver/internal/domain"
)

// ResolveJSONCommand resolves one document given as raw JSON
type ResolveJSONCommand struct {
	engine *resolver.Engine
	Kind   DocumentKind
	Data   []byte
}

// NewResolveJSONCommand creates a new ResolveJSONCommand
func NewResolveJSONCommand(engine *resolver.Engine, kind DocumentKind, data []byte) *ResolveJSONCommand {
	return &ResolveJSONCommand{engine: engine, Kind: kind, Data: data}
}

// Validate checks if the document is present
func (c *ResolveJSONCommand) Validate() error {
	if len(c.Data) == 0 {
		return &application.ValidationError{Field: "document", Message: "document is required"}
	}
	if !json.Valid(c.Data) {
		return &application.DocumentError{Path: "<input>", Kind: c.Kind.String(), Reason: "not valid JSON"}
	}
	return nil
}

// Execute returns the resolved document as JSON
func (c *ResolveJSONCommand) Execute(ctx context.Context) ([]byte, resolver.Stats, error) {
	if err := c.Validate(); err != nil {
		return nil, resolver.Stats{}, err
	}

	var (
		out   any
		stats resolver.Stats
		err   error
	)
	switch c.Kind {
	case DocumentSearch:
		var doc domain.SearchDocument
		if err := json.Unmarshal(c.Data, &doc); err != nil {
			return nil, resolver.Stats{}, &application.DocumentError{Path: "<input>", Kind: c.Kind.String(), Reason: err.Error()}
		}
		out, stats, err = c.engine.ResolveSearchWithStats(ctx, &doc)
	default:
		var doc domain.SelectRowsDocument
		if err := json.Unmarshal(c.Data, &doc); err != nil {
			return nil, resolver.Stats{}, &application.DocumentError{Path: "<input>", Kind: c.Kind.String(), Reason: err.Error()}
		}
		out, stats, err = c.engine.ResolveSelectRowsWithStats(ctx, &doc)
	}
	if err != nil {
		return nil, stats, err
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, stats, fmt.Errorf("encode resolved document: %w", err)
	}
	return data, stats, nil
}
