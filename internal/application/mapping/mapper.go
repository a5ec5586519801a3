// Package mapping holds the link mappers that turn server urls into
// application routes, and the registry that tries them in order.
package mapping

import (
	"fmt"
	"strings"

	"urlresolver/internal/domain"
)

// Kind tags the two mapper variants
type Kind int

const (
	KindAction Kind = iota
	KindLookup
)

func (k Kind) String() string {
	if k == KindLookup {
		return "lookup"
	}
	return "action"
}

// Key identifies a registered mapper. Two mappers with equal keys are the same mapper.
type Key struct {
	Kind   Kind
	Scope  string // controller for action mappers, default prefix for lookup mappers
	Action string // empty for lookup mappers
	Name   string
}

func (k Key) String() string {
	s := k.Kind.String() + ":" + k.Scope
	if k.Action != "" {
		s += "/" + k.Action
	}
	if k.Name != "" {
		s += "#" + k.Name
	}
	return s
}

// ResolveFunc decides what to do with one link
type ResolveFunc func(lc domain.LinkContext) domain.Resolution

// Mapper is implemented by ActionMapper and LookupMapper
type Mapper interface {
	Key() Key
}

// ActionMapper handles urls pointing at one server controller action
type ActionMapper struct {
	Controller string
	Action     string
	Name       string
	Resolve    ResolveFunc
}

// Key implements Mapper
func (m ActionMapper) Key() Key {
	return Key{
		Kind:   KindAction,
		Scope:  strings.ToLower(m.Controller),
		Action: strings.ToLower(m.Action),
		Name:   m.Name,
	}
}

func (m ActionMapper) matches(p domain.PathName) bool {
	return strings.EqualFold(m.Controller, p.Controller) && strings.EqualFold(m.Action, p.Action)
}

func (m ActionMapper) resolve(lc domain.LinkContext) domain.Resolution {
	if m.Resolve == nil {
		return domain.NoOpinion()
	}
	return m.Resolve(lc)
}

// LookupMapper handles urls in columns that point at another query.
// Resolvers are keyed by lower-case "schema-query" or "schema".
type LookupMapper struct {
	DefaultPrefix string
	Name          string
	Resolvers     map[string]ResolveFunc
}

// Key implements Mapper
func (m LookupMapper) Key() Key {
	return Key{Kind: KindLookup, Scope: m.DefaultPrefix, Name: m.Name}
}

// Resolve tries the composite key, then the schema key, then builds the
// generic {prefix}/{schema}/{query}/{value} route
func (m LookupMapper) Resolve(lc domain.LinkContext) domain.Resolution {
	schema, query, ok := lc.LookupTarget()
	if !ok {
		return domain.NoOpinion()
	}

	if fn, ok := m.Resolvers[strings.ToLower(schema+"-"+query)]; ok && fn != nil {
		return fn(lc)
	}
	if fn, ok := m.Resolvers[strings.ToLower(schema)]; ok && fn != nil {
		return fn(lc)
	}

	value, ok := lc.Row.Value()
	if !ok || value == "" || query == "" || m.DefaultPrefix == "" {
		return domain.NoOpinion()
	}
	u, err := domain.Create(m.DefaultPrefix, schema, query, value)
	if err != nil {
		return domain.NoOpinion()
	}
	return domain.Rewritten(u)
}

// Describe renders a one-line summary of m for listings
func Describe(m Mapper) string {
	switch v := m.(type) {
	case ActionMapper:
		return fmt.Sprintf("%s-%s (%s)", v.Controller, v.Action, nameOr(v.Name))
	case LookupMapper:
		return fmt.Sprintf("lookup %s/* (%s, %d keyed resolvers)", v.DefaultPrefix, nameOr(v.Name), len(v.Resolvers))
	default:
		return m.Key().String()
	}
}

func nameOr(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}
