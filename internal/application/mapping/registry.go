package mapping

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"urlresolver/internal/domain"
	"urlresolver/internal/logging"
	"urlresolver/internal/ports"
)

// DefaultContextPath is the server context root stripped before parsing urls
const DefaultContextPath = "/labkey"

// Registry holds the mappers and route resolvers in registration order.
// Entries are only ever added, so readers work on a snapshot of the slices.
type Registry struct {
	mu      sync.RWMutex
	actions []ActionMapper
	lookups []LookupMapper
	keys    map[Key]struct{}

	routes     []ports.RouteResolver
	routeNames map[string]struct{}

	contextPath string
	devMode     bool
	logger      *slog.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithContextPath sets the server context root, e.g. "/labkey"
func WithContextPath(p string) Option {
	return func(r *Registry) { r.contextPath = p }
}

// WithDevMode enables warnings for urls no mapper recognises
func WithDevMode(on bool) Option {
	return func(r *Registry) { r.devMode = on }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		keys:        make(map[Key]struct{}),
		routeNames:  make(map[string]struct{}),
		contextPath: DefaultContextPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.Default(r.logger).With("component", "mapping")
	return r
}

// ContextPath returns the configured server context root
func (r *Registry) ContextPath() string {
	return r.contextPath
}

// DevMode reports whether unmapped-url warnings are enabled
func (r *Registry) DevMode() bool {
	return r.devMode
}

// Register appends mappers in order. A mapper whose key is already
// registered is skipped. Returns how many were added.
func (r *Registry) Register(mappers ...Mapper) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, m := range mappers {
		switch v := m.(type) {
		case nil:
		case ActionMapper:
			added += r.addAction(v)
		case *ActionMapper:
			if v != nil {
				added += r.addAction(*v)
			}
		case LookupMapper:
			added += r.addLookup(v)
		case *LookupMapper:
			if v != nil {
				added += r.addLookup(*v)
			}
		default:
			r.logger.Warn("ignoring mapper of unknown type", "type", fmt.Sprintf("%T", m))
		}
	}
	return added
}

func (r *Registry) addAction(m ActionMapper) int {
	if !r.claim(m.Key()) {
		return 0
	}
	r.actions = append(r.actions, m)
	return 1
}

func (r *Registry) addLookup(m LookupMapper) int {
	if !r.claim(m.Key()) {
		return 0
	}
	r.lookups = append(r.lookups, m)
	return 1
}

// claim records key, reporting false when it was already taken
func (r *Registry) claim(key Key) bool {
	if _, dup := r.keys[key]; dup {
		return false
	}
	r.keys[key] = struct{}{}
	return true
}

// RegisterAppRouteResolvers appends route resolvers in order, skipping any
// whose name is already registered. Returns how many were added.
func (r *Registry) RegisterAppRouteResolvers(resolvers ...ports.RouteResolver) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, rr := range resolvers {
		if rr == nil {
			continue
		}
		if _, dup := r.routeNames[rr.Name()]; dup {
			continue
		}
		r.routeNames[rr.Name()] = struct{}{}
		r.routes = append(r.routes, rr)
		added++
	}
	return added
}

// RouteResolvers returns the registered route resolvers in order
func (r *Registry) RouteResolvers() []ports.RouteResolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.routes)
}

// Mappers returns every registered mapper, action mappers first
func (r *Registry) Mappers() []Mapper {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Mapper, 0, len(r.actions)+len(r.lookups))
	for _, m := range r.actions {
		out = append(out, m)
	}
	for _, m := range r.lookups {
		out = append(out, m)
	}
	return out
}

func (r *Registry) snapshot() ([]ActionMapper, []LookupMapper) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions, r.lookups
}

// Resolve decides what to do with one link. Action mappers matching the
// url's controller and action go first, then lookup mappers when the
// column has a lookup. The first decided result wins.
func (r *Registry) Resolve(lc domain.LinkContext) domain.Resolution {
	if lc.RawURL == "" {
		return domain.NoOpinion()
	}
	actions, lookups := r.snapshot()

	pn := domain.ParsePathName(lc.RawURL, r.contextPath)
	if pn.Controller != "" && pn.Action != "" {
		for _, m := range actions {
			if !m.matches(pn) {
				continue
			}
			if res := m.resolve(lc); res.Decided() {
				return res
			}
		}
	}

	if lc.Column.HasLookup() {
		for _, m := range lookups {
			if res := m.Resolve(lc); res.Decided() {
				return res
			}
		}
	}

	if r.devMode {
		r.logger.Warn("unmapped url",
			"url", lc.RawURL,
			"controller", pn.Controller,
			"action", pn.Action,
			"schema", lc.Schema,
			"query", lc.Query)
	}
	return domain.NoOpinion()
}

// MapURL returns the url to emit for lc: the rewritten route, or the raw url
func (r *Registry) MapURL(lc domain.LinkContext) string {
	return r.Resolve(lc).Apply(lc.RawURL)
}
