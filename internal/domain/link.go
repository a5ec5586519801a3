package domain

// LinkContext is everything a mapper may inspect when rewriting one url
type LinkContext struct {
	RawURL string
	Row    Cell   // the cell (or search-hit data) that carried the url
	Column *Field // nil when the url did not come from a described column
	Schema string // owning schema of the document, dotted
	Query  string // owning query of the document
}

// LookupTarget returns the lookup schema and query of the column, if any
func (c LinkContext) LookupTarget() (schema, query string, ok bool) {
	if !c.Column.HasLookup() {
		return "", "", false
	}
	return c.Column.Lookup.SchemaName, c.Column.Lookup.QueryName, true
}

// URLParam returns a query parameter of the raw url
func (c LinkContext) URLParam(name string) (string, bool) {
	return URLParam(c.RawURL, name)
}

// ResolutionKind distinguishes the three mapper outcomes
type ResolutionKind int

const (
	// ResolutionNoOpinion lets the next mapper try
	ResolutionNoOpinion ResolutionKind = iota
	// ResolutionRewritten replaces the url
	ResolutionRewritten
	// ResolutionSuppressed stops the scan and keeps the raw url
	ResolutionSuppressed
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionRewritten:
		return "rewritten"
	case ResolutionSuppressed:
		return "suppressed"
	default:
		return "no-opinion"
	}
}

// Resolution is the outcome of one mapper
type Resolution struct {
	Kind ResolutionKind
	URL  AppURL // set for routes built with Create
	Text string // set for literal replacements
}

// NoOpinion means the mapper does not recognise the link
func NoOpinion() Resolution {
	return Resolution{Kind: ResolutionNoOpinion}
}

// Suppressed means the raw url must be kept as-is
func Suppressed() Resolution {
	return Resolution{Kind: ResolutionSuppressed}
}

// Rewritten replaces the url with an application route
func Rewritten(u AppURL) Resolution {
	if u.IsZero() {
		return NoOpinion()
	}
	return Resolution{Kind: ResolutionRewritten, URL: u}
}

// RewrittenText replaces the url with a literal string
func RewrittenText(s string) Resolution {
	if s == "" {
		return NoOpinion()
	}
	return Resolution{Kind: ResolutionRewritten, Text: s}
}

// Decided reports whether the scan should stop
func (r Resolution) Decided() bool {
	return r.Kind != ResolutionNoOpinion
}

// Apply returns the url to emit in place of raw
func (r Resolution) Apply(raw string) string {
	if r.Kind != ResolutionRewritten {
		return raw
	}
	if r.Text != "" {
		return r.Text
	}
	return r.URL.ToHref()
}
