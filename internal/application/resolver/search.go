package resolver

import (
	"strings"

	"urlresolver/internal/domain"
)

// docIDParam marks search urls whose trailing parameters belong to the index
const docIDParam = "_docid"

// hitClass is the schema and query a search hit is resolved under
type hitClass struct {
	Schema string
	Query  string
}

// hitRule classifies one shape of search hit. Rules are tried in order.
type hitRule struct {
	name     string
	match    func(h domain.Hit) bool
	classify func(h domain.Hit) hitClass
}

func idContains(s string) func(domain.Hit) bool {
	return func(h domain.Hit) bool { return strings.Contains(h.ID, s) }
}

func fixed(schema, query string) func(domain.Hit) hitClass {
	return func(domain.Hit) hitClass { return hitClass{Schema: schema, Query: query} }
}

// dataName reads a nested name from hit data, e.g. data.sampleSet.name
func dataName(h domain.Hit, keys ...string) (string, bool) {
	c, ok := h.Data.Path(keys...)
	if !ok {
		return "", false
	}
	s, ok := c.Scalar()
	return s, ok && s != ""
}

// "materialSource" must be tested before "material"
var hitRules = []hitRule{
	{name: "data class", match: idContains("dataClass"), classify: fixed("exp", "DataClasses")},
	{name: "sample type", match: idContains("materialSource"), classify: fixed("exp", "SampleSets")},
	{name: "assay", match: idContains("assay"), classify: fixed("assay", "AssayList")},
	{
		name:  "sample",
		match: idContains("material"),
		classify: func(h domain.Hit) hitClass {
			if name, ok := dataName(h, "sampleSet", "name"); ok {
				return hitClass{Schema: "samples", Query: name}
			}
			return hitClass{Schema: "exp", Query: "Materials"}
		},
	},
	{
		name:  "data",
		match: func(h domain.Hit) bool { return h.HasData() && h.Data.Has("id") },
		classify: func(h domain.Hit) hitClass {
			if name, ok := dataName(h, "dataClass", "name"); ok {
				return hitClass{Schema: "exp.data", Query: name}
			}
			return hitClass{Schema: "exp", Query: "Data"}
		},
	},
}

// classifyHit returns the first matching rule's class. Only classified hits
// are resolved. The class reaches mappers as LinkContext.Schema and Query;
// hits carry no column, so lookup mappers never run for them.
func classifyHit(h domain.Hit) (hitClass, bool) {
	for _, r := range hitRules {
		if r.match(h) {
			return r.classify(h), true
		}
	}
	return hitClass{}, false
}

// trimDocID drops everything from the first "&" when the url carries the
// index document id
func trimDocID(raw string) string {
	if !strings.Contains(raw, docIDParam) {
		return raw
	}
	head, _, _ := strings.Cut(raw, "&")
	return head
}

func (w *walk) hit(h domain.Hit) domain.Hit {
	if !h.HasURL() || h.URL == "" {
		return h.Clone()
	}
	class, ok := classifyHit(h)
	if !ok {
		return h.Clone()
	}

	raw := trimDocID(h.URL)
	res, ok := w.resolve(domain.LinkContext{
		RawURL: raw,
		Row:    h.Data,
		Schema: class.Schema,
		Query:  class.Query,
	})
	if !ok || res.Kind != domain.ResolutionRewritten {
		return h.Clone()
	}
	return h.WithURL(res.Apply(raw))
}
