package mapping

import (
	"slices"

	"urlresolver/internal/domain"
)

// DefaultMapperName tags the mappers returned by Defaults
const DefaultMapperName = "default"

// Defaults returns the built-in mapper set in registration order
func Defaults() []Mapper {
	action := func(controller, action string, fn ResolveFunc) Mapper {
		return ActionMapper{Controller: controller, Action: action, Name: DefaultMapperName, Resolve: fn}
	}
	suppress := func(domain.LinkContext) domain.Resolution { return domain.Suppressed() }

	return []Mapper{
		action("experiment", "showDataClass", dataClassByValue),
		action("experiment", "showData", routeFromRowID("rd", "expdata")),
		action("experiment", "showMaterialSource", sampleTypeByName),
		action("experiment", "showSampleType", sampleTypeByName),
		action("experiment", "showMaterial", routeFromRowID("rd", "samples")),
		action("experiment", "showRunGraph", routeFromRowID("rd", "assayrun")),
		action("experiment", "showRunGraphDetail", routeFromRowID("rd", "assayrun")),
		action("assay", "assayBegin", routeFromParam("rowId", "assays")),
		action("assay", "assayRuns", routeFromParam("rowId", "assays")),
		action("list", "details", listRoute),
		action("list", "grid", listRoute),
		action("user", "details", routeFromParam("userId", "q", "core", "siteusers")),
		action("user", "showUpdate", routeFromParam("userId", "q", "core", "siteusers")),
		action("query", "executeQuery", executeQueryRoute),
		// row details go through the column lookup instead
		action("query", "detailsQueryRow", func(domain.LinkContext) domain.Resolution { return domain.NoOpinion() }),
		action("issues", "details", suppress),
		action("core", "downloadFileLink", suppress),
		action("experiment", "showFile", suppress),

		LookupMapper{
			DefaultPrefix: "q",
			Name:          DefaultMapperName,
			Resolvers: map[string]ResolveFunc{
				"exp-dataclasses": lookupRoute(displayFirst, "rd", "dataclass"),
				"exp-samplesets":  lookupRoute(displayFirst, "samples"),
				"exp-sampletypes": lookupRoute(displayFirst, "samples"),
				"exp-runs":        lookupRoute(valueFirst, "rd", "assayrun"),
				"exp-data":        lookupRoute(valueFirst, "rd", "expdata"),
				"exp-materials":   lookupRoute(valueFirst, "rd", "samples"),
				"issues":          suppress,
				"core-users":      lookupRoute(valueFirst, "q", "core", "siteusers"),
				"core-siteusers":  lookupRoute(valueFirst, "q", "core", "siteusers"),
			},
		},
	}
}

// dataClassByValue names the data class by the cell itself. Columns with a
// lookup are left to the lookup mappers.
func dataClassByValue(lc domain.LinkContext) domain.Resolution {
	if lc.Column.HasLookup() {
		return domain.NoOpinion()
	}
	name, ok := firstOf(lc.Row.Value, lc.Row.DisplayValue, nameMember(lc), nameParam(lc))
	if !ok {
		return domain.NoOpinion()
	}
	return build("rd", "dataclass", name)
}

func sampleTypeByName(lc domain.LinkContext) domain.Resolution {
	name, ok := firstOf(lc.Row.DisplayValue, nameMember(lc), nameParam(lc))
	if !ok {
		return domain.NoOpinion()
	}
	return build("samples", name)
}

// nameMember reads "name" from search-hit data, which has no value member
func nameMember(lc domain.LinkContext) func() (string, bool) {
	return func() (string, bool) { return lc.Row.String("name") }
}

func nameParam(lc domain.LinkContext) func() (string, bool) {
	return func() (string, bool) { return lc.URLParam("name") }
}

// routeFromRowID appends the url's rowId, or the cell value when the url has none
func routeFromRowID(parts ...string) ResolveFunc {
	return func(lc domain.LinkContext) domain.Resolution {
		id, ok := firstOf(func() (string, bool) { return lc.URLParam("rowId") }, lc.Row.Value)
		if !ok {
			return domain.NoOpinion()
		}
		return build(slices.Concat(parts, []string{id})...)
	}
}

func routeFromParam(param string, parts ...string) ResolveFunc {
	return func(lc domain.LinkContext) domain.Resolution {
		v, ok := lc.URLParam(param)
		if !ok || v == "" {
			return domain.NoOpinion()
		}
		return build(slices.Concat(parts, []string{v})...)
	}
}

func listRoute(lc domain.LinkContext) domain.Resolution {
	listID, ok := lc.URLParam("listId")
	if !ok || listID == "" {
		return domain.NoOpinion()
	}
	if pk, ok := lc.URLParam("pk"); ok && pk != "" {
		return build("q", "lists", listID, pk)
	}
	return build("q", "lists", listID)
}

func executeQueryRoute(lc domain.LinkContext) domain.Resolution {
	schema, ok := lc.URLParam("schemaName")
	if !ok || schema == "" {
		return domain.NoOpinion()
	}
	query, ok := lc.URLParam("query.queryName")
	if !ok || query == "" {
		return domain.NoOpinion()
	}
	return build("q", schema, query)
}

type pick func(domain.Cell) (string, bool)

func displayFirst(c domain.Cell) (string, bool) { return firstOf(c.DisplayValue, c.Value) }
func valueFirst(c domain.Cell) (string, bool)   { return firstOf(c.Value, c.DisplayValue) }

func lookupRoute(id pick, parts ...string) ResolveFunc {
	return func(lc domain.LinkContext) domain.Resolution {
		v, ok := id(lc.Row)
		if !ok {
			return domain.NoOpinion()
		}
		return build(slices.Concat(parts, []string{v})...)
	}
}

// firstOf returns the first non-empty value
func firstOf(getters ...func() (string, bool)) (string, bool) {
	for _, get := range getters {
		if v, ok := get(); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func build(parts ...string) domain.Resolution {
	args := make([]any, len(parts))
	for i, p := range parts {
		args[i] = p
	}
	u, err := domain.Create(args...)
	if err != nil {
		return domain.NoOpinion()
	}
	return domain.Rewritten(u)
}
