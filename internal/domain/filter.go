package domain

import (
	"fmt"
	"strings"
)

// DefaultDataRegion is the query-string prefix used for filter parameters
const DefaultDataRegion = "query"

// FilterType describes a comparison operator and how it is spelled in URLs
type FilterType struct {
	Name        string
	URLSuffix   string
	MultiValued bool
}

// Filter types understood by the server's query-string filter syntax
var (
	Equal           = FilterType{Name: "Equals", URLSuffix: "eq"}
	NotEqual        = FilterType{Name: "Does Not Equal", URLSuffix: "neq"}
	GreaterThan     = FilterType{Name: "Is Greater Than", URLSuffix: "gt"}
	GreaterOrEqual  = FilterType{Name: "Is Greater Than or Equal To", URLSuffix: "gte"}
	LessThan        = FilterType{Name: "Is Less Than", URLSuffix: "lt"}
	LessOrEqual     = FilterType{Name: "Is Less Than or Equal To", URLSuffix: "lte"}
	Contains        = FilterType{Name: "Contains", URLSuffix: "contains"}
	DoesNotContain  = FilterType{Name: "Does Not Contain", URLSuffix: "doesnotcontain"}
	StartsWith      = FilterType{Name: "Starts With", URLSuffix: "startswith"}
	IsBlank         = FilterType{Name: "Is Blank", URLSuffix: "isblank"}
	IsNotBlank      = FilterType{Name: "Is Not Blank", URLSuffix: "isnonblank"}
	EqualsOneOf     = FilterType{Name: "Equals One Of", URLSuffix: "in", MultiValued: true}
	EqualsNoneOf    = FilterType{Name: "Does Not Equal Any Of", URLSuffix: "notin", MultiValued: true}
	ContainsOneOf   = FilterType{Name: "Contains One Of", URLSuffix: "containsoneof", MultiValued: true}
	DateEqual       = FilterType{Name: "Equals", URLSuffix: "dateeq"}
	DateNotEqual    = FilterType{Name: "Does Not Equal", URLSuffix: "dateneq"}
	HasAnyValue     = FilterType{Name: "Has Any Value", URLSuffix: ""}
)

var filterTypesBySuffix = map[string]FilterType{}

func init() {
	for _, ft := range []FilterType{
		Equal, NotEqual, GreaterThan, GreaterOrEqual, LessThan, LessOrEqual,
		Contains, DoesNotContain, StartsWith, IsBlank, IsNotBlank,
		EqualsOneOf, EqualsNoneOf, ContainsOneOf, DateEqual, DateNotEqual,
	} {
		filterTypesBySuffix[ft.URLSuffix] = ft
	}
}

// FilterTypeForSuffix returns the filter type with the given URL suffix
func FilterTypeForSuffix(suffix string) (FilterType, bool) {
	ft, ok := filterTypesBySuffix[strings.ToLower(suffix)]
	return ft, ok
}

// Filter is a single column filter expression carried in a URL
type Filter struct {
	Column string
	Value  any
	Type   FilterType
	Region string // data region prefix; DefaultDataRegion when empty
}

// NewFilter creates a filter on column. It mirrors the server's argument order.
func NewFilter(column string, value any, ft FilterType) Filter {
	return Filter{Column: column, Value: value, Type: ft}
}

// URLParamName returns the parameter name, e.g. "query.Status~neq"
func (f Filter) URLParamName() string {
	region := f.Region
	if region == "" {
		region = DefaultDataRegion
	}
	if f.Type.URLSuffix == "" {
		return region + "." + f.Column
	}
	return region + "." + f.Column + "~" + f.Type.URLSuffix
}

// URLParamValue returns the serialized filter value
func (f Filter) URLParamValue() string {
	switch v := f.Value.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ";")
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ";")
	default:
		return fmt.Sprint(v)
	}
}

// ParseFilterParam parses a "query.Column~suffix" parameter back into a Filter.
// The second result is false when name is not a filter parameter.
func ParseFilterParam(name, value string) (Filter, bool) {
	region, rest, ok := strings.Cut(name, ".")
	if !ok || region == "" || rest == "" {
		return Filter{}, false
	}

	column, suffix, hasSuffix := strings.Cut(rest, "~")
	if column == "" {
		return Filter{}, false
	}
	if !hasSuffix {
		return Filter{Column: column, Value: value, Type: HasAnyValue, Region: region}, true
	}

	ft, ok := FilterTypeForSuffix(suffix)
	if !ok {
		return Filter{}, false
	}

	var v any = value
	if ft.MultiValued {
		v = strings.Split(value, ";")
	}
	return Filter{Column: column, Value: v, Type: ft, Region: region}, true
}
