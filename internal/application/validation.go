package application

import (
	"fmt"
	"strings"

	"urlresolver/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for error messages (e.g., "contextPath" -> "context path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"contextPath": "context path",
		"rawURL":      "url",
		"route":       "route",
		"kind":        "kind",
		"path":        "path",
		"segments":    "segments",
	}
	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateRouteKind checks that s names a catalog kind
func ValidateRouteKind(fieldName, s string) (domain.RouteKind, error) {
	kind := domain.ParseRouteKind(s)
	if kind == domain.RouteUnknown {
		return kind, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown kind %q (expected assay, assayrun, list or sample)", s),
		}
	}
	return kind, nil
}

// ValidateRoute checks that route is an application route such as "/rd/samples/4" or "#/rd/samples/4"
func ValidateRoute(fieldName, route string) error {
	if err := ValidateRequired(fieldName, route); err != nil {
		return err
	}
	if !strings.HasPrefix(strings.TrimPrefix(route, "#"), "/") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must start with /, got: %s", formatFieldName(fieldName), route),
		}
	}
	return nil
}

// ValidateContextPath checks that an optional context path is rooted
func ValidateContextPath(fieldName, contextPath string) error {
	if contextPath == "" {
		return nil
	}
	if !strings.HasPrefix(contextPath, "/") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must start with /, got: %s", formatFieldName(fieldName), contextPath),
		}
	}
	return nil
}
