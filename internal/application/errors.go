package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidRoute    = errors.New("invalid route")
	ErrUnknownKind     = errors.New("unknown route kind")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DocumentError is returned when a file cannot be read as the expected document
type DocumentError struct {
	Path   string
	Kind   string
	Reason string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("cannot read %s document %s: %s", e.Kind, e.Path, e.Reason)
}

func (e *DocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// RouteError represents a route that cannot be resolved
type RouteError struct {
	Route  string
	Reason string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("cannot resolve route %s: %s", e.Route, e.Reason)
}

func (e *RouteError) Is(target error) bool {
	return target == ErrInvalidRoute
}
