package reconcile

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match with errors.Is; the typed errors below
// unwrap to these.
var (
	ErrFormat          = errors.New("invalid version format")
	ErrNotFound        = errors.New("version list not found")
	ErrAmbiguous       = errors.New("version list declared more than once")
	ErrEmptySet        = errors.New("cannot determine minimum version from empty set")
	ErrNoValidVersions = errors.New("no valid versions found")
)

// FormatError reports a version token that does not have the MAJOR.MINOR.X shape.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version format: %q (%s, expected MAJOR.MINOR.X)", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// NotFoundError reports that the marker list is absent from the declared text.
type NotFoundError struct {
	Marker string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %s list", e.Marker)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
