package cvss

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedVector is reported when a vector string is invalid in
// some way.
//
// Every parse error in this package and its subpackages unwraps to this
// sentinel, so callers that don't care about the particular failure can
// test for it with [errors.Is].
var ErrMalformedVector = errors.New("malformed vector")

// UnknownMetricError is reported when a component names an acronym that
// is not in the metric type registry.
type UnknownMetricError struct {
	Name string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric type: %q", e.Name)
}

func (e *UnknownMetricError) Unwrap() error { return ErrMalformedVector }

// InvalidMetricError is reported when a recognized metric type carries
// a value that is not defined for it.
type InvalidMetricError struct {
	Type  MetricType
	Value string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid value for metric %v: %q", e.Type, e.Value)
}

func (e *InvalidMetricError) Unwrap() error { return ErrMalformedVector }

// InvalidComponentError is reported when a component of a vector string
// does not contain exactly one ":" separator.
type InvalidComponentError struct {
	Component string
}

func (e *InvalidComponentError) Error() string {
	return fmt.Sprintf("invalid component: %q", e.Component)
}

func (e *InvalidComponentError) Unwrap() error { return ErrMalformedVector }

// InvalidPrefixError is reported when the first component of a vector
// string is not the expected "CVSS" prefix.
type InvalidPrefixError struct {
	Prefix string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("invalid prefix: %q", e.Prefix)
}

func (e *InvalidPrefixError) Unwrap() error { return ErrMalformedVector }

// UnsupportedVersionError is reported when the version component names
// a major.minor pair that is not implemented.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported version: %q", e.Version)
}

func (e *UnsupportedVersionError) Unwrap() error { return ErrMalformedVector }

// MissingMetricError is reported when a metric group is missing one or
// more of its mandatory metrics.
type MissingMetricError struct {
	Types []MetricType
}

func (e *MissingMetricError) Error() string {
	ns := make([]string, len(e.Types))
	for i, t := range e.Types {
		ns[i] = t.Name()
	}
	return fmt.Sprintf("missing mandatory metric(s): %s", strings.Join(ns, ", "))
}

func (e *MissingMetricError) Unwrap() error { return ErrMalformedVector }
