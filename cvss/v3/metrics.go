// Package v3 implements the CVSS v3.0 and v3.1 metric groups: Base,
// Temporal, and Environmental.
//
// Every metric is a small value type declared in increasing severity
// order, carrying the canonical one-letter code and the numeric weight
// from the specification's tables. The zero value of a Base metric is
// "unset" and never valid in a parsed group; the zero value of a
// Temporal or Environmental metric is the specified "Not Defined"
// level.
package v3

import (
	"cmp"

	"github.com/amousset/rustsec/cvss"
)

// MetricInfo holds what the uniform metric methods need: the registry
// type, the per-value codes, and the per-value weights, all indexed by
// the value's numeric representation.
type metricInfo struct {
	typ     cvss.MetricType
	codes   []string
	weights []float64
}

func (m *metricInfo) display(v int) string {
	return m.typ.Name() + ":" + m.codes[v]
}

// Compare orders values by weight first, then by declaration order, so
// the severity semantics stay explicit rather than incidental.
func (m *metricInfo) compare(a, b int) int {
	if c := cmp.Compare(m.weights[a], m.weights[b]); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

func (m *metricInfo) parse(s string) (int, error) {
	for i, c := range m.codes {
		if c != "" && c == s {
			return i, nil
		}
	}
	return 0, &cvss.InvalidMetricError{Type: m.typ, Value: s}
}

// Attack Vector (AV).
//
// Reflects the context by which vulnerability exploitation is possible.
type AttackVector int

// Attack Vector values, in increasing severity order.
const (
	AttackVectorPhysical AttackVector = iota + 1 // P
	AttackVectorLocal                            // L
	AttackVectorAdjacent                         // A
	AttackVectorNetwork                          // N
)

var attackVector = metricInfo{
	typ:     cvss.AV,
	codes:   []string{"", "P", "L", "A", "N"},
	weights: []float64{0, 0.2, 0.55, 0.62, 0.85},
}

// ParseAttackVector parses the single-letter code for the metric.
func ParseAttackVector(s string) (AttackVector, error) {
	v, err := attackVector.parse(s)
	return AttackVector(v), err
}

func (v AttackVector) Type() cvss.MetricType      { return attackVector.typ }
func (v AttackVector) Code() string               { return attackVector.codes[v] }
func (v AttackVector) Weight() float64            { return attackVector.weights[v] }
func (v AttackVector) String() string             { return attackVector.display(int(v)) }
func (v AttackVector) Compare(o AttackVector) int { return attackVector.compare(int(v), int(o)) }

// Attack Complexity (AC).
//
// Describes the conditions beyond the attacker's control that must
// exist in order to exploit the vulnerability.
type AttackComplexity int

// Attack Complexity values, in increasing severity order.
const (
	AttackComplexityHigh AttackComplexity = iota + 1 // H
	AttackComplexityLow                              // L
)

var attackComplexity = metricInfo{
	typ:     cvss.AC,
	codes:   []string{"", "H", "L"},
	weights: []float64{0, 0.44, 0.77},
}

// ParseAttackComplexity parses the single-letter code for the metric.
func ParseAttackComplexity(s string) (AttackComplexity, error) {
	v, err := attackComplexity.parse(s)
	return AttackComplexity(v), err
}

func (v AttackComplexity) Type() cvss.MetricType { return attackComplexity.typ }
func (v AttackComplexity) Code() string          { return attackComplexity.codes[v] }
func (v AttackComplexity) Weight() float64       { return attackComplexity.weights[v] }
func (v AttackComplexity) String() string        { return attackComplexity.display(int(v)) }
func (v AttackComplexity) Compare(o AttackComplexity) int {
	return attackComplexity.compare(int(v), int(o))
}

// Privileges Required (PR).
//
// Describes the level of privileges an attacker must possess before
// successfully exploiting the vulnerability.
type PrivilegesRequired int

// Privileges Required values, in increasing severity order.
const (
	PrivilegesRequiredHigh PrivilegesRequired = iota + 1 // H
	PrivilegesRequiredLow                                // L
	PrivilegesRequiredNone                               // N
)

var privilegesRequired = metricInfo{
	typ:     cvss.PR,
	codes:   []string{"", "H", "L", "N"},
	weights: []float64{0, 0.27, 0.62, 0.85},
}

// Weights used when the Scope of the surrounding group is Changed.
var privilegesRequiredScopedWeights = []float64{0, 0.5, 0.68, 0.85}

// ParsePrivilegesRequired parses the single-letter code for the metric.
func ParsePrivilegesRequired(s string) (PrivilegesRequired, error) {
	v, err := privilegesRequired.parse(s)
	return PrivilegesRequired(v), err
}

func (v PrivilegesRequired) Type() cvss.MetricType { return privilegesRequired.typ }
func (v PrivilegesRequired) Code() string          { return privilegesRequired.codes[v] }
func (v PrivilegesRequired) Weight() float64       { return privilegesRequired.weights[v] }
func (v PrivilegesRequired) String() string        { return privilegesRequired.display(int(v)) }
func (v PrivilegesRequired) Compare(o PrivilegesRequired) int {
	return privilegesRequired.compare(int(v), int(o))
}

// ScopedWeight reports the weight for the metric given the Scope of the
// group it appears in. Privileges Required is the only metric whose
// weight depends on a sibling metric, so the dependency is an explicit
// parameter here instead of hidden state.
func (v PrivilegesRequired) ScopedWeight(scopeChanged bool) float64 {
	if scopeChanged {
		return privilegesRequiredScopedWeights[v]
	}
	return privilegesRequired.weights[v]
}

// User Interaction (UI).
//
// Captures whether a user other than the attacker must participate in
// the successful compromise.
type UserInteraction int

// User Interaction values, in increasing severity order.
const (
	UserInteractionRequired UserInteraction = iota + 1 // R
	UserInteractionNone                                // N
)

var userInteraction = metricInfo{
	typ:     cvss.UI,
	codes:   []string{"", "R", "N"},
	weights: []float64{0, 0.62, 0.85},
}

// ParseUserInteraction parses the single-letter code for the metric.
func ParseUserInteraction(s string) (UserInteraction, error) {
	v, err := userInteraction.parse(s)
	return UserInteraction(v), err
}

func (v UserInteraction) Type() cvss.MetricType { return userInteraction.typ }
func (v UserInteraction) Code() string          { return userInteraction.codes[v] }
func (v UserInteraction) Weight() float64       { return userInteraction.weights[v] }
func (v UserInteraction) String() string        { return userInteraction.display(int(v)) }
func (v UserInteraction) Compare(o UserInteraction) int {
	return userInteraction.compare(int(v), int(o))
}

// Scope (S).
//
// Captures whether a vulnerability in one component impacts resources
// beyond its security scope. Scope has no weight of its own; it selects
// the branch of the scoring equations and re-weights Privileges
// Required.
type Scope int

// Scope values, in increasing severity order.
const (
	ScopeUnchanged Scope = iota + 1 // U
	ScopeChanged                    // C
)

var scope = metricInfo{
	typ:     cvss.S,
	codes:   []string{"", "U", "C"},
	weights: []float64{0, 0, 0},
}

// ParseScope parses the single-letter code for the metric.
func ParseScope(s string) (Scope, error) {
	v, err := scope.parse(s)
	return Scope(v), err
}

func (v Scope) Type() cvss.MetricType { return scope.typ }
func (v Scope) Code() string          { return scope.codes[v] }
func (v Scope) String() string        { return scope.display(int(v)) }
func (v Scope) Compare(o Scope) int   { return scope.compare(int(v), int(o)) }

// Changed reports whether the scope is Changed.
func (v Scope) Changed() bool { return v == ScopeChanged }

// Confidentiality Impact (C).
type Confidentiality int

// Confidentiality values, in increasing severity order.
const (
	ConfidentialityNone Confidentiality = iota + 1 // N
	ConfidentialityLow                             // L
	ConfidentialityHigh                            // H
)

var confidentiality = metricInfo{
	typ:     cvss.C,
	codes:   []string{"", "N", "L", "H"},
	weights: []float64{0, 0, 0.22, 0.56},
}

// ParseConfidentiality parses the single-letter code for the metric.
func ParseConfidentiality(s string) (Confidentiality, error) {
	v, err := confidentiality.parse(s)
	return Confidentiality(v), err
}

func (v Confidentiality) Type() cvss.MetricType { return confidentiality.typ }
func (v Confidentiality) Code() string          { return confidentiality.codes[v] }
func (v Confidentiality) Weight() float64       { return confidentiality.weights[v] }
func (v Confidentiality) String() string        { return confidentiality.display(int(v)) }
func (v Confidentiality) Compare(o Confidentiality) int {
	return confidentiality.compare(int(v), int(o))
}

// Integrity Impact (I).
type Integrity int

// Integrity values, in increasing severity order.
const (
	IntegrityNone Integrity = iota + 1 // N
	IntegrityLow                       // L
	IntegrityHigh                      // H
)

var integrity = metricInfo{
	typ:     cvss.I,
	codes:   []string{"", "N", "L", "H"},
	weights: []float64{0, 0, 0.22, 0.56},
}

// ParseIntegrity parses the single-letter code for the metric.
func ParseIntegrity(s string) (Integrity, error) {
	v, err := integrity.parse(s)
	return Integrity(v), err
}

func (v Integrity) Type() cvss.MetricType  { return integrity.typ }
func (v Integrity) Code() string           { return integrity.codes[v] }
func (v Integrity) Weight() float64        { return integrity.weights[v] }
func (v Integrity) String() string         { return integrity.display(int(v)) }
func (v Integrity) Compare(o Integrity) int { return integrity.compare(int(v), int(o)) }

// Availability Impact (A).
type Availability int

// Availability values, in increasing severity order.
const (
	AvailabilityNone Availability = iota + 1 // N
	AvailabilityLow                          // L
	AvailabilityHigh                         // H
)

var availability = metricInfo{
	typ:     cvss.A,
	codes:   []string{"", "N", "L", "H"},
	weights: []float64{0, 0, 0.22, 0.56},
}

// ParseAvailability parses the single-letter code for the metric.
func ParseAvailability(s string) (Availability, error) {
	v, err := availability.parse(s)
	return Availability(v), err
}

func (v Availability) Type() cvss.MetricType { return availability.typ }
func (v Availability) Code() string          { return availability.codes[v] }
func (v Availability) Weight() float64       { return availability.weights[v] }
func (v Availability) String() string        { return availability.display(int(v)) }
func (v Availability) Compare(o Availability) int {
	return availability.compare(int(v), int(o))
}
