// Package v4 implements the CVSS v4.0 Base metric group.
//
// The remaining v4.0 groups (Threat, Environmental, Supplemental) are
// not implemented yet; the Base aggregate is structured so they can be
// layered on the same way the v3 groups layer on [v3.Base].
package v4

import (
	"cmp"

	"github.com/amousset/rustsec/cvss"
)

// MetricInfo mirrors the helper in the v3 package: registry type,
// per-value codes, all indexed by the value's numeric representation.
type metricInfo struct {
	typ   cvss.MetricType
	codes []string
}

func (m *metricInfo) display(v int) string {
	return m.typ.Name() + ":" + m.codes[v]
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
type AttackVector int

// Attack Vector values, in increasing severity order.
const (
	AttackVectorPhysical AttackVector = iota + 1 // P
	AttackVectorLocal                            // L
	AttackVectorAdjacent                         // A
	AttackVectorNetwork                          // N
)

var attackVector = metricInfo{
	typ:   cvss.AV,
	codes: []string{"", "P", "L", "A", "N"},
}

// ParseAttackVector parses the single-letter code for the metric.
func ParseAttackVector(s string) (AttackVector, error) {
	v, err := attackVector.parse(s)
	return AttackVector(v), err
}

func (v AttackVector) Type() cvss.MetricType      { return attackVector.typ }
func (v AttackVector) Code() string               { return attackVector.codes[v] }
func (v AttackVector) String() string             { return attackVector.display(int(v)) }
func (v AttackVector) Compare(o AttackVector) int { return cmp.Compare(v, o) }

// Attack Complexity (AC).
type AttackComplexity int

// Attack Complexity values, in increasing severity order.
const (
	AttackComplexityHigh AttackComplexity = iota + 1 // H
	AttackComplexityLow                              // L
)

var attackComplexity = metricInfo{
	typ:   cvss.AC,
	codes: []string{"", "H", "L"},
}

// ParseAttackComplexity parses the single-letter code for the metric.
func ParseAttackComplexity(s string) (AttackComplexity, error) {
	v, err := attackComplexity.parse(s)
	return AttackComplexity(v), err
}

func (v AttackComplexity) Type() cvss.MetricType          { return attackComplexity.typ }
func (v AttackComplexity) Code() string                   { return attackComplexity.codes[v] }
func (v AttackComplexity) String() string                 { return attackComplexity.display(int(v)) }
func (v AttackComplexity) Compare(o AttackComplexity) int { return cmp.Compare(v, o) }

// Attack Requirements (AT).
type AttackRequirements int

// Attack Requirements values, in increasing severity order.
const (
	AttackRequirementsPresent AttackRequirements = iota + 1 // P
	AttackRequirementsNone                                  // N
)

var attackRequirements = metricInfo{
	typ:   cvss.AT,
	codes: []string{"", "P", "N"},
}

// ParseAttackRequirements parses the single-letter code for the metric.
func ParseAttackRequirements(s string) (AttackRequirements, error) {
	v, err := attackRequirements.parse(s)
	return AttackRequirements(v), err
}

func (v AttackRequirements) Type() cvss.MetricType            { return attackRequirements.typ }
func (v AttackRequirements) Code() string                     { return attackRequirements.codes[v] }
func (v AttackRequirements) String() string                   { return attackRequirements.display(int(v)) }
func (v AttackRequirements) Compare(o AttackRequirements) int { return cmp.Compare(v, o) }

// Privileges Required (PR).
type PrivilegesRequired int

// Privileges Required values, in increasing severity order.
const (
	PrivilegesRequiredHigh PrivilegesRequired = iota + 1 // H
	PrivilegesRequiredLow                                // L
	PrivilegesRequiredNone                               // N
)

var privilegesRequired = metricInfo{
	typ:   cvss.PR,
	codes: []string{"", "H", "L", "N"},
}

// ParsePrivilegesRequired parses the single-letter code for the metric.
func ParsePrivilegesRequired(s string) (PrivilegesRequired, error) {
	v, err := privilegesRequired.parse(s)
	return PrivilegesRequired(v), err
}

func (v PrivilegesRequired) Type() cvss.MetricType            { return privilegesRequired.typ }
func (v PrivilegesRequired) Code() string                     { return privilegesRequired.codes[v] }
func (v PrivilegesRequired) String() string                   { return privilegesRequired.display(int(v)) }
func (v PrivilegesRequired) Compare(o PrivilegesRequired) int { return cmp.Compare(v, o) }

// User Interaction (UI).
type UserInteraction int

// User Interaction values, in increasing severity order.
const (
	UserInteractionActive  UserInteraction = iota + 1 // A
	UserInteractionPassive                            // P
	UserInteractionNone                               // N
)

var userInteraction = metricInfo{
	typ:   cvss.UI,
	codes: []string{"", "A", "P", "N"},
}

// ParseUserInteraction parses the single-letter code for the metric.
func ParseUserInteraction(s string) (UserInteraction, error) {
	v, err := userInteraction.parse(s)
	return UserInteraction(v), err
}

func (v UserInteraction) Type() cvss.MetricType         { return userInteraction.typ }
func (v UserInteraction) Code() string                  { return userInteraction.codes[v] }
func (v UserInteraction) String() string                { return userInteraction.display(int(v)) }
func (v UserInteraction) Compare(o UserInteraction) int { return cmp.Compare(v, o) }

// Impact is the shared value set of the six v4 impact metrics: the
// confidentiality, integrity, and availability impacts to the
// vulnerable and subsequent systems.
type Impact int

// Impact values, in increasing severity order.
const (
	ImpactNone Impact = iota + 1 // N
	ImpactLow                    // L
	ImpactHigh                   // H
)

var impactCodes = []string{"", "N", "L", "H"}

// Compare orders impact values by severity.
func (v Impact) Compare(o Impact) int { return cmp.Compare(v, o) }

// Code reports the canonical one-letter code for the value.
func (v Impact) Code() string { return impactCodes[v] }

func parseImpact(t cvss.MetricType, s string) (Impact, error) {
	for i, c := range impactCodes {
		if c != "" && c == s {
			return Impact(i), nil
		}
	}
	return 0, &cvss.InvalidMetricError{Type: t, Value: s}
}
