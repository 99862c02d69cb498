// Package cvss implements the Common Vulnerability Scoring System.
//
// The primary purpose of this package and its subpackages is to parse
// CVSS vector strings, calculate the numerical score of the parsed
// representation, and produce the canonicalized representation of the
// vector.
//
// Version 3.0, 3.1, and 4.0 vectors are supported. Metrics and scoring
// are implemented as laid out in the relevant specification:
//
//   - https://www.first.org/cvss/v3-0/
//   - https://www.first.org/cvss/v3-1/
//   - https://www.first.org/cvss/v4-0/
//
// This package holds what is common to every version: the metric type
// registry, the score and severity types, and the vector-string
// grammar. The version-specific metric groups live in [v3] and [v4].
package cvss

import (
	"strings"
)

// Prefix is the leading identifier of every versioned vector string.
const Prefix = `CVSS`

// MetricType is a recognized metric type, identified by its acronym.
//
// The acronym-to-type mapping is bijective: every type has exactly one
// canonical (upper-case) acronym. Lookup is case-sensitive; callers
// should upper-case input before calling [ParseMetricType].
type MetricType int

// The recognized metric types.
//
// The first block is the v3 Base group, then the v3 Temporal and
// Environmental groups, then the types introduced by v4.
const (
	A  MetricType = iota // A
	AC                   // AC
	AV                   // AV
	C                    // C
	I                    // I
	PR                   // PR
	S                    // S
	UI                   // UI

	E  // E
	RL // RL
	RC // RC

	CR  // CR
	IR  // IR
	AR  // AR
	MAV // MAV
	MAC // MAC
	MPR // MPR
	MUI // MUI
	MS  // MS
	MC  // MC
	MI  // MI
	MA  // MA

	AT // AT
	VC // VC
	VI // VI
	VA // VA
	SC // SC
	SI // SI
	SA // SA

	numMetricTypes int = iota
)

var metricTypeNames = [numMetricTypes]string{
	"A", "AC", "AV", "C", "I", "PR", "S", "UI",
	"E", "RL", "RC",
	"CR", "IR", "AR", "MAV", "MAC", "MPR", "MUI", "MS", "MC", "MI", "MA",
	"AT", "VC", "VI", "VA", "SC", "SI", "SA",
}

var metricTypeDescriptions = [numMetricTypes]string{
	"Availability Impact",
	"Attack Complexity",
	"Attack Vector",
	"Confidentiality Impact",
	"Integrity Impact",
	"Privileges Required",
	"Scope",
	"User Interaction",
	"Exploit Code Maturity",
	"Remediation Level",
	"Report Confidence",
	"Confidentiality Requirement",
	"Integrity Requirement",
	"Availability Requirement",
	"Modified Attack Vector",
	"Modified Attack Complexity",
	"Modified Privileges Required",
	"Modified User Interaction",
	"Modified Scope",
	"Modified Confidentiality Impact",
	"Modified Integrity Impact",
	"Modified Availability Impact",
	"Attack Requirements",
	"Vulnerable System Confidentiality Impact",
	"Vulnerable System Integrity Impact",
	"Vulnerable System Availability Impact",
	"Subsequent System Confidentiality Impact",
	"Subsequent System Integrity Impact",
	"Subsequent System Availability Impact",
}

// Name reports the canonical acronym for the metric type.
func (t MetricType) Name() string { return metricTypeNames[t] }

// Description reports the long-form description of the metric type.
func (t MetricType) Description() string { return metricTypeDescriptions[t] }

// String implements [fmt.Stringer].
func (t MetricType) String() string { return t.Name() }

var metricTypeLookup = func() map[string]MetricType {
	m := make(map[string]MetricType, numMetricTypes)
	for i, n := range metricTypeNames {
		m[n] = MetricType(i)
	}
	return m
}()

// ParseMetricType maps an acronym to its [MetricType].
//
// A name not in the registry is reported as an [*UnknownMetricError].
func ParseMetricType(name string) (MetricType, error) {
	t, ok := metricTypeLookup[name]
	if !ok {
		return 0, &UnknownMetricError{Name: name}
	}
	return t, nil
}

// Component is one "ID:VALUE" pair of a vector string.
type Component struct {
	ID    string
	Value string
}

// SplitVector splits a vector string into its leading version component
// and the metric components following it.
//
// Every component must contain exactly one ":" separator; a component
// that does not is reported as an [*InvalidComponentError]. No further
// validation is done here: mapping IDs and values to metrics is the
// concern of the version-specific parsers.
func SplitVector(vector string) (version string, cs []Component, err error) {
	rest := vector
	first := true
	for len(rest) > 0 || first {
		var comp string
		comp, rest, _ = strings.Cut(rest, "/")
		id, value, ok := strings.Cut(comp, ":")
		if !ok || strings.Contains(value, ":") {
			return "", nil, &InvalidComponentError{Component: comp}
		}
		if first {
			first = false
			if id != Prefix {
				return "", nil, &InvalidPrefixError{Prefix: comp}
			}
			version = value
			continue
		}
		cs = append(cs, Component{ID: id, Value: value})
	}
	return version, cs, nil
}

// CheckVersion validates the version reported by [SplitVector] against
// the supported major.minor pairs, reporting an
// [*UnsupportedVersionError] on a mismatch.
func CheckVersion(version string, supported ...string) error {
	for _, s := range supported {
		if version == s {
			return nil
		}
	}
	return &UnsupportedVersionError{Version: version}
}
