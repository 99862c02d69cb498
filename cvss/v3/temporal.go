package v3

import (
	"encoding"
	"fmt"
	"strings"

	"github.com/amousset/rustsec/cvss"
)

// Exploit Code Maturity (E).
//
// Measures the likelihood of the vulnerability being attacked, based on
// the current state of exploit techniques. The zero value is Not
// Defined, which scores the same as High.
type ExploitCodeMaturity int

// Exploit Code Maturity values, in increasing severity order.
const (
	ExploitCodeMaturityNotDefined     ExploitCodeMaturity = iota // X
	ExploitCodeMaturityUnproven                                  // U
	ExploitCodeMaturityProofOfConcept                            // P
	ExploitCodeMaturityFunctional                                // F
	ExploitCodeMaturityHigh                                      // H
)

var exploitCodeMaturity = metricInfo{
	typ:     cvss.E,
	codes:   []string{"X", "U", "P", "F", "H"},
	weights: []float64{1, 0.91, 0.94, 0.97, 1},
}

// ParseExploitCodeMaturity parses the single-letter code for the metric.
func ParseExploitCodeMaturity(s string) (ExploitCodeMaturity, error) {
	v, err := exploitCodeMaturity.parse(s)
	return ExploitCodeMaturity(v), err
}

func (v ExploitCodeMaturity) Type() cvss.MetricType { return exploitCodeMaturity.typ }
func (v ExploitCodeMaturity) Code() string          { return exploitCodeMaturity.codes[v] }
func (v ExploitCodeMaturity) Weight() float64       { return exploitCodeMaturity.weights[v] }
func (v ExploitCodeMaturity) String() string        { return exploitCodeMaturity.display(int(v)) }
func (v ExploitCodeMaturity) Compare(o ExploitCodeMaturity) int {
	return exploitCodeMaturity.compare(int(v), int(o))
}

// Remediation Level (RL).
//
// Captures how complete a fix for the vulnerability is. The zero value
// is Not Defined, which scores the same as Unavailable.
type RemediationLevel int

// Remediation Level values, in increasing severity order.
const (
	RemediationLevelNotDefined   RemediationLevel = iota // X
	RemediationLevelOfficialFix                          // O
	RemediationLevelTemporaryFix                         // T
	RemediationLevelWorkaround                           // W
	RemediationLevelUnavailable                          // U
)

var remediationLevel = metricInfo{
	typ:     cvss.RL,
	codes:   []string{"X", "O", "T", "W", "U"},
	weights: []float64{1, 0.95, 0.96, 0.97, 1},
}

// ParseRemediationLevel parses the single-letter code for the metric.
func ParseRemediationLevel(s string) (RemediationLevel, error) {
	v, err := remediationLevel.parse(s)
	return RemediationLevel(v), err
}

func (v RemediationLevel) Type() cvss.MetricType { return remediationLevel.typ }
func (v RemediationLevel) Code() string          { return remediationLevel.codes[v] }
func (v RemediationLevel) Weight() float64       { return remediationLevel.weights[v] }
func (v RemediationLevel) String() string        { return remediationLevel.display(int(v)) }
func (v RemediationLevel) Compare(o RemediationLevel) int {
	return remediationLevel.compare(int(v), int(o))
}

// Report Confidence (RC).
//
// Measures the degree of confidence in the existence of the
// vulnerability. The zero value is Not Defined, which scores the same
// as Confirmed.
type ReportConfidence int

// Report Confidence values, in increasing severity order.
const (
	ReportConfidenceNotDefined ReportConfidence = iota // X
	ReportConfidenceUnknown                            // U
	ReportConfidenceReasonable                         // R
	ReportConfidenceConfirmed                          // C
)

var reportConfidence = metricInfo{
	typ:     cvss.RC,
	codes:   []string{"X", "U", "R", "C"},
	weights: []float64{1, 0.92, 0.96, 1},
}

// ParseReportConfidence parses the single-letter code for the metric.
func ParseReportConfidence(s string) (ReportConfidence, error) {
	v, err := reportConfidence.parse(s)
	return ReportConfidence(v), err
}

func (v ReportConfidence) Type() cvss.MetricType { return reportConfidence.typ }
func (v ReportConfidence) Code() string          { return reportConfidence.codes[v] }
func (v ReportConfidence) Weight() float64       { return reportConfidence.weights[v] }
func (v ReportConfidence) String() string        { return reportConfidence.display(int(v)) }
func (v ReportConfidence) Compare(o ReportConfidence) int {
	return reportConfidence.compare(int(v), int(o))
}

// Temporal is the CVSS v3 Temporal metric group: a Base group plus the
// three optional temporal metrics.
//
// Each temporal metric defaults to Not Defined, which is the
// multiplicative identity in the temporal equation, so a Temporal group
// with no temporal metrics scores identically to its Base group.
type Temporal struct {
	Base Base

	E  ExploitCodeMaturity
	RL RemediationLevel
	RC ReportConfidence
}

var (
	_ encoding.TextMarshaler   = (*Temporal)(nil)
	_ encoding.TextUnmarshaler = (*Temporal)(nil)
	_ fmt.Stringer             = (*Temporal)(nil)
)

// ParseTemporal parses the provided string as a v3 Temporal vector: a
// Base vector optionally extended with E, RL, and RC components.
func ParseTemporal(s string) (t Temporal, err error) {
	return t, t.UnmarshalText([]byte(s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *Temporal) UnmarshalText(text []byte) error {
	cs, err := t.parseTemporal(string(text))
	switch {
	case err != nil:
	case len(cs) != 0:
		err = fmt.Errorf("%w: unexpected metric %q in temporal vector", cvss.ErrMalformedVector, cs[0].ID)
	}
	if err != nil {
		return fmt.Errorf("cvss v3: %w", err)
	}
	return nil
}

func (t *Temporal) parseTemporal(s string) ([]cvss.Component, error) {
	cs, err := t.Base.parseBase(s)
	if err != nil {
		return nil, err
	}
	var rest []cvss.Component
	for _, c := range cs {
		// The ID was already validated by the Base parse.
		mt, _ := cvss.ParseMetricType(c.ID)
		var err error
		switch mt {
		case cvss.E:
			t.E, err = ParseExploitCodeMaturity(c.Value)
		case cvss.RL:
			t.RL, err = ParseRemediationLevel(c.Value)
		case cvss.RC:
			t.RC, err = ParseReportConfidence(c.Value)
		default:
			rest = append(rest, c)
		}
		if err != nil {
			return nil, err
		}
	}
	return rest, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (t *Temporal) MarshalText() ([]byte, error) {
	var sb strings.Builder
	t.Base.marshalBase(&sb)
	t.marshalTemporal(&sb)
	return []byte(sb.String()), nil
}

// MarshalTemporal appends the defined temporal components. Not Defined
// metrics are omitted; they are the parse default, so the canonical
// form does not spell them out.
func (t *Temporal) marshalTemporal(sb *strings.Builder) {
	if t.E != ExploitCodeMaturityNotDefined {
		sb.WriteByte('/')
		sb.WriteString(t.E.String())
	}
	if t.RL != RemediationLevelNotDefined {
		sb.WriteByte('/')
		sb.WriteString(t.RL.String())
	}
	if t.RC != ReportConfidenceNotDefined {
		sb.WriteByte('/')
		sb.WriteString(t.RC.String())
	}
}

// String implements [fmt.Stringer].
func (t *Temporal) String() string {
	b, _ := t.MarshalText()
	return string(b)
}

// Score reports the Temporal score: the rounded Base score scaled by
// the temporal weights and rounded again.
func (t *Temporal) Score() cvss.Score {
	return t.temporalScore(t.Base.Score())
}

func (t *Temporal) temporalScore(base cvss.Score) cvss.Score {
	return (base * cvss.Score(t.E.Weight()*t.RL.Weight()*t.RC.Weight())).Roundup()
}

// Severity reports the qualitative severity rating for the Temporal
// score.
func (t *Temporal) Severity() cvss.Severity {
	return t.Score().Severity()
}
