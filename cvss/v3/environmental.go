package v3

import (
	"encoding"
	"fmt"
	"math"
	"strings"

	"github.com/amousset/rustsec/cvss"
)

// Confidentiality Requirement (CR).
//
// Weights the importance of confidentiality to the analyst's
// environment. The zero value is Not Defined, scoring the same as
// Medium.
type ConfidentialityRequirement int

// Confidentiality Requirement values, in increasing severity order.
const (
	ConfidentialityRequirementNotDefined ConfidentialityRequirement = iota // X
	ConfidentialityRequirementLow                                          // L
	ConfidentialityRequirementMedium                                       // M
	ConfidentialityRequirementHigh                                         // H
)

var confidentialityRequirement = metricInfo{
	typ:     cvss.CR,
	codes:   []string{"X", "L", "M", "H"},
	weights: []float64{1, 0.5, 1, 1.5},
}

// ParseConfidentialityRequirement parses the single-letter code for the metric.
func ParseConfidentialityRequirement(s string) (ConfidentialityRequirement, error) {
	v, err := confidentialityRequirement.parse(s)
	return ConfidentialityRequirement(v), err
}

func (v ConfidentialityRequirement) Type() cvss.MetricType { return confidentialityRequirement.typ }
func (v ConfidentialityRequirement) Code() string          { return confidentialityRequirement.codes[v] }
func (v ConfidentialityRequirement) Weight() float64 {
	return confidentialityRequirement.weights[v]
}
func (v ConfidentialityRequirement) String() string {
	return confidentialityRequirement.display(int(v))
}
func (v ConfidentialityRequirement) Compare(o ConfidentialityRequirement) int {
	return confidentialityRequirement.compare(int(v), int(o))
}

// Integrity Requirement (IR).
//
// Weights the importance of integrity to the analyst's environment. The
// zero value is Not Defined, scoring the same as Medium.
type IntegrityRequirement int

// Integrity Requirement values, in increasing severity order.
const (
	IntegrityRequirementNotDefined IntegrityRequirement = iota // X
	IntegrityRequirementLow                                    // L
	IntegrityRequirementMedium                                 // M
	IntegrityRequirementHigh                                   // H
)

var integrityRequirement = metricInfo{
	typ:     cvss.IR,
	codes:   []string{"X", "L", "M", "H"},
	weights: []float64{1, 0.5, 1, 1.5},
}

// ParseIntegrityRequirement parses the single-letter code for the metric.
func ParseIntegrityRequirement(s string) (IntegrityRequirement, error) {
	v, err := integrityRequirement.parse(s)
	return IntegrityRequirement(v), err
}

func (v IntegrityRequirement) Type() cvss.MetricType { return integrityRequirement.typ }
func (v IntegrityRequirement) Code() string          { return integrityRequirement.codes[v] }
func (v IntegrityRequirement) Weight() float64       { return integrityRequirement.weights[v] }
func (v IntegrityRequirement) String() string        { return integrityRequirement.display(int(v)) }
func (v IntegrityRequirement) Compare(o IntegrityRequirement) int {
	return integrityRequirement.compare(int(v), int(o))
}

// Availability Requirement (AR).
//
// Weights the importance of availability to the analyst's environment.
// The zero value is Not Defined, scoring the same as Medium.
type AvailabilityRequirement int

// Availability Requirement values, in increasing severity order.
const (
	AvailabilityRequirementNotDefined AvailabilityRequirement = iota // X
	AvailabilityRequirementLow                                       // L
	AvailabilityRequirementMedium                                    // M
	AvailabilityRequirementHigh                                      // H
)

var availabilityRequirement = metricInfo{
	typ:     cvss.AR,
	codes:   []string{"X", "L", "M", "H"},
	weights: []float64{1, 0.5, 1, 1.5},
}

// ParseAvailabilityRequirement parses the single-letter code for the metric.
func ParseAvailabilityRequirement(s string) (AvailabilityRequirement, error) {
	v, err := availabilityRequirement.parse(s)
	return AvailabilityRequirement(v), err
}

func (v AvailabilityRequirement) Type() cvss.MetricType { return availabilityRequirement.typ }
func (v AvailabilityRequirement) Code() string          { return availabilityRequirement.codes[v] }
func (v AvailabilityRequirement) Weight() float64       { return availabilityRequirement.weights[v] }
func (v AvailabilityRequirement) String() string        { return availabilityRequirement.display(int(v)) }
func (v AvailabilityRequirement) Compare(o AvailabilityRequirement) int {
	return availabilityRequirement.compare(int(v), int(o))
}

// The Modified metrics mirror their Base counterparts with an extra Not
// Defined level as the zero value. A Not Defined override leaves the
// Base value in effect; the Value methods resolve that fallback.

// Modified Attack Vector (MAV).
type ModifiedAttackVector int

// Modified Attack Vector values, in increasing severity order.
const (
	ModifiedAttackVectorNotDefined ModifiedAttackVector = iota // X
	ModifiedAttackVectorPhysical                               // P
	ModifiedAttackVectorLocal                                  // L
	ModifiedAttackVectorAdjacent                               // A
	ModifiedAttackVectorNetwork                                // N
)

var modifiedAttackVector = metricInfo{
	typ:     cvss.MAV,
	codes:   []string{"X", "P", "L", "A", "N"},
	weights: []float64{0, 0.2, 0.55, 0.62, 0.85},
}

// ParseModifiedAttackVector parses the single-letter code for the metric.
func ParseModifiedAttackVector(s string) (ModifiedAttackVector, error) {
	v, err := modifiedAttackVector.parse(s)
	return ModifiedAttackVector(v), err
}

func (v ModifiedAttackVector) Type() cvss.MetricType { return modifiedAttackVector.typ }
func (v ModifiedAttackVector) Code() string          { return modifiedAttackVector.codes[v] }
func (v ModifiedAttackVector) String() string        { return modifiedAttackVector.display(int(v)) }
func (v ModifiedAttackVector) Compare(o ModifiedAttackVector) int {
	return modifiedAttackVector.compare(int(v), int(o))
}

// Value resolves the override against the Base metric it shadows.
func (v ModifiedAttackVector) Value(base AttackVector) AttackVector {
	if v == ModifiedAttackVectorNotDefined {
		return base
	}
	return AttackVector(v)
}

// Modified Attack Complexity (MAC).
type ModifiedAttackComplexity int

// Modified Attack Complexity values, in increasing severity order.
const (
	ModifiedAttackComplexityNotDefined ModifiedAttackComplexity = iota // X
	ModifiedAttackComplexityHigh                                       // H
	ModifiedAttackComplexityLow                                        // L
)

var modifiedAttackComplexity = metricInfo{
	typ:     cvss.MAC,
	codes:   []string{"X", "H", "L"},
	weights: []float64{0, 0.44, 0.77},
}

// ParseModifiedAttackComplexity parses the single-letter code for the metric.
func ParseModifiedAttackComplexity(s string) (ModifiedAttackComplexity, error) {
	v, err := modifiedAttackComplexity.parse(s)
	return ModifiedAttackComplexity(v), err
}

func (v ModifiedAttackComplexity) Type() cvss.MetricType { return modifiedAttackComplexity.typ }
func (v ModifiedAttackComplexity) Code() string          { return modifiedAttackComplexity.codes[v] }
func (v ModifiedAttackComplexity) String() string        { return modifiedAttackComplexity.display(int(v)) }
func (v ModifiedAttackComplexity) Compare(o ModifiedAttackComplexity) int {
	return modifiedAttackComplexity.compare(int(v), int(o))
}

// Value resolves the override against the Base metric it shadows.
func (v ModifiedAttackComplexity) Value(base AttackComplexity) AttackComplexity {
	if v == ModifiedAttackComplexityNotDefined {
		return base
	}
	return AttackComplexity(v)
}

// Modified Privileges Required (MPR).
type ModifiedPrivilegesRequired int

// Modified Privileges Required values, in increasing severity order.
const (
	ModifiedPrivilegesRequiredNotDefined ModifiedPrivilegesRequired = iota // X
	ModifiedPrivilegesRequiredHigh                                         // H
	ModifiedPrivilegesRequiredLow                                          // L
	ModifiedPrivilegesRequiredNone                                         // N
)

var modifiedPrivilegesRequired = metricInfo{
	typ:     cvss.MPR,
	codes:   []string{"X", "H", "L", "N"},
	weights: []float64{0, 0.27, 0.62, 0.85},
}

// ParseModifiedPrivilegesRequired parses the single-letter code for the metric.
func ParseModifiedPrivilegesRequired(s string) (ModifiedPrivilegesRequired, error) {
	v, err := modifiedPrivilegesRequired.parse(s)
	return ModifiedPrivilegesRequired(v), err
}

func (v ModifiedPrivilegesRequired) Type() cvss.MetricType { return modifiedPrivilegesRequired.typ }
func (v ModifiedPrivilegesRequired) Code() string          { return modifiedPrivilegesRequired.codes[v] }
func (v ModifiedPrivilegesRequired) String() string {
	return modifiedPrivilegesRequired.display(int(v))
}
func (v ModifiedPrivilegesRequired) Compare(o ModifiedPrivilegesRequired) int {
	return modifiedPrivilegesRequired.compare(int(v), int(o))
}

// Value resolves the override against the Base metric it shadows.
func (v ModifiedPrivilegesRequired) Value(base PrivilegesRequired) PrivilegesRequired {
	if v == ModifiedPrivilegesRequiredNotDefined {
		return base
	}
	return PrivilegesRequired(v)
}

// Modified User Interaction (MUI).
type ModifiedUserInteraction int

// Modified User Interaction values, in increasing severity order.
const (
	ModifiedUserInteractionNotDefined ModifiedUserInteraction = iota // X
	ModifiedUserInteractionRequired                                  // R
	ModifiedUserInteractionNone                                      // N
)

var modifiedUserInteraction = metricInfo{
	typ:     cvss.MUI,
	codes:   []string{"X", "R", "N"},
	weights: []float64{0, 0.62, 0.85},
}

// ParseModifiedUserInteraction parses the single-letter code for the metric.
func ParseModifiedUserInteraction(s string) (ModifiedUserInteraction, error) {
	v, err := modifiedUserInteraction.parse(s)
	return ModifiedUserInteraction(v), err
}

func (v ModifiedUserInteraction) Type() cvss.MetricType { return modifiedUserInteraction.typ }
func (v ModifiedUserInteraction) Code() string          { return modifiedUserInteraction.codes[v] }
func (v ModifiedUserInteraction) String() string        { return modifiedUserInteraction.display(int(v)) }
func (v ModifiedUserInteraction) Compare(o ModifiedUserInteraction) int {
	return modifiedUserInteraction.compare(int(v), int(o))
}

// Value resolves the override against the Base metric it shadows.
func (v ModifiedUserInteraction) Value(base UserInteraction) UserInteraction {
	if v == ModifiedUserInteractionNotDefined {
		return base
	}
	return UserInteraction(v)
}

// Modified Scope (MS).
type ModifiedScope int

// Modified Scope values, in increasing severity order.
const (
	ModifiedScopeNotDefined ModifiedScope = iota // X
	ModifiedScopeUnchanged                       // U
	ModifiedScopeChanged                         // C
)

var modifiedScope = metricInfo{
	typ:     cvss.MS,
	codes:   []string{"X", "U", "C"},
	weights: []float64{0, 0, 0},
}

// ParseModifiedScope parses the single-letter code for the metric.
func ParseModifiedScope(s string) (ModifiedScope, error) {
	v, err := modifiedScope.parse(s)
	return ModifiedScope(v), err
}

func (v ModifiedScope) Type() cvss.MetricType       { return modifiedScope.typ }
func (v ModifiedScope) Code() string                { return modifiedScope.codes[v] }
func (v ModifiedScope) String() string              { return modifiedScope.display(int(v)) }
func (v ModifiedScope) Compare(o ModifiedScope) int { return modifiedScope.compare(int(v), int(o)) }

// Value resolves the override against the Base metric it shadows.
func (v ModifiedScope) Value(base Scope) Scope {
	if v == ModifiedScopeNotDefined {
		return base
	}
	return Scope(v)
}

// Modified Confidentiality Impact (MC).
type ModifiedConfidentiality int

// Modified Confidentiality values, in increasing severity order.
const (
	ModifiedConfidentialityNotDefined ModifiedConfidentiality = iota // X
	ModifiedConfidentialityNone                                      // N
	ModifiedConfidentialityLow                                       // L
	ModifiedConfidentialityHigh                                      // H
)

var modifiedConfidentiality = metricInfo{
	typ:     cvss.MC,
	codes:   []string{"X", "N", "L", "H"},
	weights: []float64{0, 0, 0.22, 0.56},
}

// ParseModifiedConfidentiality parses the single-letter code for the metric.
func ParseModifiedConfidentiality(s string) (ModifiedConfidentiality, error) {
	v, err := modifiedConfidentiality.parse(s)
	return ModifiedConfidentiality(v), err
}

func (v ModifiedConfidentiality) Type() cvss.MetricType { return modifiedConfidentiality.typ }
func (v ModifiedConfidentiality) Code() string          { return modifiedConfidentiality.codes[v] }
func (v ModifiedConfidentiality) String() string        { return modifiedConfidentiality.display(int(v)) }
func (v ModifiedConfidentiality) Compare(o ModifiedConfidentiality) int {
	return modifiedConfidentiality.compare(int(v), int(o))
}

// Value resolves the override against the Base metric it shadows.
func (v ModifiedConfidentiality) Value(base Confidentiality) Confidentiality {
	if v == ModifiedConfidentialityNotDefined {
		return base
	}
	return Confidentiality(v)
}

// Modified Integrity Impact (MI).
type ModifiedIntegrity int

// Modified Integrity values, in increasing severity order.
const (
	ModifiedIntegrityNotDefined ModifiedIntegrity = iota // X
	ModifiedIntegrityNone                                // N
	ModifiedIntegrityLow                                 // L
	ModifiedIntegrityHigh                                // H
)

var modifiedIntegrity = metricInfo{
	typ:     cvss.MI,
	codes:   []string{"X", "N", "L", "H"},
	weights: []float64{0, 0, 0.22, 0.56},
}

// ParseModifiedIntegrity parses the single-letter code for the metric.
func ParseModifiedIntegrity(s string) (ModifiedIntegrity, error) {
	v, err := modifiedIntegrity.parse(s)
	return ModifiedIntegrity(v), err
}

func (v ModifiedIntegrity) Type() cvss.MetricType { return modifiedIntegrity.typ }
func (v ModifiedIntegrity) Code() string          { return modifiedIntegrity.codes[v] }
func (v ModifiedIntegrity) String() string        { return modifiedIntegrity.display(int(v)) }
func (v ModifiedIntegrity) Compare(o ModifiedIntegrity) int {
	return modifiedIntegrity.compare(int(v), int(o))
}

// Value resolves the override against the Base metric it shadows.
func (v ModifiedIntegrity) Value(base Integrity) Integrity {
	if v == ModifiedIntegrityNotDefined {
		return base
	}
	return Integrity(v)
}

// Modified Availability Impact (MA).
type ModifiedAvailability int

// Modified Availability values, in increasing severity order.
const (
	ModifiedAvailabilityNotDefined ModifiedAvailability = iota // X
	ModifiedAvailabilityNone                                   // N
	ModifiedAvailabilityLow                                    // L
	ModifiedAvailabilityHigh                                   // H
)

var modifiedAvailability = metricInfo{
	typ:     cvss.MA,
	codes:   []string{"X", "N", "L", "H"},
	weights: []float64{0, 0, 0.22, 0.56},
}

// ParseModifiedAvailability parses the single-letter code for the metric.
func ParseModifiedAvailability(s string) (ModifiedAvailability, error) {
	v, err := modifiedAvailability.parse(s)
	return ModifiedAvailability(v), err
}

func (v ModifiedAvailability) Type() cvss.MetricType { return modifiedAvailability.typ }
func (v ModifiedAvailability) Code() string          { return modifiedAvailability.codes[v] }
func (v ModifiedAvailability) String() string        { return modifiedAvailability.display(int(v)) }
func (v ModifiedAvailability) Compare(o ModifiedAvailability) int {
	return modifiedAvailability.compare(int(v), int(o))
}

// Value resolves the override against the Base metric it shadows.
func (v ModifiedAvailability) Value(base Availability) Availability {
	if v == ModifiedAvailabilityNotDefined {
		return base
	}
	return Availability(v)
}

// Environmental is the CVSS v3 Environmental metric group: a Temporal
// group plus the three requirement metrics and a full set of modified
// Base metrics.
//
// Every environmental metric is independently optional. A present
// override fully supersedes the Base metric of the same kind for
// scoring; an absent one leaves the Base value in effect.
type Environmental struct {
	Temporal

	CR ConfidentialityRequirement
	IR IntegrityRequirement
	AR AvailabilityRequirement

	MAV ModifiedAttackVector
	MAC ModifiedAttackComplexity
	MPR ModifiedPrivilegesRequired
	MUI ModifiedUserInteraction
	MS  ModifiedScope
	MC  ModifiedConfidentiality
	MI  ModifiedIntegrity
	MA  ModifiedAvailability
}

var (
	_ encoding.TextMarshaler   = (*Environmental)(nil)
	_ encoding.TextUnmarshaler = (*Environmental)(nil)
	_ fmt.Stringer             = (*Environmental)(nil)
)

// ParseEnvironmental parses the provided string as a v3 Environmental
// vector: a Base vector optionally extended with temporal and
// environmental components.
func ParseEnvironmental(s string) (e Environmental, err error) {
	return e, e.UnmarshalText([]byte(s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (e *Environmental) UnmarshalText(text []byte) error {
	cs, err := e.Temporal.parseTemporal(string(text))
	if err != nil {
		return fmt.Errorf("cvss v3: %w", err)
	}
	for _, c := range cs {
		// The ID was already validated by the Base parse.
		mt, _ := cvss.ParseMetricType(c.ID)
		var err error
		switch mt {
		case cvss.CR:
			e.CR, err = ParseConfidentialityRequirement(c.Value)
		case cvss.IR:
			e.IR, err = ParseIntegrityRequirement(c.Value)
		case cvss.AR:
			e.AR, err = ParseAvailabilityRequirement(c.Value)
		case cvss.MAV:
			e.MAV, err = ParseModifiedAttackVector(c.Value)
		case cvss.MAC:
			e.MAC, err = ParseModifiedAttackComplexity(c.Value)
		case cvss.MPR:
			e.MPR, err = ParseModifiedPrivilegesRequired(c.Value)
		case cvss.MUI:
			e.MUI, err = ParseModifiedUserInteraction(c.Value)
		case cvss.MS:
			e.MS, err = ParseModifiedScope(c.Value)
		case cvss.MC:
			e.MC, err = ParseModifiedConfidentiality(c.Value)
		case cvss.MI:
			e.MI, err = ParseModifiedIntegrity(c.Value)
		case cvss.MA:
			e.MA, err = ParseModifiedAvailability(c.Value)
		default:
			err = fmt.Errorf("%w: unexpected metric %q in environmental vector", cvss.ErrMalformedVector, c.ID)
		}
		if err != nil {
			return fmt.Errorf("cvss v3: %w", err)
		}
	}
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (e *Environmental) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.Base.marshalBase(&sb)
	e.Temporal.marshalTemporal(&sb)
	for _, m := range []struct {
		set bool
		s   fmt.Stringer
	}{
		{e.CR != ConfidentialityRequirementNotDefined, e.CR},
		{e.IR != IntegrityRequirementNotDefined, e.IR},
		{e.AR != AvailabilityRequirementNotDefined, e.AR},
		{e.MAV != ModifiedAttackVectorNotDefined, e.MAV},
		{e.MAC != ModifiedAttackComplexityNotDefined, e.MAC},
		{e.MPR != ModifiedPrivilegesRequiredNotDefined, e.MPR},
		{e.MUI != ModifiedUserInteractionNotDefined, e.MUI},
		{e.MS != ModifiedScopeNotDefined, e.MS},
		{e.MC != ModifiedConfidentialityNotDefined, e.MC},
		{e.MI != ModifiedIntegrityNotDefined, e.MI},
		{e.MA != ModifiedAvailabilityNotDefined, e.MA},
	} {
		if !m.set {
			continue
		}
		sb.WriteByte('/')
		sb.WriteString(m.s.String())
	}
	return []byte(sb.String()), nil
}

// String implements [fmt.Stringer].
func (e *Environmental) String() string {
	b, _ := e.MarshalText()
	return string(b)
}

// ScopeChanged reports the effective Scope: the modified value when
// defined, the Base value otherwise.
func (e *Environmental) ScopeChanged() bool {
	return e.MS.Value(e.Base.S).Changed()
}

// Exploitability reports the Modified Exploitability sub-score,
// computed from the effective (modified-or-Base) exploitability
// metrics.
func (e *Environmental) Exploitability() float64 {
	b := &e.Base
	return 8.22 *
		e.MAV.Value(b.AV).Weight() *
		e.MAC.Value(b.AC).Weight() *
		e.MPR.Value(b.PR).ScopedWeight(e.ScopeChanged()) *
		e.MUI.Value(b.UI).Weight()
}

// Impact reports the Modified Impact sub-score (MISS): the effective
// impact metrics scaled by the corresponding requirement weights,
// capped at 0.915.
func (e *Environmental) Impact() float64 {
	b := &e.Base
	return math.Min(0.915, 1-
		(1-e.MC.Value(b.C).Weight()*e.CR.Weight())*
			(1-e.MI.Value(b.I).Weight()*e.IR.Weight())*
			(1-e.MA.Value(b.A).Weight()*e.AR.Weight()))
}

// Score reports the Environmental score.
//
// The combination follows the same scope branch as the Base equation,
// substituting the modified sub-scores. For a v3.1 vector the
// changed-scope branch uses the revised exponent and scaling constant
// from the v3.1 equations; v3.0 keeps the Base constants. Temporal
// weights apply to the result exactly as in the Temporal equation.
func (e *Environmental) Score() cvss.Score {
	miss := e.Impact()
	scopeChanged := e.ScopeChanged()

	var impact float64
	if scopeChanged {
		exp, scale := 15.0, 1.0
		if e.Base.MinorVersion == 1 {
			exp, scale = 13.0, 0.9731
		}
		impact = 7.52*(miss-0.029) - 3.25*math.Pow(miss*scale-0.02, exp)
	} else {
		impact = 6.42 * miss
	}
	if impact <= 0 {
		return 0
	}
	sum := impact + e.Exploitability()
	if scopeChanged {
		sum *= 1.08
	}
	env := cvss.Score(math.Min(sum, 10)).Roundup()
	return e.temporalScore(env)
}

// Severity reports the qualitative severity rating for the
// Environmental score.
func (e *Environmental) Severity() cvss.Severity {
	return e.Score().Severity()
}
