package v3

import (
	"encoding"
	"fmt"
	"math"
	"strings"

	"github.com/amousset/rustsec/cvss"
)

// Base is the CVSS v3 Base metric group: the eight mandatory metrics
// plus the minor version of the vector they were parsed from.
//
// A Base value is immutable once constructed; all methods take it by
// value or read-only.
type Base struct {
	// MinorVersion is 0 for a "CVSS:3.0" vector and 1 for "CVSS:3.1".
	MinorVersion int

	AV AttackVector
	AC AttackComplexity
	PR PrivilegesRequired
	UI UserInteraction
	S  Scope
	C  Confidentiality
	I  Integrity
	A  Availability
}

var (
	_ encoding.TextMarshaler   = (*Base)(nil)
	_ encoding.TextUnmarshaler = (*Base)(nil)
	_ fmt.Stringer             = (*Base)(nil)
)

// ParseBase parses the provided string as a v3 Base vector.
//
// The string must carry the "CVSS:3.0" or "CVSS:3.1" prefix followed by
// exactly the eight mandatory metrics, in any order. Duplicate,
// unknown, or missing metrics are errors.
func ParseBase(s string) (b Base, err error) {
	return b, b.UnmarshalText([]byte(s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (b *Base) UnmarshalText(text []byte) error {
	cs, err := b.parseBase(string(text))
	switch {
	case err != nil:
	case len(cs) != 0:
		err = fmt.Errorf("%w: unexpected metric %q in base vector", cvss.ErrMalformedVector, cs[0].ID)
	}
	if err != nil {
		return fmt.Errorf("cvss v3: %w", err)
	}
	return nil
}

// ParseBase consumes the prefix and the eight Base components from "s",
// returning any remaining recognized components for layered groups
// (Temporal, Environmental) to interpret.
func (b *Base) parseBase(s string) ([]cvss.Component, error) {
	version, cs, err := cvss.SplitVector(s)
	if err != nil {
		return nil, err
	}
	if err := cvss.CheckVersion(version, "3.0", "3.1"); err != nil {
		return nil, err
	}
	switch version {
	case "3.0":
		b.MinorVersion = 0
	case "3.1":
		b.MinorVersion = 1
	}

	var rest []cvss.Component
	seen := make(map[cvss.MetricType]bool, 8)
	for _, c := range cs {
		id := strings.ToUpper(c.ID)
		value := strings.ToUpper(c.Value)
		t, err := cvss.ParseMetricType(id)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			return nil, fmt.Errorf("%w: duplicate metric %q", cvss.ErrMalformedVector, id)
		}
		seen[t] = true
		switch t {
		case cvss.AV:
			b.AV, err = ParseAttackVector(value)
		case cvss.AC:
			b.AC, err = ParseAttackComplexity(value)
		case cvss.PR:
			b.PR, err = ParsePrivilegesRequired(value)
		case cvss.UI:
			b.UI, err = ParseUserInteraction(value)
		case cvss.S:
			b.S, err = ParseScope(value)
		case cvss.C:
			b.C, err = ParseConfidentiality(value)
		case cvss.I:
			b.I, err = ParseIntegrity(value)
		case cvss.A:
			b.A, err = ParseAvailability(value)
		default:
			rest = append(rest, cvss.Component{ID: id, Value: value})
		}
		if err != nil {
			return nil, err
		}
	}

	var missing []cvss.MetricType
	for _, p := range []struct {
		t   cvss.MetricType
		set bool
	}{
		{cvss.AV, b.AV != 0},
		{cvss.AC, b.AC != 0},
		{cvss.PR, b.PR != 0},
		{cvss.UI, b.UI != 0},
		{cvss.S, b.S != 0},
		{cvss.C, b.C != 0},
		{cvss.I, b.I != 0},
		{cvss.A, b.A != 0},
	} {
		if !p.set {
			missing = append(missing, p.t)
		}
	}
	if len(missing) != 0 {
		return nil, &cvss.MissingMetricError{Types: missing}
	}
	return rest, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (b *Base) MarshalText() ([]byte, error) {
	var sb strings.Builder
	b.marshalBase(&sb)
	return []byte(sb.String()), nil
}

func (b *Base) marshalBase(sb *strings.Builder) {
	fmt.Fprintf(sb, "%s:3.%d", cvss.Prefix, b.MinorVersion)
	for _, m := range []fmt.Stringer{b.AV, b.AC, b.PR, b.UI, b.S, b.C, b.I, b.A} {
		sb.WriteByte('/')
		sb.WriteString(m.String())
	}
}

// String implements [fmt.Stringer].
//
// The metrics are always emitted in the canonical order, regardless of
// the order they were parsed in.
func (b *Base) String() string {
	t, _ := b.MarshalText()
	return string(t)
}

// Exploitability reports the Exploitability sub-score, reflecting the
// ease and technical means by which the vulnerability can be exploited.
func (b *Base) Exploitability() float64 {
	return 8.22 * b.AV.Weight() * b.AC.Weight() * b.PR.ScopedWeight(b.S.Changed()) * b.UI.Weight()
}

// Impact reports the Impact sub-score (ISS), reflecting the direct
// consequence of a successful exploit.
func (b *Base) Impact() float64 {
	return 1 - ((1 - b.C.Weight()) * (1 - b.I.Weight()) * (1 - b.A.Weight()))
}

// Score reports the Base score for the group.
func (b *Base) Score() cvss.Score {
	return combine(b.Impact(), b.Exploitability(), b.S.Changed())
}

// Combine applies the scope-branched Base equation to an impact
// sub-score and an exploitability sub-score.
func combine(iss, exploitability float64, scopeChanged bool) cvss.Score {
	var impact float64
	if scopeChanged {
		impact = 7.52*(iss-0.029) - 3.25*math.Pow(iss-0.02, 15)
	} else {
		impact = 6.42 * iss
	}
	if impact <= 0 {
		return 0
	}
	sum := impact + exploitability
	if scopeChanged {
		sum *= 1.08
	}
	return cvss.Score(math.Min(sum, 10)).Roundup()
}

// Severity reports the qualitative severity rating for the Base score.
func (b *Base) Severity() cvss.Severity {
	return b.Score().Severity()
}

// Compare orders Base groups by score, breaking ties with the canonical
// vector string. It is suitable for sorting and deduplicating candidate
// scores gathered from external sources.
func (b *Base) Compare(o *Base) int {
	switch bs, os := b.Score(), o.Score(); {
	case bs < os:
		return -1
	case bs > os:
		return 1
	}
	return strings.Compare(b.String(), o.String())
}
