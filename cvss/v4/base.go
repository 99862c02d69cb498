package v4

import (
	"encoding"
	"fmt"
	"strings"

	"github.com/amousset/rustsec/cvss"
)

// Base is the CVSS v4.0 Base metric group: the eleven mandatory
// metrics.
//
// TODO: scoring. The v4.0 score is not an equation over per-metric
// weights like v3; it requires the MacroVector lookup tables from
// section 8.2 of the specification.
type Base struct {
	AV AttackVector
	AC AttackComplexity
	AT AttackRequirements
	PR PrivilegesRequired
	UI UserInteraction
	VC Impact
	VI Impact
	VA Impact
	SC Impact
	SI Impact
	SA Impact
}

var (
	_ encoding.TextMarshaler   = (*Base)(nil)
	_ encoding.TextUnmarshaler = (*Base)(nil)
	_ fmt.Stringer             = (*Base)(nil)
)

// ParseBase parses the provided string as a v4 Base vector.
//
// The string must carry the "CVSS:4.0" prefix followed by exactly the
// eleven mandatory metrics, in any order. Duplicate, unknown, or
// missing metrics are errors.
func ParseBase(s string) (b Base, err error) {
	return b, b.UnmarshalText([]byte(s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (b *Base) UnmarshalText(text []byte) error {
	if err := b.parse(string(text)); err != nil {
		return fmt.Errorf("cvss v4: %w", err)
	}
	return nil
}

func (b *Base) parse(s string) error {
	version, cs, err := cvss.SplitVector(s)
	if err != nil {
		return err
	}
	if err := cvss.CheckVersion(version, "4.0"); err != nil {
		return err
	}

	seen := make(map[cvss.MetricType]bool, 11)
	for _, c := range cs {
		id := strings.ToUpper(c.ID)
		value := strings.ToUpper(c.Value)
		t, err := cvss.ParseMetricType(id)
		if err != nil {
			return err
		}
		if seen[t] {
			return fmt.Errorf("%w: duplicate metric %q", cvss.ErrMalformedVector, id)
		}
		seen[t] = true
		switch t {
		case cvss.AV:
			b.AV, err = ParseAttackVector(value)
		case cvss.AC:
			b.AC, err = ParseAttackComplexity(value)
		case cvss.AT:
			b.AT, err = ParseAttackRequirements(value)
		case cvss.PR:
			b.PR, err = ParsePrivilegesRequired(value)
		case cvss.UI:
			b.UI, err = ParseUserInteraction(value)
		case cvss.VC:
			b.VC, err = parseImpact(t, value)
		case cvss.VI:
			b.VI, err = parseImpact(t, value)
		case cvss.VA:
			b.VA, err = parseImpact(t, value)
		case cvss.SC:
			b.SC, err = parseImpact(t, value)
		case cvss.SI:
			b.SI, err = parseImpact(t, value)
		case cvss.SA:
			b.SA, err = parseImpact(t, value)
		default:
			err = fmt.Errorf("%w: unexpected metric %q in v4 base vector", cvss.ErrMalformedVector, id)
		}
		if err != nil {
			return err
		}
	}

	var missing []cvss.MetricType
	for _, p := range []struct {
		t   cvss.MetricType
		set bool
	}{
		{cvss.AV, b.AV != 0},
		{cvss.AC, b.AC != 0},
		{cvss.AT, b.AT != 0},
		{cvss.PR, b.PR != 0},
		{cvss.UI, b.UI != 0},
		{cvss.VC, b.VC != 0},
		{cvss.VI, b.VI != 0},
		{cvss.VA, b.VA != 0},
		{cvss.SC, b.SC != 0},
		{cvss.SI, b.SI != 0},
		{cvss.SA, b.SA != 0},
	} {
		if !p.set {
			missing = append(missing, p.t)
		}
	}
	if len(missing) != 0 {
		return &cvss.MissingMetricError{Types: missing}
	}
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (b *Base) MarshalText() ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(cvss.Prefix)
	sb.WriteString(":4.0")
	for _, m := range []struct {
		t    cvss.MetricType
		code string
	}{
		{cvss.AV, b.AV.Code()},
		{cvss.AC, b.AC.Code()},
		{cvss.AT, b.AT.Code()},
		{cvss.PR, b.PR.Code()},
		{cvss.UI, b.UI.Code()},
		{cvss.VC, b.VC.Code()},
		{cvss.VI, b.VI.Code()},
		{cvss.VA, b.VA.Code()},
		{cvss.SC, b.SC.Code()},
		{cvss.SI, b.SI.Code()},
		{cvss.SA, b.SA.Code()},
	} {
		sb.WriteByte('/')
		sb.WriteString(m.t.Name())
		sb.WriteByte(':')
		sb.WriteString(m.code)
	}
	return []byte(sb.String()), nil
}

// String implements [fmt.Stringer].
//
// The metrics are always emitted in the canonical order, regardless of
// the order they were parsed in.
func (b *Base) String() string {
	t, _ := b.MarshalText()
	return string(t)
}
