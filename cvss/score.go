package cvss

import (
	"bytes"
	"fmt"
)

// Score is a CVSS score: a number between 0.0 and 10.0, at one-decimal
// granularity.
//
// Scores are produced by the metric group Score methods, which always
// pass the computed value through [Score.Roundup]. Constructing one
// from an arbitrary float outside those methods is a programmer error.
type Score float64

// Roundup rounds the score up to the nearest multiple of 0.1.
//
// This is the "Roundup" function from Appendix A of the v3.1
// specification, which is careful to avoid rounding based on the binary
// representation error of values that are "exactly" a multiple of 0.1.
// It never rounds down and is idempotent.
func (s Score) Roundup() Score {
	i := int(s * 100_000)
	if (i % 10_000) == 0 {
		return Score(float64(i) / 100_000)
	}
	return Score(float64((i/10_000)+1) / 10)
}

// Value reports the score as a plain float64.
func (s Score) Value() float64 { return float64(s) }

// Severity reports the qualitative severity rating for the score.
//
// The rating scale is the same for v3.x and v4.0.
func (s Score) Severity() Severity {
	switch {
	case s == 0:
		return None
	case s < 4:
		return Low
	case s < 7:
		return Medium
	case s < 9:
		return High
	default:
		return Critical
	}
}

// String implements [fmt.Stringer].
func (s Score) String() string {
	return fmt.Sprintf("%.1f", float64(s))
}

// Severity is the qualitative severity rating of a [Score], as defined
// by the Qualitative Severity Rating Scale.
type Severity int

// The specified qualitative severities.
const (
	None Severity = iota
	Low
	Medium
	High
	Critical
)

var severityNames = [...]string{"None", "Low", "Medium", "High", "Critical"}

// String implements [fmt.Stringer].
func (s Severity) String() string {
	if s < None || s > Critical {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) {
	if s < None || s > Critical {
		return nil, fmt.Errorf("invalid severity: %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(b []byte) error {
	for i, n := range severityNames {
		if bytes.Equal(b, []byte(n)) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(b))
}
