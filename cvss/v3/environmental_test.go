package v3

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvironmentalScore(t *testing.T) {
	tcs := []scoreTestcase{
		// No environmental metrics defined: the score is the
		// base (or temporal) score.
		{Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", Score: 9.8},
		{Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/CR:X/MAV:X", Score: 9.8},

		{Vector: "CVSS:3.1/AV:N/AC:L/PR:H/UI:N/S:U/C:L/I:L/A:N/CR:H/IR:H/AR:H", Score: 4.8},
		{Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/MC:N", Score: 9.1},
		{Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:C/C:L/I:N/A:N/CR:H", Score: 5.6},
		{Vector: "CVSS:3.1/AV:N/AC:L/PR:L/UI:N/S:C/C:H/I:H/A:H/MS:U", Score: 8.8},

		// The changed-scope equation differs between 3.0 and 3.1.
		{Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:C/C:H/I:H/A:H/MAV:A", Score: 8.9},
		{Vector: "CVSS:3.0/AV:N/AC:L/PR:N/UI:R/S:C/C:H/I:H/A:H/MAV:A", Score: 8.8},

		// Temporal weights apply after the environmental
		// combination.
		{Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/E:U/MC:N", Score: 8.3},
	}
	testScores(t, func() *Environmental { return new(Environmental) }, tcs)
}

func TestEnvironmentalRoundtrip(t *testing.T) {
	vecs := []string{
		"CVSS:3.1/AV:N/AC:L/PR:H/UI:N/S:U/C:L/I:L/A:N/CR:H/IR:H/AR:H",
		"CVSS:3.1/AV:N/AC:L/PR:L/UI:N/S:C/C:H/I:H/A:H/E:F/RL:O/RC:C/CR:H/IR:M/AR:L/MAV:N/MAC:L/MPR:N/MUI:N/MS:C/MC:H/MI:H/MA:H",
		"CVSS:3.0/AV:N/AC:L/PR:N/UI:R/S:C/C:H/I:H/A:H/MAV:A",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
	}
	for _, in := range vecs {
		v, err := ParseEnvironmental(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if got, want := v.String(), in; got != want {
			t.Error(cmp.Diff(got, want))
		}
		again, err := ParseEnvironmental(v.String())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if !cmp.Equal(v, again) {
			t.Error(cmp.Diff(v, again))
		}
	}
}

func TestModifiedFallback(t *testing.T) {
	e, err := ParseEnvironmental("CVSS:3.1/AV:L/AC:H/PR:L/UI:R/S:C/C:L/I:L/A:L")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := e.MAV.Value(e.Base.AV), AttackVectorLocal; got != want {
		t.Errorf("got: %v, want: %v", got, want)
	}
	if !e.ScopeChanged() {
		t.Error("expected base scope to apply")
	}

	e, err = ParseEnvironmental("CVSS:3.1/AV:L/AC:H/PR:L/UI:R/S:C/C:L/I:L/A:L/MAV:N/MS:U")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := e.MAV.Value(e.Base.AV), AttackVectorNetwork; got != want {
		t.Errorf("got: %v, want: %v", got, want)
	}
	if e.ScopeChanged() {
		t.Error("expected modified scope to apply")
	}
}

func TestEnvironmentalErrors(t *testing.T) {
	tcs := []string{
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/CR:Z",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/MAV:X/MAV:N",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/MS:N",
		"CVSS:3.1/CR:H/IR:H/AR:H",
	}
	for _, in := range tcs {
		_, err := ParseEnvironmental(in)
		t.Logf("%s: %v", in, err)
		if err == nil {
			t.Fail()
		}
	}
}
