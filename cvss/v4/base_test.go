package v4

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/amousset/rustsec/cvss"
)

func TestBaseRoundtrip(t *testing.T) {
	vecs := []string{
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
		"CVSS:4.0/AV:P/AC:H/AT:P/PR:H/UI:A/VC:N/VI:N/VA:N/SC:L/SI:L/SA:L",
		"CVSS:4.0/AV:A/AC:L/AT:N/PR:L/UI:P/VC:L/VI:H/VA:N/SC:H/SI:N/SA:H",
	}
	for _, in := range vecs {
		b, err := ParseBase(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if got, want := b.String(), in; got != want {
			t.Error(cmp.Diff(got, want))
		}
		again, err := ParseBase(b.String())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if !cmp.Equal(b, again) {
			t.Error(cmp.Diff(b, again))
		}
	}
}

// Out-of-order input parses, then re-serializes canonically.
func TestBaseCanonicalization(t *testing.T) {
	b, err := ParseBase("CVSS:4.0/SA:N/SI:N/SC:N/VA:H/VI:H/VC:H/UI:N/PR:N/AT:N/AC:L/AV:N")
	if err != nil {
		t.Fatal(err)
	}
	const want = "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N"
	if got := b.String(); got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}

func TestBaseErrors(t *testing.T) {
	tcs := []struct {
		Vector string
		Error  bool
	}{
		{Vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N"},
		{Vector: "CVSS:3.1/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N", Error: true},
		{Vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N", Error: true},
		{Vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N/SA:N", Error: true},
		{Vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:Z", Error: true},
		// Scope was removed in v4.
		{Vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/S:U/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N", Error: true},
		// v3 user interaction values are not valid in v4.
		{Vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:R/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N", Error: true},
	}
	for _, tc := range tcs {
		_, err := ParseBase(tc.Vector)
		t.Logf("%s: %v", tc.Vector, err)
		if (err != nil) != tc.Error {
			t.Fail()
		}
	}

	_, err := ParseBase("CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N")
	var mme *cvss.MissingMetricError
	if !errors.As(err, &mme) {
		t.Fatalf("wrong error type: %v", err)
	}
	if len(mme.Types) != 6 {
		t.Errorf("unexpected missing set: %v", mme.Types)
	}
	if !errors.Is(err, cvss.ErrMalformedVector) {
		t.Errorf("not a malformed-vector error: %v", err)
	}
}

func TestMetricOrdering(t *testing.T) {
	if AttackVectorPhysical.Compare(AttackVectorNetwork) >= 0 {
		t.Error("expected AttackVectorPhysical < AttackVectorNetwork")
	}
	if UserInteractionActive.Compare(UserInteractionNone) >= 0 {
		t.Error("expected UserInteractionActive < UserInteractionNone")
	}
	if ImpactNone.Compare(ImpactHigh) >= 0 {
		t.Error("expected ImpactNone < ImpactHigh")
	}
}
