package enums

import "testing"

func TestCoerceVerdict(t *testing.T) {
	cases := map[string]Verdict{
		"fair":        VerdictFair,
		"FAIR":        VerdictFair,
		" Overpriced": VerdictOverpriced,
		"unknown":     VerdictUnknown,
		"":            VerdictUnknown,
		"maybe":       VerdictUnknown,
		"too high":    VerdictUnknown,
	}
	for input, want := range cases {
		if got := CoerceVerdict(input); got != want {
			t.Fatalf("CoerceVerdict(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestVerdictIsValid(t *testing.T) {
	for _, v := range []Verdict{VerdictFair, VerdictOverpriced, VerdictUnknown} {
		if !v.IsValid() {
			t.Fatalf("%s should be valid", v)
		}
	}
	if Verdict("bogus").IsValid() {
		t.Fatal("bogus verdict should be invalid")
	}
}
