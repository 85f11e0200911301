package heuristics

import "testing"

func TestRateForKnownKey(t *testing.T) {
	rate := RateFor("oil_change")
	if rate.Min != 35 || rate.Max != 110 || rate.Avg != 70 {
		t.Fatalf("unexpected oil_change rate %+v", rate)
	}
	if !Known("oil_change") {
		t.Fatal("oil_change should be a known key")
	}
}

func TestRateForUnknownKeyFallsBack(t *testing.T) {
	rate := RateFor("wheel_alignment")
	if rate != defaultRate {
		t.Fatalf("expected default rate, got %+v", rate)
	}
	if Known("wheel_alignment") {
		t.Fatal("wheel_alignment should not be a known key")
	}
}

func TestTableBandsAreOrdered(t *testing.T) {
	for key, rate := range rateTable {
		if rate.Min <= 0 || rate.Min > rate.Avg || rate.Avg > rate.Max {
			t.Fatalf("malformed band for %s: %+v", key, rate)
		}
		if rate.StandardHours <= 0 {
			t.Fatalf("missing standard hours for %s", key)
		}
	}
}
