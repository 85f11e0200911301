package normalize

import "testing"

func TestKeyMapsCommonLabels(t *testing.T) {
	cases := map[string]string{
		"Oil change":                  "oil_change",
		"Full synthetic oil change":   "oil_change",
		"Front brake pads":            "brake_pads",
		"Brake rotor replacement":     "rotors",
		"brake pads and rotors":       "rotors",
		"Cabin air filter":            "cabin_filter",
		"Engine air filter":           "air_filter",
		"Fuel filter":                 "air_filter",
		"Coolant flush":               "coolant",
		"Radiator service":            "coolant",
		"Tire rotation":               "tires",
		"Tyre balancing":              "tires",
		"Spark plug replacement":      "spark_plugs",
		"Transmission fluid exchange": "transmission_fluid",
		"Battery replacement":         "battery",
		"Wiper blade set":             "wiper_blades",
	}
	for label, want := range cases {
		if got := Key(label); got != want {
			t.Fatalf("Key(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestKeyRuleOrder(t *testing.T) {
	// The rotor rule must win over the bare brake rule, and cabin must win
	// over the generic filter rules.
	if got := Key("brake rotor resurfacing"); got != "rotors" {
		t.Fatalf("rotor label resolved to %q", got)
	}
	if got := Key("cabin air filter replacement"); got != "cabin_filter" {
		t.Fatalf("cabin filter label resolved to %q", got)
	}
}

func TestKeyIsTotalAndIdempotent(t *testing.T) {
	inputs := []string{
		"", "   ", "Oil change", "Something entirely new!!", "wheel alignment",
		"unknown_service", "brake_pads", "12345", "??!",
	}
	for _, input := range inputs {
		key := Key(input)
		if key == "" {
			t.Fatalf("Key(%q) returned empty key", input)
		}
		if again := Key(key); again != key {
			t.Fatalf("Key not idempotent: Key(%q) = %q, Key(%q) = %q", input, key, key, again)
		}
	}
}

func TestKeyEmptyInput(t *testing.T) {
	if got := Key(""); got != "unknown_service" {
		t.Fatalf("Key(\"\") = %q", got)
	}
	if got := Key("  \t "); got != "unknown_service" {
		t.Fatalf("Key(whitespace) = %q", got)
	}
}

func TestSlugCollapsesRuns(t *testing.T) {
	cases := map[string]string{
		"Wheel  Alignment":  "wheel_alignment",
		"A/C re-charge":     "a_c_re_charge",
		"--odd--":           "odd",
		"!!!":               "unknown_service",
		"Serpentine belt 2": "serpentine_belt_2",
	}
	for input, want := range cases {
		if got := Slug(input); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsFeeLike(t *testing.T) {
	feeLike := []string{
		"Sales tax", "Shop supplies", "Disposal fee", "Environmental charge",
		"Misc charges", "labor", "Labour",
	}
	for _, label := range feeLike {
		if !IsFeeLike(label) {
			t.Fatalf("expected %q to be fee-like", label)
		}
	}

	services := []string{"Oil change", "Brake pads with labor included", "", "Coolant flush"}
	for _, label := range services {
		if IsFeeLike(label) {
			t.Fatalf("expected %q not to be fee-like", label)
		}
	}
}
