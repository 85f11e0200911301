package enums

import "testing"

func TestParseCurrency(t *testing.T) {
	cases := map[string]Currency{
		"usd":  CurrencyUSD,
		"USD":  CurrencyUSD,
		" eur": CurrencyEUR,
		"pkr":  CurrencyPKR,
	}
	for input, want := range cases {
		got, err := ParseCurrency(input)
		if err != nil {
			t.Fatalf("ParseCurrency(%q) failed: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseCurrency(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseCurrencyRejectsUnknown(t *testing.T) {
	if _, err := ParseCurrency("JPY"); err == nil {
		t.Fatal("expected error for unsupported currency")
	}
	if _, err := ParseCurrency(""); err == nil {
		t.Fatal("expected error for empty currency")
	}
}
