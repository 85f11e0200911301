package enums

import (
	"fmt"
	"strings"
)

// Currency is the working currency of a catalog entry. The engine never
// converts between currencies; the caller supplies one per entry.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyPKR Currency = "PKR"
)

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyEUR,
	CurrencyGBP,
	CurrencyPKR,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	upper := Currency(strings.ToUpper(strings.TrimSpace(value)))
	for _, candidate := range validCurrencies {
		if candidate == upper {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
