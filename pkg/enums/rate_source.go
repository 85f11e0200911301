package enums

import "fmt"

// RateSource identifies which tier of the resolver produced an estimate.
type RateSource string

const (
	RateSourceUserQuotes RateSource = "catalog:user_quotes"
	RateSourceBaseRange  RateSource = "catalog:base_range"
	RateSourceHeuristic  RateSource = "heuristic"
)

var validRateSources = []RateSource{
	RateSourceUserQuotes,
	RateSourceBaseRange,
	RateSourceHeuristic,
}

// String returns the literal string for the source.
func (r RateSource) String() string {
	return string(r)
}

// IsValid reports whether the source is known.
func (r RateSource) IsValid() bool {
	for _, candidate := range validRateSources {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRateSource converts raw input into a RateSource.
func ParseRateSource(value string) (RateSource, error) {
	for _, candidate := range validRateSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rate source %q", value)
}
