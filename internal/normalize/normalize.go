// Package normalize maps free-text service labels onto the closed set of
// canonical service keys used as the join key across heuristics, catalog and
// comparison rows.
package normalize

import (
	"strings"
	"unicode"
)

// keyRule maps label substrings to a canonical key. Declaration order is
// load-bearing: "brake rotor" must resolve to rotors before the bare "brake"
// rule can claim it, so rules are tested first to last and the first match
// wins.
type keyRule struct {
	key      string
	contains []string
}

var keyRules = []keyRule{
	{key: "oil_change", contains: []string{"oil"}},
	{key: "rotors", contains: []string{"brake", "rotor"}},
	{key: "brake_pads", contains: []string{"brake"}},
	{key: "cabin_filter", contains: []string{"cabin"}},
	{key: "air_filter", contains: []string{"air filter"}},
	{key: "air_filter", contains: []string{"filter"}},
	{key: "coolant", contains: []string{"coolant"}},
	{key: "coolant", contains: []string{"radiator"}},
	{key: "tires", contains: []string{"tire"}},
	{key: "tires", contains: []string{"tyre"}},
	{key: "spark_plugs", contains: []string{"spark"}},
	{key: "transmission_fluid", contains: []string{"transmission"}},
	{key: "battery", contains: []string{"battery"}},
	{key: "wiper_blades", contains: []string{"wiper"}},
}

// Key normalizes a free-text service label to a canonical service key. It is
// pure and total: every input yields a non-empty key, and canonical keys map
// to themselves.
func Key(label string) string {
	lowered := strings.ToLower(strings.TrimSpace(label))
	if lowered == "" {
		return "unknown_service"
	}

	for _, rule := range keyRules {
		if matchesAll(lowered, rule.contains) {
			return rule.key
		}
	}

	return Slug(lowered)
}

func matchesAll(label string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(label, needle) {
			return false
		}
	}
	return true
}

// Slug collapses non-alphanumeric runs to single underscores.
func Slug(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	lastUnderscore := false
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "unknown_service"
	}
	return slug
}

var feeMarkers = []string{
	"tax",
	"fee",
	"surcharge",
	"disposal",
	"shop supplies",
	"shop supply",
	"environmental",
	"misc",
}

// IsFeeLike reports whether a line item is a fee/overhead entry (tax, shop
// supplies, disposal, labor-only) rather than a priceable service. Fee-like
// lines are never sent to the assessment provider and score as unknown.
func IsFeeLike(label string) bool {
	lowered := strings.ToLower(strings.TrimSpace(label))
	if lowered == "" {
		return false
	}
	for _, marker := range feeMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	// Bare labor lines carry no parts context to price against.
	return lowered == "labor" || lowered == "labour"
}
