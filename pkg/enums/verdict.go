package enums

import "strings"

// Verdict is the three-value fairness outcome attached to an assessed quote.
type Verdict string

const (
	VerdictFair       Verdict = "fair"
	VerdictOverpriced Verdict = "overpriced"
	VerdictUnknown    Verdict = "unknown"
)

var validVerdicts = []Verdict{
	VerdictFair,
	VerdictOverpriced,
	VerdictUnknown,
}

// String implements fmt.Stringer.
func (v Verdict) String() string {
	return string(v)
}

// IsValid reports whether the verdict is recognized.
func (v Verdict) IsValid() bool {
	for _, candidate := range validVerdicts {
		if candidate == v {
			return true
		}
	}
	return false
}

// CoerceVerdict maps arbitrary provider output onto the closed verdict set.
// Matching is case-insensitive; anything unrecognized becomes unknown.
func CoerceVerdict(value string) Verdict {
	lowered := Verdict(strings.ToLower(strings.TrimSpace(value)))
	if lowered.IsValid() {
		return lowered
	}
	return VerdictUnknown
}
