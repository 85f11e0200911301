package assessment

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/muzammal-12/CarApp/pkg/enums"
)

// assessmentWire mirrors the JSON shape the provider is asked for. Everything
// is optional and loosely typed; contract enforcement happens after decoding.
type assessmentWire struct {
	Decision   string   `json:"decision"`
	Confidence *float64 `json:"confidence"`
	Rationale  string   `json:"rationale"`
	FairRange  *struct {
		Min      *float64 `json:"min"`
		Max      *float64 `json:"max"`
		Currency string   `json:"currency"`
	} `json:"fair_range"`
	Notes []string `json:"notes"`
}

// decodeAssessment is the lenient two-stage decode: a strict parse of the
// whole text, then a salvage parse of the outermost balanced JSON object.
// The result is always contract-enforced: decision coerced onto the closed
// verdict set, confidence clamped into [0,1], range currency forced to the
// caller's working currency, inverted bounds swapped.
func decodeAssessment(text string, currency enums.Currency) (*Assessment, error) {
	cleaned := stripCodeFences(text)

	var wire assessmentWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		salvaged, ok := extractObject(cleaned)
		if !ok {
			return nil, errors.New("no JSON object in provider output")
		}
		if err := json.Unmarshal([]byte(salvaged), &wire); err != nil {
			return nil, errors.New("salvaged JSON object does not parse")
		}
	}

	if strings.TrimSpace(wire.Decision) == "" && wire.FairRange == nil {
		return nil, errors.New("provider output carries no decision")
	}

	result := &Assessment{
		Decision:      enums.CoerceVerdict(wire.Decision),
		Confidence:    clamp01(wire.Confidence),
		Rationale:     strings.TrimSpace(wire.Rationale),
		ProviderNotes: wire.Notes,
	}

	if wire.FairRange != nil && wire.FairRange.Min != nil && wire.FairRange.Max != nil {
		min, max := *wire.FairRange.Min, *wire.FairRange.Max
		if min > max {
			min, max = max, min
		}
		result.FairRange = &FairRange{Min: min, Max: max, Currency: currency}
	}

	return result, nil
}

func clamp01(value *float64) float64 {
	if value == nil {
		return 0
	}
	switch {
	case *value < 0:
		return 0
	case *value > 1:
		return 1
	default:
		return *value
	}
}

// stripCodeFences removes a surrounding markdown fence if the provider
// wrapped its JSON despite being asked not to.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// extractObject returns the outermost balanced {...} in text, tracking string
// literals and escapes so braces inside values do not end the scan early.
func extractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
