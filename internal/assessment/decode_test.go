package assessment

import (
	"testing"

	"github.com/muzammal-12/CarApp/pkg/enums"
)

func TestDecodeAssessmentCoercesContract(t *testing.T) {
	result, err := decodeAssessment(`{"decision":"FAIR","confidence":1.4}`, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Decision != enums.VerdictFair {
		t.Fatalf("decision = %s, want fair", result.Decision)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want clamp to 1.0", result.Confidence)
	}
}

func TestDecodeAssessmentClampsNegativeConfidence(t *testing.T) {
	result, err := decodeAssessment(`{"decision":"overpriced","confidence":-0.5}`, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Confidence != 0 {
		t.Fatalf("confidence = %v, want clamp to 0", result.Confidence)
	}
}

func TestDecodeAssessmentUnknownDecisionFallsBack(t *testing.T) {
	result, err := decodeAssessment(`{"decision":"probably fine","confidence":0.6}`, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Decision != enums.VerdictUnknown {
		t.Fatalf("decision = %s, want unknown", result.Decision)
	}
}

func TestDecodeAssessmentStripsMarkdownFence(t *testing.T) {
	text := "```json\n{\"decision\":\"fair\",\"confidence\":0.8}\n```"
	result, err := decodeAssessment(text, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Decision != enums.VerdictFair || result.Confidence != 0.8 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestDecodeAssessmentSalvagesEmbeddedObject(t *testing.T) {
	text := `Sure! Here is my judgment: {"decision":"overpriced","confidence":0.9,"rationale":"costs {a lot}"} hope that helps.`
	result, err := decodeAssessment(text, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Decision != enums.VerdictOverpriced {
		t.Fatalf("decision = %s, want overpriced", result.Decision)
	}
	if result.Rationale != "costs {a lot}" {
		t.Fatalf("rationale = %q", result.Rationale)
	}
}

func TestDecodeAssessmentForcesCurrencyAndSwapsBounds(t *testing.T) {
	text := `{"decision":"fair","fair_range":{"min":120,"max":60,"currency":"JPY"}}`
	result, err := decodeAssessment(text, enums.CurrencyEUR)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.FairRange == nil {
		t.Fatal("expected a fair range")
	}
	if result.FairRange.Min != 60 || result.FairRange.Max != 120 {
		t.Fatalf("bounds not swapped: %+v", result.FairRange)
	}
	if result.FairRange.Currency != enums.CurrencyEUR {
		t.Fatalf("currency = %s, want caller's EUR", result.FairRange.Currency)
	}
}

func TestDecodeAssessmentRejectsEmptyVerdicts(t *testing.T) {
	for _, text := range []string{
		"no JSON here at all",
		`{"rationale":"thoughts, but no decision"}`,
		"{broken json",
	} {
		if _, err := decodeAssessment(text, enums.CurrencyUSD); err == nil {
			t.Fatalf("expected decode of %q to fail", text)
		}
	}
}

func TestDecodeAssessmentRangeWithoutDecision(t *testing.T) {
	// A usable range with no decision string still passes the contract; the
	// decision coerces to unknown.
	result, err := decodeAssessment(`{"fair_range":{"min":40,"max":90}}`, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Decision != enums.VerdictUnknown {
		t.Fatalf("decision = %s, want unknown", result.Decision)
	}
	if result.FairRange == nil || result.FairRange.Min != 40 {
		t.Fatalf("range lost: %+v", result.FairRange)
	}
}
