package assessment

import (
	"fmt"
	"strings"

	"github.com/muzammal-12/CarApp/internal/normalize"
)

const outputContract = `Respond with ONLY a JSON object, no markdown, no commentary:
{"decision":"fair|overpriced|unknown","confidence":0.0,"rationale":"...","fair_range":{"min":0,"max":0,"currency":"USD"},"notes":["..."]}`

// fullPrompt carries every context hint the caller supplied.
func fullPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a vehicle maintenance price auditor. Judge whether this quote is fair.\n")
	fmt.Fprintf(&b, "Vehicle: %d %s %s\n", req.VehicleYear, req.VehicleMake, req.VehicleModel)
	fmt.Fprintf(&b, "Service: %s (canonical: %s)\n", req.ServiceName, normalize.Key(req.ServiceName))
	fmt.Fprintf(&b, "Quoted price: %.2f %s\n", req.QuotedPrice, req.Currency)
	if req.City != "" || req.Region != "" {
		fmt.Fprintf(&b, "Location: %s\n", strings.TrimSpace(strings.Join([]string{req.City, req.Region}, " ")))
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", req.Notes)
	}
	b.WriteString(outputContract)
	return b.String()
}

// minimalPrompt is the reduced-context second attempt: the bare tuple and the
// output contract, nothing else.
func minimalPrompt(req Request) string {
	return fmt.Sprintf(
		"Is %.2f %s a fair price for %q on a %d %s %s?\n%s",
		req.QuotedPrice, req.Currency, req.ServiceName,
		req.VehicleYear, req.VehicleMake, req.VehicleModel,
		outputContract,
	)
}
