package compare

import (
	"regexp"
	"strconv"
	"strings"
)

// lineItemPattern matches the free-text quote formats the mobile app and OCR
// feed produce, e.g. "Front brake pads x2 @ 45", "Oil change - 59.99",
// "Coolant flush @ $120".
var lineItemPattern = regexp.MustCompile(`(?i)^(.*?)(?:\s+x\s*(\d+))?(?:\s*[@\-]\s*\$?\s*(\d+(?:\.\d+)?))?\s*$`)

// ParseLine splits a free-text quote line into a LineItem. Quantity defaults
// to 1 and unit price to 0 when the line carries no markers; the label is
// never empty for non-blank input.
func ParseLine(raw string) (LineItem, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return LineItem{}, false
	}

	item := LineItem{Label: trimmed, Quantity: 1}
	matches := lineItemPattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return item, true
	}

	if label := strings.TrimSpace(matches[1]); label != "" {
		item.Label = label
	}
	if matches[2] != "" {
		if qty, err := strconv.Atoi(matches[2]); err == nil && qty >= 1 {
			item.Quantity = qty
		}
	}
	if matches[3] != "" {
		if price, err := strconv.ParseFloat(matches[3], 64); err == nil {
			item.UnitPrice = price
		}
	}
	return item, true
}
