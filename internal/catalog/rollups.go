package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/muzammal-12/CarApp/pkg/db/models"
	"github.com/muzammal-12/CarApp/pkg/enums"
)

// applyRollups recomputes the entry's derived counters as a pure function of
// the current quote list. Average price is rounded to two decimals.
func applyRollups(entry *models.CatalogEntry, quotes []models.UserQuote) {
	entry.QuotesCount = len(quotes)
	entry.FairCount = 0
	entry.OverpricedCount = 0
	entry.UnknownCount = 0
	entry.AvgUserPrice = 0

	if len(quotes) == 0 {
		return
	}

	sum := decimal.Zero
	for _, quote := range quotes {
		sum = sum.Add(decimal.NewFromFloat(quote.Price))
		switch quote.Decision() {
		case enums.VerdictFair:
			entry.FairCount++
		case enums.VerdictOverpriced:
			entry.OverpricedCount++
		default:
			entry.UnknownCount++
		}
	}

	avg, _ := sum.Div(decimal.NewFromInt(int64(len(quotes)))).Round(2).Float64()
	entry.AvgUserPrice = avg
}

// QuotePrices extracts the raw price series in log order.
func QuotePrices(quotes []models.UserQuote) []float64 {
	prices := make([]float64, len(quotes))
	for i, quote := range quotes {
		prices[i] = quote.Price
	}
	return prices
}
