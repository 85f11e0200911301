// Package stats computes the robust crowd-price band (median and
// interquartile range) over a catalog entry's quote log.
package stats

import (
	"math"
	"sort"
)

// MinSamples is the hard gate below which crowd data is not trusted: variance
// is too high on small samples, so the resolver falls through to the next
// tier.
const MinSamples = 5

// Band is the published fair-price reference computed from crowd quotes.
type Band struct {
	Median float64
	P25    float64
	P75    float64
}

// Compute returns the price band for the supplied quote prices, or false when
// fewer than MinSamples prices exist.
func Compute(prices []float64) (Band, bool) {
	if len(prices) < MinSamples {
		return Band{}, false
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	return Band{
		Median: median(sorted),
		P25:    quantile(sorted, 0.25),
		P75:    quantile(sorted, 0.75),
	}, true
}

func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// quantile interpolates linearly between order statistics at index (n-1)*q.
// This exact definition determines the published fair-band boundaries.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := float64(n-1) * q
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}
