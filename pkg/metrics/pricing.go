package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records assessment-provider and pipeline activity.
type PricingMetrics struct {
	providerDuration *prometheus.HistogramVec
	providerCalls    *prometheus.CounterVec
	comparisons      *prometheus.CounterVec
	quotesLearned    prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	providerDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assessment_provider_duration_seconds",
		Help:    "Duration of AI assessment provider calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	providerCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_provider_calls_total",
		Help: "AI assessment provider calls by outcome.",
	}, []string{"outcome"})
	comparisons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_comparisons_total",
		Help: "Quote comparison batches by path.",
	}, []string{"path"})
	quotesLearned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quotes_learned_total",
		Help: "User quotes appended to the catalog.",
	})
	reg.MustRegister(providerDuration, providerCalls, comparisons, quotesLearned)
	return &PricingMetrics{
		providerDuration: providerDuration,
		providerCalls:    providerCalls,
		comparisons:      comparisons,
		quotesLearned:    quotesLearned,
	}
}

// ObserveProviderCall records one provider call with its outcome
// (ok, invalid, unconfigured).
func (m *PricingMetrics) ObserveProviderCall(outcome string, duration time.Duration) {
	if m == nil || m.providerCalls == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.providerCalls.WithLabelValues(label).Inc()
	m.providerDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncComparison counts a comparison batch by path (ai, heuristic).
func (m *PricingMetrics) IncComparison(path string) {
	if m == nil || m.comparisons == nil {
		return
	}
	m.comparisons.WithLabelValues(normalizeLabel(path)).Inc()
}

// IncQuoteLearned counts one accepted crowd-learning quote.
func (m *PricingMetrics) IncQuoteLearned() {
	if m == nil || m.quotesLearned == nil {
		return
	}
	m.quotesLearned.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
