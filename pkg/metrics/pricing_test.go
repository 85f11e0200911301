package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherCounterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelValue == "" || metricHasLabelValue(metric, labelValue) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s (%s) not found", name, labelValue)
	return 0
}

func metricHasLabelValue(metric *dto.Metric, value string) bool {
	for _, label := range metric.GetLabel() {
		if label.GetValue() == value {
			return true
		}
	}
	return false
}

func TestPricingMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPricingMetrics(reg)

	m.ObserveProviderCall("ok", 120*time.Millisecond)
	m.ObserveProviderCall("invalid", 80*time.Millisecond)
	m.IncComparison("ai")
	m.IncComparison("heuristic")
	m.IncComparison("heuristic")
	m.IncQuoteLearned()

	if got := gatherCounterValue(t, reg, "assessment_provider_calls_total", "ok"); got != 1 {
		t.Fatalf("ok provider calls = %v, want 1", got)
	}
	if got := gatherCounterValue(t, reg, "quote_comparisons_total", "heuristic"); got != 2 {
		t.Fatalf("heuristic comparisons = %v, want 2", got)
	}
	if got := gatherCounterValue(t, reg, "quotes_learned_total", ""); got != 1 {
		t.Fatalf("quotes learned = %v, want 1", got)
	}
}

func TestPricingMetricsNilSafe(t *testing.T) {
	var m *PricingMetrics
	m.ObserveProviderCall("ok", time.Second)
	m.IncComparison("ai")
	m.IncQuoteLearned()

	unregistered := NewPricingMetrics(nil)
	unregistered.ObserveProviderCall("ok", time.Second)
	unregistered.IncComparison("ai")
	unregistered.IncQuoteLearned()
}
