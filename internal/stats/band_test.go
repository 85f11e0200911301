package stats

import (
	"math"
	"testing"
)

func TestComputeRejectsSmallSamples(t *testing.T) {
	for n := 0; n < MinSamples; n++ {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = 100
		}
		if _, ok := Compute(prices); ok {
			t.Fatalf("expected no band for %d samples", n)
		}
	}
}

func TestComputeWorkedExample(t *testing.T) {
	band, ok := Compute([]float64{100, 120, 110, 90, 130})
	if !ok {
		t.Fatal("expected a band for five samples")
	}
	if band.Median != 110 {
		t.Fatalf("median = %v, want 110", band.Median)
	}
	if band.P25 != 100 {
		t.Fatalf("p25 = %v, want 100", band.P25)
	}
	if band.P75 != 120 {
		t.Fatalf("p75 = %v, want 120", band.P75)
	}
}

func TestComputeEvenSampleMedian(t *testing.T) {
	band, ok := Compute([]float64{10, 20, 30, 40, 50, 60})
	if !ok {
		t.Fatal("expected a band for six samples")
	}
	if band.Median != 35 {
		t.Fatalf("median = %v, want 35", band.Median)
	}
}

func TestComputeInterpolatesQuantiles(t *testing.T) {
	// (n-1)*q = 5*0.25 = 1.25 → 20 + 0.25*(30-20) = 22.5
	band, ok := Compute([]float64{10, 20, 30, 40, 50, 60})
	if !ok {
		t.Fatal("expected a band")
	}
	if math.Abs(band.P25-22.5) > 1e-9 {
		t.Fatalf("p25 = %v, want 22.5", band.P25)
	}
	if math.Abs(band.P75-47.5) > 1e-9 {
		t.Fatalf("p75 = %v, want 47.5", band.P75)
	}
}

func TestComputeOrderingInvariant(t *testing.T) {
	samples := [][]float64{
		{5, 5, 5, 5, 5},
		{1, 2, 3, 4, 5, 6, 7, 8, 9},
		{300, 100, 200, 500, 400, 250},
	}
	for _, prices := range samples {
		band, ok := Compute(prices)
		if !ok {
			t.Fatalf("expected a band for %v", prices)
		}
		if band.P25 > band.Median || band.Median > band.P75 {
			t.Fatalf("band ordering violated for %v: %+v", prices, band)
		}
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	prices := []float64{130, 90, 120, 100, 110}
	if _, ok := Compute(prices); !ok {
		t.Fatal("expected a band")
	}
	if prices[0] != 130 || prices[4] != 110 {
		t.Fatalf("input slice mutated: %v", prices)
	}
}
