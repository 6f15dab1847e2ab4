package stats_test

import (
	"math"
	"testing"

	"github.com/momentics/pacekit/stats"
)

func TestEmptyAccumulator(t *testing.T) {
	var w stats.Welford
	if w.Count() != 0 {
		t.Fatal("fresh accumulator has samples")
	}
	if !math.IsNaN(w.Last()) || !math.IsNaN(w.Mean()) || !math.IsNaN(w.Var()) || !math.IsNaN(w.StdDev()) {
		t.Fatal("expected NaN statistics before first sample")
	}
}

func TestSingleSample(t *testing.T) {
	var w stats.Welford
	w.Add(0.25)
	if w.Count() != 1 || w.Last() != 0.25 || w.Mean() != 0.25 {
		t.Fatalf("count=%d last=%v mean=%v", w.Count(), w.Last(), w.Mean())
	}
	if !math.IsNaN(w.Var()) {
		t.Fatal("variance must be NaN with one sample")
	}
}

func TestMatchesDirectComputation(t *testing.T) {
	samples := []float64{0.02, 0.11, 0.05, 0.30, 0.07, 0.07, 0.19, 0.001}

	var w stats.Welford
	for _, x := range samples {
		w.Add(x)
	}

	var sum float64
	for _, x := range samples {
		sum += x
	}
	mean := sum / float64(len(samples))
	var sq float64
	for _, x := range samples {
		sq += (x - mean) * (x - mean)
	}
	variance := sq / float64(len(samples)-1)

	if diff := math.Abs(w.Mean() - mean); diff > 1e-12 {
		t.Errorf("mean: incremental %v, direct %v", w.Mean(), mean)
	}
	if diff := math.Abs(w.Var() - variance); diff > 1e-12 {
		t.Errorf("variance: incremental %v, direct %v", w.Var(), variance)
	}
	if diff := math.Abs(w.StdDev() - math.Sqrt(variance)); diff > 1e-12 {
		t.Errorf("stddev: incremental %v, direct %v", w.StdDev(), math.Sqrt(variance))
	}
}

func TestReset(t *testing.T) {
	var w stats.Welford
	w.Add(1)
	w.Add(2)
	w.Reset()
	if w.Count() != 0 || !math.IsNaN(w.Mean()) {
		t.Fatal("reset did not clear state")
	}
}
