// File: stats/welford.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package stats implements single-pass running statistics for timing
// samples. The accumulator keeps mean and variance of a stream without
// retaining history, which lets pacers run for days without allocating.
package stats

import "math"

// Welford accumulates count, mean and variance of a sample stream using
// the numerically stable single-pass update:
// https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance
//
// The zero value is ready to use. Methods are not synchronized; one writer
// owns the accumulator.
type Welford struct {
	n    uint64
	last float64
	mean float64
	m2   float64
}

// Add folds one sample into the running aggregates.
func (w *Welford) Add(x float64) {
	w.last = x
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	delta2 := x - w.mean
	w.m2 += delta * delta2
}

// Reset discards all accumulated state.
func (w *Welford) Reset() {
	*w = Welford{}
}

// Count returns the number of samples seen since the last reset.
func (w *Welford) Count() uint64 { return w.n }

// Last returns the most recent sample, or NaN before the first one.
func (w *Welford) Last() float64 {
	if w.n == 0 {
		return math.NaN()
	}
	return w.last
}

// Mean returns the running mean, or NaN before the first sample.
func (w *Welford) Mean() float64 {
	if w.n == 0 {
		return math.NaN()
	}
	return w.mean
}

// Var returns the unbiased sample variance, or NaN with fewer than two
// samples.
func (w *Welford) Var() float64 {
	if w.n <= 1 {
		return math.NaN()
	}
	return w.m2 / float64(w.n-1)
}

// StdDev returns the sample standard deviation, or NaN with fewer than two
// samples.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.Var())
}
