// File: pacer/options.go
// Package pacer defines functional options for Pacer construction.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pacer

import "github.com/momentics/pacekit/api"

// Option customizes pacer initialization.
type Option func(*config)

type config struct {
	warn    float64
	warnSet bool
	err     float64
	errSet  bool
	enforce bool
	clk     api.Clock
	sink    api.DiagnosticSink
}

// WithWarnThreshold overrides the warning threshold in seconds. The
// default is the time step itself.
func WithWarnThreshold(seconds float64) Option {
	return func(c *config) {
		c.warn = seconds
		c.warnSet = true
	}
}

// WithErrorThreshold overrides the error threshold in seconds. The default
// is ten times the time step.
func WithErrorThreshold(seconds float64) Option {
	return func(c *config) {
		c.err = seconds
		c.errSet = true
	}
}

// WithEnforceRate sets the behind-schedule policy. When true (the
// default), deficits are carried forward and cycles run back-to-back until
// the schedule catches up; when false, the deadline silently slips.
func WithEnforceRate(enforce bool) Option {
	return func(c *config) {
		c.enforce = enforce
	}
}

// WithClock selects the clock the pacer samples and waits on. The clock is
// fixed for the pacer's lifetime.
func WithClock(clk api.Clock) Option {
	return func(c *config) {
		c.clk = clk
	}
}

// WithSink routes warning and error diagnostics to the given sink.
func WithSink(sink api.DiagnosticSink) Option {
	return func(c *config) {
		c.sink = sink
	}
}
