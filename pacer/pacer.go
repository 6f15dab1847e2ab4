// File: pacer/pacer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pacer

import (
	"math"
	"sync/atomic"

	"github.com/momentics/pacekit/api"
	"github.com/momentics/pacekit/clock"
	"github.com/momentics/pacekit/internal/diag"
	"github.com/momentics/pacekit/stats"
)

// Pacer paces a periodic loop. One goroutine owns a pacer and calls Sleep
// once per cycle; configuration setters may be called from other
// goroutines, each field being independently atomic. A Sleep call that
// races a writer may observe a mix of old and new values across fields;
// there is no cross-field snapshot.
type Pacer struct {
	name string
	clk  api.Clock
	sink api.DiagnosticSink

	// IEEE 754 bits, one independent atomic per configurable field.
	timeStep uint64
	warn     uint64
	errLimit uint64
	enforce  int32

	// Schedule state, owned by the Sleep caller.
	sleepStart api.Stamp
	sleepEnd   api.Stamp
	targetWake api.Stamp

	// Statistics, mutated only by Sleep, reset only by Reset.
	awake    stats.Welford
	warnings uint64
	errors   uint64
}

// New constructs a pacer with the given name and desired period in
// seconds. Defaults: warning threshold = timeStep, error threshold =
// 10*timeStep, rate enforcement on, monotonic system clock. The schedule
// is anchored to "now" via Reset.
func New(name string, timeStep float64, opts ...Option) *Pacer {
	cfg := config{enforce: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clk == nil {
		cfg.clk = clock.Monotonic()
	}
	if cfg.sink == nil {
		cfg.sink = diag.Default()
	}

	p := &Pacer{name: name, clk: cfg.clk, sink: cfg.sink}
	p.SetEnforceRate(cfg.enforce)
	p.SetTimeStep(timeStep)

	warn, errLimit := timeStep, 10*timeStep
	if cfg.warnSet {
		warn = cfg.warn
	}
	if cfg.errSet {
		errLimit = cfg.err
	}
	p.SetWarnThreshold(warn)
	p.SetErrorThreshold(errLimit)

	p.Reset()
	return p
}

// Name returns the pacer's diagnostic identifier.
func (p *Pacer) Name() string { return p.name }

// Clock returns the clock the pacer was constructed with.
func (p *Pacer) Clock() api.Clock { return p.clk }

// TimeStep returns the desired period in seconds.
func (p *Pacer) TimeStep() float64 {
	return math.Float64frombits(atomic.LoadUint64(&p.timeStep))
}

// SetTimeStep replaces the desired period. Negative, NaN and infinite
// values are rejected: the previous value stays in place and an error
// diagnostic is emitted.
func (p *Pacer) SetTimeStep(seconds float64) {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		p.sink.Errorf("pacer %q: cannot set the time step to invalid value %v s", p.name, seconds)
		return
	}
	atomic.StoreUint64(&p.timeStep, math.Float64bits(seconds))
}

// WarnThreshold returns the awake-time warning threshold in seconds.
func (p *Pacer) WarnThreshold() float64 {
	return math.Float64frombits(atomic.LoadUint64(&p.warn))
}

// SetWarnThreshold replaces the warning threshold. Negative and NaN values
// are rejected; +Inf is allowed and disables warnings.
func (p *Pacer) SetWarnThreshold(seconds float64) {
	if seconds < 0 || math.IsNaN(seconds) {
		p.sink.Errorf("pacer %q: cannot set the warning threshold to invalid value %v s", p.name, seconds)
		return
	}
	atomic.StoreUint64(&p.warn, math.Float64bits(seconds))
}

// ErrorThreshold returns the awake-time error threshold in seconds.
func (p *Pacer) ErrorThreshold() float64 {
	return math.Float64frombits(atomic.LoadUint64(&p.errLimit))
}

// SetErrorThreshold replaces the error threshold. Negative and NaN values
// are rejected; +Inf is allowed and disables errors.
func (p *Pacer) SetErrorThreshold(seconds float64) {
	if seconds < 0 || math.IsNaN(seconds) {
		p.sink.Errorf("pacer %q: cannot set the error threshold to invalid value %v s", p.name, seconds)
		return
	}
	atomic.StoreUint64(&p.errLimit, math.Float64bits(seconds))
}

// EnforceRate reports the behind-schedule policy.
func (p *Pacer) EnforceRate() bool {
	return atomic.LoadInt32(&p.enforce) == 1
}

// SetEnforceRate switches the behind-schedule policy.
func (p *Pacer) SetEnforceRate(enforce bool) {
	var v int32
	if enforce {
		v = 1
	}
	atomic.StoreInt32(&p.enforce, v)
}

// Reset re-anchors the schedule to the current instant and zeroes all
// statistics. Call it after an intentional pause so the gap is not
// reported as a huge awake time.
func (p *Pacer) Reset() {
	p.awake.Reset()
	atomic.StoreUint64(&p.warnings, 0)
	atomic.StoreUint64(&p.errors, 0)

	now := p.clk.Now()
	p.sleepStart = now
	p.sleepEnd = now
	p.targetWake = now
}

// Sleep blocks the caller until the next scheduled instant, or returns
// immediately when behind schedule. It measures the awake time consumed
// since the previous cycle's scheduled wake, folds it into the running
// statistics, checks it against the thresholds, then advances the target
// wake time by exactly one time step and waits for that absolute instant.
//
// Sleep must be called from a single goroutine per pacer.
func (p *Pacer) Sleep() {
	// A zero time step still updates statistics and thresholds, so nothing
	// is skipped for that case; the schedule just never asks the caller to
	// block.
	p.sleepStart = p.clk.Now()
	awake := p.sleepEnd.SecondsTo(p.sleepStart)
	p.awake.Add(awake)

	step := p.TimeStep()
	if awake > p.ErrorThreshold() {
		p.sink.Errorf("pacer %q: processing took too long (%v s > %v s)", p.name, awake, step)
		atomic.AddUint64(&p.errors, 1)
	} else if awake > p.WarnThreshold() {
		p.sink.Warnf("pacer %q: processing took too long (%v s > %v s)", p.name, awake, step)
		atomic.AddUint64(&p.warnings, 1)
	}

	// Integer nanosecond advancement; repeated floating-point addition of
	// fractional seconds would drift over many cycles.
	p.targetWake = p.targetWake.Add(int64(step * 1e9))

	p.sleepEnd = p.clk.Now()
	if p.targetWake.Before(p.sleepEnd) {
		// Behind schedule. With enforcement on, the deficit is carried
		// forward and subsequent cycles run back-to-back until the
		// schedule catches up. Otherwise the deadline slips to "now".
		if !p.EnforceRate() {
			p.targetWake = p.sleepEnd
		}
		return
	}

	// The operation's effective end is the target instant, not the actual
	// wakeup, so scheduler overhead never counts as awake time.
	p.sleepEnd = p.targetWake
	p.clk.SleepUntil(p.targetWake)
}

// SleepStart returns when the current Sleep call sampled the clock.
func (p *Pacer) SleepStart() api.Stamp { return p.sleepStart }

// SleepEnd returns the effective end of the last Sleep call.
func (p *Pacer) SleepEnd() api.Stamp { return p.sleepEnd }

// TargetWake returns the absolute instant the schedule calls for the next
// cycle to begin.
func (p *Pacer) TargetWake() api.Stamp { return p.targetWake }

// Cycles returns the number of Sleep calls since the last reset.
func (p *Pacer) Cycles() uint64 { return p.awake.Count() }

// Warnings returns the number of soft overruns since the last reset.
func (p *Pacer) Warnings() uint64 { return atomic.LoadUint64(&p.warnings) }

// Errors returns the number of hard overruns since the last reset.
func (p *Pacer) Errors() uint64 { return atomic.LoadUint64(&p.errors) }

// AwakeTime returns the awake time of the last cycle in seconds, or NaN
// if no cycle has run since the last reset.
func (p *Pacer) AwakeTime() float64 { return p.awake.Last() }

// AwakeTimeMean returns the running mean awake time, or NaN if no cycle
// has run.
func (p *Pacer) AwakeTimeMean() float64 { return p.awake.Mean() }

// AwakeTimeVar returns the unbiased sample variance of the awake time, or
// NaN with fewer than two cycles.
func (p *Pacer) AwakeTimeVar() float64 { return p.awake.Var() }

// AwakeTimeStdDev returns the sample standard deviation of the awake
// time, or NaN with fewer than two cycles.
func (p *Pacer) AwakeTimeStdDev() float64 { return p.awake.StdDev() }

// Snapshot is a point-in-time copy of a pacer's counters and statistics,
// suitable for publishing into a metrics registry.
type Snapshot struct {
	Name        string
	TimeStep    float64
	Cycles      uint64
	Warnings    uint64
	Errors      uint64
	LastAwake   float64
	MeanAwake   float64
	VarAwake    float64
	StdDevAwake float64
}

// Snapshot captures the current statistics.
func (p *Pacer) Snapshot() Snapshot {
	return Snapshot{
		Name:        p.name,
		TimeStep:    p.TimeStep(),
		Cycles:      p.Cycles(),
		Warnings:    p.Warnings(),
		Errors:      p.Errors(),
		LastAwake:   p.AwakeTime(),
		MeanAwake:   p.AwakeTimeMean(),
		VarAwake:    p.AwakeTimeVar(),
		StdDevAwake: p.AwakeTimeStdDev(),
	}
}
