// File: worker/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package worker

import "github.com/momentics/pacekit/api"

// Event carries the cycle context handed to a worker callback.
type Event struct {
	// TimeStep is the period the worker is currently configured for,
	// in seconds.
	TimeStep float64
	// Stamp is the scheduled start of this cycle in the worker's clock
	// domain.
	Stamp api.Stamp
}

// Callback is the unit of periodic work. Returning false reports a failed
// cycle; the worker logs a warning and keeps running.
type Callback func(Event) bool

// Options configures a Worker.
type Options struct {
	// Name identifies the worker in diagnostics and in a Manager.
	Name string

	// TimeStep is the desired period in seconds. Zero free-runs the
	// callback while still collecting statistics; +Inf runs the callback
	// exactly once.
	TimeStep float64

	// Callback is invoked once per cycle.
	Callback Callback

	// WarnThreshold and ErrorThreshold override the pacer's awake-time
	// thresholds in seconds. Zero values keep the pacer defaults
	// (TimeStep and 10*TimeStep).
	WarnThreshold  float64
	ErrorThreshold float64

	// RelaxRate forgives schedule deficits instead of carrying them
	// forward. The default (false) enforces the rate: after an overrun,
	// cycles run back-to-back until the schedule catches up.
	RelaxRate bool

	// Priority is the SCHED_FIFO priority applied to the worker's thread
	// on Linux, 1..99. Zero leaves the scheduling class untouched.
	Priority int

	// DestructWhenDone marks the worker for removal by
	// Manager.CleanDestructible once it has finished.
	DestructWhenDone bool

	// Clock overrides the pacing clock; nil selects the monotonic system
	// clock.
	Clock api.Clock

	// Sink receives the worker's diagnostics; nil selects the default
	// stderr sink.
	Sink api.DiagnosticSink
}
