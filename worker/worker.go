// File: worker/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package worker

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/pacekit/api"
	"github.com/momentics/pacekit/internal/diag"
	"github.com/momentics/pacekit/pacer"
)

// Worker owns one goroutine that invokes a callback at a fixed rate.
// Start and Stop may be called from any goroutine; the callback always
// runs on the worker's own goroutine.
type Worker struct {
	opts  Options
	sink  api.DiagnosticSink
	pacer *pacer.Pacer

	running int32
	done    int32
	wg      sync.WaitGroup
}

// New is the convenience constructor for the common case.
func New(name string, timeStep float64, cb Callback) *Worker {
	return FromOptions(Options{Name: name, TimeStep: timeStep, Callback: cb})
}

// FromOptions constructs a worker from a full option set.
func FromOptions(opts Options) *Worker {
	sink := opts.Sink
	if sink == nil {
		sink = diag.Default()
	}

	step := opts.TimeStep
	if math.IsInf(step, 1) {
		// Run-once workers pace nothing; give the pacer a plain probe.
		step = 0
	}
	popts := []pacer.Option{
		pacer.WithEnforceRate(!opts.RelaxRate),
		// Overrun reports repeat every cycle while a worker is too slow;
		// throttle them the way a human would want to read them.
		pacer.WithSink(diag.RateLimited(sink, time.Second)),
	}
	if opts.Clock != nil {
		popts = append(popts, pacer.WithClock(opts.Clock))
	}
	if opts.WarnThreshold > 0 {
		popts = append(popts, pacer.WithWarnThreshold(opts.WarnThreshold))
	}
	if opts.ErrorThreshold > 0 {
		popts = append(popts, pacer.WithErrorThreshold(opts.ErrorThreshold))
	}

	return &Worker{
		opts:  opts,
		sink:  sink,
		pacer: pacer.New(opts.Name, step, popts...),
	}
}

// Name returns the worker's identifier.
func (w *Worker) Name() string { return w.opts.Name }

// Pacer exposes the underlying pacer for statistics inspection.
func (w *Worker) Pacer() *pacer.Pacer { return w.pacer }

// TimeStep returns the current period in seconds.
func (w *Worker) TimeStep() float64 {
	if math.IsInf(w.opts.TimeStep, 1) {
		return w.opts.TimeStep
	}
	return w.pacer.TimeStep()
}

// SetTimeStep changes the period of a periodic worker. Values that are not
// strictly positive finite numbers are rejected with a diagnostic.
func (w *Worker) SetTimeStep(timeStep float64) {
	if timeStep <= 0 || math.IsNaN(timeStep) || math.IsInf(timeStep, 0) {
		w.sink.Errorf("worker %q: cannot change time step to invalid value %v", w.opts.Name, timeStep)
		return
	}
	w.pacer.SetTimeStep(timeStep)
}

// IsRunning reports whether the worker goroutine is active.
func (w *Worker) IsRunning() bool { return atomic.LoadInt32(&w.running) == 1 }

// IsDone reports whether the worker goroutine has finished.
func (w *Worker) IsDone() bool { return atomic.LoadInt32(&w.done) == 1 }

// IsDestructible reports whether the worker has finished and was marked
// for automatic removal.
func (w *Worker) IsDestructible() bool {
	return w.IsDone() && w.opts.DestructWhenDone
}

// Start launches the worker goroutine. A non-zero priority overrides
// Options.Priority for this run. Starting an already running worker or a
// worker with an invalid time step fails.
func (w *Worker) Start(priority int) error {
	if math.IsNaN(w.opts.TimeStep) || w.opts.TimeStep < 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "worker cannot be started, invalid time step").
			WithContext("worker", w.opts.Name).
			WithContext("timeStep", w.opts.TimeStep)
	}
	if !atomic.CompareAndSwapInt32(&w.running, 0, 1) {
		return api.NewError(api.ErrCodeAlreadyRunning, "worker cannot be started, already running").
			WithContext("worker", w.opts.Name)
	}
	atomic.StoreInt32(&w.done, 0)

	if priority == 0 {
		priority = w.opts.Priority
	}

	w.wg.Add(1)
	go w.run(priority)
	w.sink.Infof("worker %q started", w.opts.Name)
	return nil
}

// Stop asks the worker to finish after the current cycle. With wait set it
// blocks until the goroutine has exited; a cycle already sleeping finishes
// its wait first.
func (w *Worker) Stop(wait bool) {
	atomic.StoreInt32(&w.running, 0)
	if wait {
		w.wg.Wait()
	}
}

func (w *Worker) run(priority int) {
	defer w.wg.Done()

	if priority != 0 {
		runtime.LockOSThread()
		if err := setRealtimePriority(priority); err != nil {
			w.sink.Warnf("worker %q: failed to set thread priority %d: %v", w.opts.Name, priority, err)
		}
	}

	if math.IsInf(w.opts.TimeStep, 1) {
		if !w.opts.Callback(Event{TimeStep: w.opts.TimeStep, Stamp: w.pacer.Clock().Now()}) {
			w.sink.Warnf("worker %q: callback returned false", w.opts.Name)
		}
	} else {
		w.pacer.Reset()
		for {
			if !w.opts.Callback(Event{TimeStep: w.pacer.TimeStep(), Stamp: w.pacer.TargetWake()}) {
				w.sink.Warnf("worker %q: callback returned false", w.opts.Name)
			}
			w.pacer.Sleep()
			if atomic.LoadInt32(&w.running) == 0 {
				break
			}
		}
	}

	w.sink.Infof("worker %q terminated", w.opts.Name)
	atomic.StoreInt32(&w.done, 1)
	atomic.StoreInt32(&w.running, 0)
}
