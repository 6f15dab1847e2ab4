// File: internal/diag/diag.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package diag provides the built-in diagnostic sinks: a log-backed
// default, a discard sink for benchmarks, and a rate-limiting wrapper used
// by workers to keep repeated overrun reports from flooding the log.
package diag

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/momentics/pacekit/api"
)

// Sink writes diagnostics to a log.Logger with severity prefixes.
type Sink struct {
	l *log.Logger
}

// New returns a sink writing to the given logger.
func New(l *log.Logger) *Sink { return &Sink{l: l} }

var defaultSink = New(log.New(os.Stderr, "pacekit: ", log.LstdFlags|log.Lmicroseconds))

// Default returns the shared stderr sink.
func Default() api.DiagnosticSink { return defaultSink }

func (s *Sink) Infof(format string, args ...any)  { s.l.Printf("info: "+format, args...) }
func (s *Sink) Warnf(format string, args ...any)  { s.l.Printf("warn: "+format, args...) }
func (s *Sink) Errorf(format string, args ...any) { s.l.Printf("error: "+format, args...) }

type discard struct{}

func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}

// Discard drops all diagnostics.
var Discard api.DiagnosticSink = discard{}

// rateLimited forwards at most one warning/error per interval and folds
// suppressed occurrences into the next forwarded message.
type rateLimited struct {
	next  api.DiagnosticSink
	every time.Duration

	mu         sync.Mutex
	last       time.Time
	suppressed int
}

// RateLimited wraps next so warnings and errors are forwarded at most once
// per interval. Informational messages pass through untouched.
func RateLimited(next api.DiagnosticSink, every time.Duration) api.DiagnosticSink {
	return &rateLimited{next: next, every: every}
}

func (r *rateLimited) Infof(format string, args ...any) {
	r.next.Infof(format, args...)
}

func (r *rateLimited) Warnf(format string, args ...any) {
	if msg, n, ok := r.admit(format, args); ok {
		if n > 0 {
			r.next.Warnf("%s (%d suppressed)", msg, n)
			return
		}
		r.next.Warnf("%s", msg)
	}
}

func (r *rateLimited) Errorf(format string, args ...any) {
	if msg, n, ok := r.admit(format, args); ok {
		if n > 0 {
			r.next.Errorf("%s (%d suppressed)", msg, n)
			return
		}
		r.next.Errorf("%s", msg)
	}
}

func (r *rateLimited) admit(format string, args []any) (string, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if !r.last.IsZero() && now.Sub(r.last) < r.every {
		r.suppressed++
		return "", 0, false
	}
	n := r.suppressed
	r.suppressed = 0
	r.last = now
	return fmt.Sprintf(format, args...), n, true
}
