// File: api/clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Clock contracts for drift-free periodic scheduling.

package api

// ClockID selects the time domain a Clock samples.
type ClockID int32

const (
	// ClockMonotonic is a clock that never jumps backwards. It is the
	// default domain for scheduling.
	ClockMonotonic ClockID = iota
	// ClockRealtime is the wall clock, used for log correlation. It may
	// step when the system time is adjusted.
	ClockRealtime
)

// String returns the conventional name of the clock domain.
func (id ClockID) String() string {
	switch id {
	case ClockMonotonic:
		return "monotonic"
	case ClockRealtime:
		return "realtime"
	default:
		return "unknown"
	}
}

const nsecPerSec = int64(1_000_000_000)

// Stamp is an absolute instant with nanosecond resolution in some clock
// domain. Seconds and nanoseconds are kept as separate integers so that
// schedule arithmetic never accumulates floating-point error, no matter how
// many periods are added.
type Stamp struct {
	Sec  int64
	NSec int64
}

// Add returns the stamp advanced by ns nanoseconds, normalizing the
// nanosecond field with carry into seconds.
func (s Stamp) Add(ns int64) Stamp {
	s.NSec += ns
	s.Sec += s.NSec / nsecPerSec
	s.NSec %= nsecPerSec
	if s.NSec < 0 {
		s.NSec += nsecPerSec
		s.Sec--
	}
	return s
}

// Before reports whether s is strictly earlier than t.
func (s Stamp) Before(t Stamp) bool {
	return s.Sec < t.Sec || (s.Sec == t.Sec && s.NSec < t.NSec)
}

// SecondsTo returns the elapsed time from s to t in seconds. The result is
// negative when t is earlier than s.
func (s Stamp) SecondsTo(t Stamp) float64 {
	return float64(t.Sec-s.Sec) + float64(t.NSec-s.NSec)*1e-9
}

// Nanoseconds returns the stamp as a single nanosecond count.
func (s Stamp) Nanoseconds() int64 {
	return s.Sec*nsecPerSec + s.NSec
}

// Clock samples absolute time in a single domain and blocks until absolute
// instants in that domain.
//
// SleepUntil must implement an absolute-deadline wait, not a relative
// sleep: the cost of computing and issuing the wait must not shift the
// deadline, and a deadline already in the past returns immediately.
type Clock interface {
	// Domain returns the clock domain this clock samples.
	Domain() ClockID

	// Now returns the current instant.
	Now() Stamp

	// SleepUntil blocks the caller until the instant t has been reached.
	// The wait is not cancellable once entered.
	SleepUntil(t Stamp)
}
