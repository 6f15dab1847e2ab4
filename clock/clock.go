// File: clock/clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package clock provides system-backed implementations of api.Clock with
// absolute-deadline waits. On Linux the clocks map directly onto
// clock_gettime/clock_nanosleep(TIMER_ABSTIME); elsewhere an emulation on
// the runtime timer keeps the same wait-until-instant semantics.
package clock

import "github.com/momentics/pacekit/api"

// System returns a clock sampling the given domain.
func System(id api.ClockID) api.Clock {
	return newSystem(id)
}

// Monotonic returns the default scheduling clock.
func Monotonic() api.Clock {
	return System(api.ClockMonotonic)
}

// Realtime returns the wall clock.
func Realtime() api.Clock {
	return System(api.ClockRealtime)
}
