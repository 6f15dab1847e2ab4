//go:build linux

// File: clock/clock_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux clocks backed by clock_gettime and clock_nanosleep. The absolute
// TIMER_ABSTIME wait is what keeps long-running periodic loops drift-free:
// the deadline is a fixed instant, so the cost of issuing the syscall never
// leaks into the period.

package clock

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/pacekit/api"
)

type sysClock struct {
	id      api.ClockID
	clockid int32
}

func newSystem(id api.ClockID) api.Clock {
	cid := int32(unix.CLOCK_MONOTONIC)
	if id == api.ClockRealtime {
		cid = int32(unix.CLOCK_REALTIME)
	}
	return &sysClock{id: id, clockid: cid}
}

func (c *sysClock) Domain() api.ClockID { return c.id }

func (c *sysClock) Now() api.Stamp {
	var ts unix.Timespec
	if err := unix.ClockGettime(c.clockid, &ts); err != nil {
		// clock_gettime fails only for invalid clock ids, which the
		// constructor cannot produce.
		return api.Stamp{}
	}
	return api.Stamp{Sec: int64(ts.Sec), NSec: int64(ts.Nsec)}
}

func (c *sysClock) SleepUntil(t api.Stamp) {
	ts := unix.NsecToTimespec(t.Nanoseconds())
	for {
		err := unix.ClockNanosleep(c.clockid, unix.TIMER_ABSTIME, &ts, nil)
		if err != unix.EINTR {
			return
		}
	}
}
