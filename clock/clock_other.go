//go:build !linux

// File: clock/clock_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback clocks. The monotonic domain reads the Go runtime's
// monotonic source through time.Since; the absolute wait is emulated by
// re-checking the deadline after each sleep so a late timer never shifts it.

package clock

import (
	"time"

	"github.com/momentics/pacekit/api"
)

type sysClock struct {
	id    api.ClockID
	epoch time.Time
}

func newSystem(id api.ClockID) api.Clock {
	return &sysClock{id: id, epoch: time.Now()}
}

func (c *sysClock) Domain() api.ClockID { return c.id }

func (c *sysClock) Now() api.Stamp {
	if c.id == api.ClockRealtime {
		now := time.Now()
		return api.Stamp{Sec: now.Unix(), NSec: int64(now.Nanosecond())}
	}
	d := time.Since(c.epoch)
	return api.Stamp{Sec: int64(d / time.Second), NSec: int64(d % time.Second)}
}

func (c *sysClock) SleepUntil(t api.Stamp) {
	for {
		now := c.Now()
		if !now.Before(t) {
			return
		}
		time.Sleep(time.Duration(t.Sec-now.Sec)*time.Second + time.Duration(t.NSec-now.NSec))
	}
}
