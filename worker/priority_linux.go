//go:build linux

// File: worker/priority_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package worker

import "golang.org/x/sys/unix"

// setRealtimePriority switches the calling thread to SCHED_FIFO at the
// given priority (1..99). Requires CAP_SYS_NICE. The caller must have
// locked the goroutine to its OS thread.
func setRealtimePriority(priority int) error {
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: uint32(priority),
	}
	return unix.SchedSetAttr(0, &attr, 0)
}
