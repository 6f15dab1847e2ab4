// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package pacer implements a blocking periodic-loop pacing controller.
//
// A Pacer makes repeated Sleep calls block until the next scheduled
// instant, compensating for drift by advancing an absolute target wake
// time with integer nanosecond arithmetic and waiting for that instant
// rather than sleeping a relative duration. Per-cycle processing time is
// tracked with single-pass statistics and checked against configurable
// warning and error thresholds.
package pacer
