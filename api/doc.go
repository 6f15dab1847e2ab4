// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package api defines the public contracts of pacekit: clock domains and
// absolute timestamps, diagnostic sinks, and the common error types shared
// by the pacer, worker and control layers.
package api
