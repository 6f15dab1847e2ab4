// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package worker runs callbacks periodically on dedicated goroutines,
// paced by pacer.Pacer, and provides a named registry for managing sets
// of workers together.
package worker
