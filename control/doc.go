// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, hot-reload and runtime metrics layer for pacekit.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML-loadable worker-set configuration with validation
//   - A config store with reload listeners pushing changes into a
//     running worker.Manager
//   - A metrics registry collecting pacer snapshots
//   - A bounded history of recent overrun diagnostics
package control
