// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for pacing telemetry.
// Holds the latest pacer snapshots in a thread-safe map with dynamic
// registration.

package control

import (
	"sync"
	"time"

	"github.com/momentics/pacekit/pacer"
	"github.com/momentics/pacekit/worker"
)

// MetricsRegistry holds the most recent snapshot per pacer.
type MetricsRegistry struct {
	mu      sync.RWMutex
	snaps   map[string]pacer.Snapshot
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		snaps: make(map[string]pacer.Snapshot),
	}
}

// Publish stores or updates the snapshot under its pacer name.
func (mr *MetricsRegistry) Publish(snap pacer.Snapshot) {
	mr.mu.Lock()
	mr.snaps[snap.Name] = snap
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Collect publishes the current statistics of every worker in the
// manager.
func (mr *MetricsRegistry) Collect(m *worker.Manager) {
	for _, snap := range m.Snapshots() {
		mr.Publish(snap)
	}
}

// GetSnapshot returns a copy of the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]pacer.Snapshot {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]pacer.Snapshot, len(mr.snaps))
	for k, v := range mr.snaps {
		out[k] = v
	}
	return out
}

// Updated returns when the registry last changed.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
