// File: worker/manager.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package worker

import (
	"sync"

	"github.com/momentics/pacekit/api"
	"github.com/momentics/pacekit/pacer"
)

// Manager owns a named set of workers and operates on them individually
// or as a group. All methods are safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	workers map[string]*Worker
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{workers: make(map[string]*Worker)}
}

// Add constructs a worker from opts and registers it under its name.
func (m *Manager) Add(opts Options) error {
	return m.AddWorker(FromOptions(opts))
}

// AddWorker registers an existing worker. Names must be unique.
func (m *Manager) AddWorker(w *Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workers[w.Name()]; ok {
		return api.NewError(api.ErrCodeAlreadyExists, "worker already registered").
			WithContext("worker", w.Name())
	}
	m.workers[w.Name()] = w
	return nil
}

// Get returns the named worker.
func (m *Manager) Get(name string) (*Worker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workers[name]
	return w, ok
}

// Has reports whether a worker is registered under name.
func (m *Manager) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Names returns the registered worker names.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.workers))
	for name := range m.workers {
		names = append(names, name)
	}
	return names
}

// Start launches the named worker with the given priority.
func (m *Manager) Start(name string, priority int) error {
	w, ok := m.Get(name)
	if !ok {
		return notFound(name)
	}
	return w.Start(priority)
}

// StartAll launches every registered worker with its configured priority.
// The first start failure is returned; remaining workers still start.
func (m *Manager) StartAll() error {
	var first error
	for _, w := range m.snapshot() {
		if err := w.Start(0); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stop stops the named worker, optionally waiting for it to finish.
func (m *Manager) Stop(name string, wait bool) error {
	w, ok := m.Get(name)
	if !ok {
		return notFound(name)
	}
	w.Stop(wait)
	return nil
}

// StopAll stops every worker. With wait set, workers are first signalled
// and then joined, so they wind down in parallel.
func (m *Manager) StopAll(wait bool) {
	workers := m.snapshot()
	for _, w := range workers {
		w.Stop(false)
	}
	if wait {
		for _, w := range workers {
			w.Stop(true)
		}
	}
}

// Cancel stops the named worker and removes it from the registry.
func (m *Manager) Cancel(name string, wait bool) error {
	m.mu.Lock()
	w, ok := m.workers[name]
	if ok {
		delete(m.workers, name)
	}
	m.mu.Unlock()
	if !ok {
		return notFound(name)
	}
	w.Stop(wait)
	return nil
}

// CancelAll stops and removes every worker.
func (m *Manager) CancelAll(wait bool) {
	m.mu.Lock()
	workers := make([]*Worker, 0, len(m.workers))
	for name, w := range m.workers {
		workers = append(workers, w)
		delete(m.workers, name)
	}
	m.mu.Unlock()

	for _, w := range workers {
		w.Stop(false)
	}
	if wait {
		for _, w := range workers {
			w.Stop(true)
		}
	}
}

// SetTimeStep changes the period of the named worker.
func (m *Manager) SetTimeStep(name string, timeStep float64) error {
	w, ok := m.Get(name)
	if !ok {
		return notFound(name)
	}
	w.SetTimeStep(timeStep)
	return nil
}

// CleanDestructible removes workers that have finished and were marked
// DestructWhenDone.
func (m *Manager) CleanDestructible() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, w := range m.workers {
		if w.IsDestructible() {
			delete(m.workers, name)
		}
	}
}

// Snapshots collects the pacing statistics of every registered worker.
func (m *Manager) Snapshots() []pacer.Snapshot {
	workers := m.snapshot()
	snaps := make([]pacer.Snapshot, 0, len(workers))
	for _, w := range workers {
		snaps = append(snaps, w.Pacer().Snapshot())
	}
	return snaps
}

func (m *Manager) snapshot() []*Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	workers := make([]*Worker, 0, len(m.workers))
	for _, w := range m.workers {
		workers = append(workers, w)
	}
	return workers
}

func notFound(name string) error {
	return api.NewError(api.ErrCodeNotFound, "worker not found").
		WithContext("worker", name)
}
