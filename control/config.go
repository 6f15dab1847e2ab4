// control/config.go
// Author: momentics <momentics@gmail.com>
//
// YAML worker-set configuration with validation, plus a store with
// hot-reload propagation into a running worker.Manager.

package control

import (
	"fmt"
	"math"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/momentics/pacekit/worker"
)

// WorkerConfig describes one periodic worker. Exactly one of TimeStep or
// RateHz must be set for a periodic worker; RunOnce workers need neither.
type WorkerConfig struct {
	Name           string  `yaml:"name"`
	TimeStep       float64 `yaml:"time_step"`
	RateHz         float64 `yaml:"rate_hz"`
	WarnThreshold  float64 `yaml:"warn_threshold"`
	ErrorThreshold float64 `yaml:"error_threshold"`
	RelaxRate      bool    `yaml:"relax_rate"`
	Priority       int     `yaml:"priority"`
	RunOnce        bool    `yaml:"run_once"`
}

// Step resolves the configured period in seconds.
func (wc WorkerConfig) Step() float64 {
	if wc.RunOnce {
		return math.Inf(1)
	}
	if wc.RateHz > 0 {
		return 1 / wc.RateHz
	}
	return wc.TimeStep
}

// Options maps the config entry onto worker.Options. The callback is
// supplied by the caller; configuration only carries the timing policy.
func (wc WorkerConfig) Options(cb worker.Callback) worker.Options {
	return worker.Options{
		Name:           wc.Name,
		TimeStep:       wc.Step(),
		Callback:       cb,
		WarnThreshold:  wc.WarnThreshold,
		ErrorThreshold: wc.ErrorThreshold,
		RelaxRate:      wc.RelaxRate,
		Priority:       wc.Priority,
	}
}

// Config is the YAML-loadable description of a worker set.
type Config struct {
	Workers []WorkerConfig `yaml:"workers"`
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks names, rates and thresholds.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Workers))
	for i, wc := range c.Workers {
		if wc.Name == "" {
			return fmt.Errorf("worker %d: name is required", i)
		}
		if seen[wc.Name] {
			return fmt.Errorf("worker %q: duplicate name", wc.Name)
		}
		seen[wc.Name] = true

		if wc.TimeStep != 0 && wc.RateHz != 0 {
			return fmt.Errorf("worker %q: time_step and rate_hz are mutually exclusive", wc.Name)
		}
		if wc.TimeStep < 0 || math.IsNaN(wc.TimeStep) || math.IsInf(wc.TimeStep, 0) {
			return fmt.Errorf("worker %q: invalid time_step %v", wc.Name, wc.TimeStep)
		}
		if wc.RateHz < 0 || math.IsNaN(wc.RateHz) || math.IsInf(wc.RateHz, 0) {
			return fmt.Errorf("worker %q: invalid rate_hz %v", wc.Name, wc.RateHz)
		}
		if wc.WarnThreshold < 0 || math.IsNaN(wc.WarnThreshold) {
			return fmt.Errorf("worker %q: invalid warn_threshold %v", wc.Name, wc.WarnThreshold)
		}
		if wc.ErrorThreshold < 0 || math.IsNaN(wc.ErrorThreshold) {
			return fmt.Errorf("worker %q: invalid error_threshold %v", wc.Name, wc.ErrorThreshold)
		}
		if wc.Priority < 0 || wc.Priority > 99 {
			return fmt.Errorf("worker %q: priority %d out of range 0..99", wc.Name, wc.Priority)
		}
	}
	return nil
}

// Store holds the current config and dispatches reload listeners when it
// is replaced.
type Store struct {
	mu        sync.RWMutex
	cfg       *Config
	listeners []func(*Config)
}

// NewStore initializes a store with an initial config.
func NewStore(cfg *Config) *Store {
	return &Store{cfg: cfg}
}

// Current returns the latest config.
func (s *Store) Current() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// OnReload registers a listener hook called on config replacement.
func (s *Store) OnReload(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Update validates and swaps the config, then dispatches listeners
// asynchronously.
func (s *Store) Update(cfg *Config) error {
	return s.update(cfg, false)
}

// UpdateSync is Update with synchronous listener dispatch, for
// deterministic test notification.
func (s *Store) UpdateSync(cfg *Config) error {
	return s.update(cfg, true)
}

func (s *Store) update(cfg *Config, synchronous bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	listeners := append(([]func(*Config))(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		if synchronous {
			fn(cfg)
		} else {
			go fn(cfg)
		}
	}
	return nil
}

// ApplyTimeSteps pushes the configured periods of known workers into a
// running manager. Workers named in the config but absent from the
// manager are ignored; run-once entries are skipped.
func (c *Config) ApplyTimeSteps(m *worker.Manager) {
	for _, wc := range c.Workers {
		if wc.RunOnce || !m.Has(wc.Name) {
			continue
		}
		if step := wc.Step(); step > 0 {
			_ = m.SetTimeStep(wc.Name, step)
		}
	}
}
