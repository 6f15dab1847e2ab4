// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"fmt"
	"sync"
)

// Sink is a capturing api.DiagnosticSink for assertions in tests.
type Sink struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
}

// NewSink returns an empty capturing sink.
func NewSink() *Sink { return &Sink{} }

func (s *Sink) Infof(format string, args ...any) {
	s.mu.Lock()
	s.infos = append(s.infos, fmt.Sprintf(format, args...))
	s.mu.Unlock()
}

func (s *Sink) Warnf(format string, args ...any) {
	s.mu.Lock()
	s.warns = append(s.warns, fmt.Sprintf(format, args...))
	s.mu.Unlock()
}

func (s *Sink) Errorf(format string, args ...any) {
	s.mu.Lock()
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
	s.mu.Unlock()
}

// Infos returns the captured informational messages.
func (s *Sink) Infos() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.infos...)
}

// Warnings returns the captured warning messages.
func (s *Sink) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warns...)
}

// Errors returns the captured error messages.
func (s *Sink) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errors...)
}
