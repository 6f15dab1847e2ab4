// control/history.go
// Author: momentics <momentics@gmail.com>
//
// Bounded FIFO of recent diagnostic records, for post-mortem inspection
// of overruns without keeping an unbounded log in memory.

package control

import (
	"fmt"
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/pacekit/api"
)

// Severity classifies a history record.
type Severity int8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Record is one captured diagnostic.
type Record struct {
	Severity Severity
	Message  string
	Wall     time.Time
}

// History keeps the most recent records in a bounded FIFO. Appending past
// capacity evicts the oldest record.
type History struct {
	mu       sync.Mutex
	q        *queue.Queue
	capacity int
}

// NewHistory creates a history bounded to capacity records.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 64
	}
	return &History{q: queue.New(), capacity: capacity}
}

// Append adds a record, evicting the oldest when full.
func (h *History) Append(r Record) {
	h.mu.Lock()
	if h.q.Length() >= h.capacity {
		h.q.Remove()
	}
	h.q.Add(r)
	h.mu.Unlock()
}

// Len returns the number of retained records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.q.Length()
}

// Records returns the retained records, oldest first.
func (h *History) Records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Record, 0, h.q.Length())
	for i := 0; i < h.q.Length(); i++ {
		out = append(out, h.q.Get(i).(Record))
	}
	return out
}

// recordingSink tees diagnostics into a History before forwarding them.
type recordingSink struct {
	hist *History
	next api.DiagnosticSink
}

// RecordingSink returns a sink that appends every diagnostic to hist and
// forwards it to next.
func RecordingSink(hist *History, next api.DiagnosticSink) api.DiagnosticSink {
	return &recordingSink{hist: hist, next: next}
}

func (r *recordingSink) Infof(format string, args ...any) {
	r.hist.Append(Record{Severity: SeverityInfo, Message: fmt.Sprintf(format, args...), Wall: time.Now()})
	r.next.Infof(format, args...)
}

func (r *recordingSink) Warnf(format string, args ...any) {
	r.hist.Append(Record{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Wall: time.Now()})
	r.next.Warnf(format, args...)
}

func (r *recordingSink) Errorf(format string, args ...any) {
	r.hist.Append(Record{Severity: SeverityError, Message: fmt.Sprintf(format, args...), Wall: time.Now()})
	r.next.Errorf(format, args...)
}
