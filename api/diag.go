// File: api/diag.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Diagnostic sink contract shared by pacers and workers.

package api

// DiagnosticSink receives informational, warning and error diagnostics.
// Pacers and workers report anomalies through a sink and keep running; no
// condition reported here aborts the process.
//
// Implementations are called from the pacing path and must not panic or
// block for long.
type DiagnosticSink interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
