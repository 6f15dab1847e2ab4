//go:build !linux

// File: worker/priority_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package worker

import "github.com/momentics/pacekit/api"

func setRealtimePriority(priority int) error {
	return api.ErrNotSupported
}
