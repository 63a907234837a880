// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"sync/atomic"

	"github.com/gogpu/glint/driver"
)

// Shader is a compiled and linked shader program. Programs live in the
// device-wide shared store; the same shader may be used from any context.
//
// Parameter values are not stored on the shader: each Pass carries its own
// uniform snapshot, which is re-sent on every draw.
type Shader struct {
	dev      *Device
	prog     driver.Program
	disposed atomic.Bool
}

// Handle returns the underlying driver handle.
func (s *Shader) Handle() driver.Program { return s.prog }

// Dispose enqueues the program for deferred deletion on the next Tick.
// Idempotent; safe from any goroutine.
func (s *Shader) Dispose() {
	if s.disposed.CompareAndSwap(false, true) {
		s.dev.freePrograms.push(s.prog)
	}
}
