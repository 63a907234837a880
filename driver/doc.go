// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package driver defines the backend-agnostic GPU driver interface used by
// the glint device layer.
//
// A Driver exposes the raw operations of one graphics API family: context
// creation and binding, resource creation and deletion, render state changes,
// and draw submission. The device layer (package device) builds the
// context-aware resource lifecycle and state-diffing engine on top of this
// interface; drivers stay dumb and stateless beyond what the underlying API
// forces on them.
//
// Drivers register themselves via Register, typically from an init function,
// and are selected by name or by priority:
//
//	import _ "github.com/gogpu/glint/gldriver" // registers "opengl"
//
//	drv := driver.MustDefault()
//
// Handle types (Buffer, Texture, Program, VertexArray, Framebuffer) are
// opaque identifiers owned by the driver. They are plain integer types so
// they can be stored, compared, and queued for deferred deletion without
// keeping driver-side objects alive.
package driver
