// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glint/driver"
)

// Texture is a GPU texture resource. Textures live in the device-wide
// shared store and may be sampled from any context.
type Texture struct {
	dev      *Device
	id       driver.Texture
	w, h     int
	format   gputypes.TextureFormat
	disposed atomic.Bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.w }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.h }

// Format returns the texture pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Handle returns the underlying driver handle, for use in uniforms.
func (t *Texture) Handle() driver.Texture { return t.id }

// Dispose enqueues the texture for deferred deletion. Textures are
// globally shareable, so the identifier is released on the next Tick no
// matter which context is current then. Idempotent; safe from any
// goroutine.
func (t *Texture) Dispose() {
	if t.disposed.CompareAndSwap(false, true) {
		t.dev.freeTextures.push(t.id)
	}
}
