// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glint/driver"
)

// Target is a rendering destination: either the visible surface of a
// window (WindowTarget) or an offscreen set of texture attachments
// (TextureTarget). Binding is context-specific, so the interface is sealed;
// both implementations live in this package.
type Target interface {
	// Size returns the drawable size in pixels.
	Size() (w, h int)

	// bind makes the target the draw destination on c. The caller
	// guarantees c is current on the calling thread.
	bind(c *Context)
}

// WindowTarget is the visible surface of a window. It is tied 1:1 to the
// context created with it: drawing to a window target always runs on that
// context, regardless of the calling thread.
type WindowTarget struct {
	dev *Device
	ctx *Context
}

// Size returns the window's framebuffer size.
func (t *WindowTarget) Size() (int, int) {
	return t.ctx.drv.Size()
}

// bind restores the default framebuffer of the window's context.
func (t *WindowTarget) bind(c *Context) {
	t.dev.drv.BindFramebuffer(0)
}

// ShouldClose reports whether the user asked the window to close.
func (t *WindowTarget) ShouldClose() bool {
	return t.ctx.drv.ShouldClose()
}

// Present swaps the window's back buffer to the screen.
func (t *WindowTarget) Present() {
	t.ctx.mu.Lock()
	defer t.ctx.mu.Unlock()
	t.dev.drv.SwapBuffers(t.ctx.drv)
}

// Dispose tears down the window and its context. The context must not be
// current on another thread. Its cached metadata and any still-queued
// context-scoped deletions are swept on the next Tick.
func (t *WindowTarget) Dispose() {
	if !t.ctx.disposed.CompareAndSwap(false, true) {
		return
	}
	t.ctx.mu.Lock()
	defer t.ctx.mu.Unlock()
	if t.dev.currentContext() == t.ctx {
		t.dev.clearCurrent()
	}
	t.dev.forgetContext(t.ctx)
	t.dev.drv.DestroyContext(t.ctx.drv)
	logger().Debug("window target disposed")
}

var _ Target = (*WindowTarget)(nil)

// TargetOptions configures offscreen target creation.
type TargetOptions struct {
	// ColorCount is the number of color attachments. Minimum 1.
	ColorCount int

	// Format is the pixel format of the color attachments.
	Format gputypes.TextureFormat

	// Depth adds a depth/stencil attachment.
	Depth bool
}

// DefaultTargetOptions returns options for a single RGBA color attachment
// with no depth buffer.
func DefaultTargetOptions() TargetOptions {
	return TargetOptions{
		ColorCount: 1,
		Format:     gputypes.TextureFormatRGBA8Unorm,
	}
}

// TextureTarget is an offscreen render destination backed by texture
// attachments. The attachments are shareable and fixed at creation.
//
// Framebuffer objects are not shareable across contexts, so the target
// lazily creates one per context that draws to it; binding from a new
// context builds that context's framebuffer without disturbing draws bound
// on other contexts.
type TextureTarget struct {
	dev    *Device
	w, h   int
	colors []*Texture
	depth  *Texture

	mu       sync.Mutex
	fbos     map[*Context]driver.Framebuffer
	disposed atomic.Bool
}

// Size returns the attachment size.
func (t *TextureTarget) Size() (int, int) {
	return t.w, t.h
}

// Color returns the color attachment at index i.
func (t *TextureTarget) Color(i int) *Texture {
	return t.colors[i]
}

// bind resolves or creates this context's framebuffer and binds it.
func (t *TextureTarget) bind(c *Context) {
	t.mu.Lock()
	fbo, ok := t.fbos[c]
	if !ok {
		colors := make([]driver.Texture, len(t.colors))
		for i, tex := range t.colors {
			colors[i] = tex.id
		}
		var depth driver.Texture
		if t.depth != nil {
			depth = t.depth.id
		}
		var err error
		fbo, err = t.dev.drv.CreateFramebuffer(colors, depth)
		if err != nil {
			t.mu.Unlock()
			panic("device: creating framebuffer: " + err.Error())
		}
		t.fbos[c] = fbo
		logger().Debug("framebuffer created for context", "fbo", uint32(fbo))
	}
	t.mu.Unlock()
	t.dev.drv.BindFramebuffer(fbo)
}

// Dispose enqueues the target's per-context framebuffers onto their owning
// contexts' deletion lists and disposes the attachments. Idempotent; safe
// from any goroutine.
func (t *TextureTarget) Dispose() {
	if !t.disposed.CompareAndSwap(false, true) {
		return
	}
	t.mu.Lock()
	for c, fbo := range t.fbos {
		t.dev.reg.get(c).freeFramebuffers.push(fbo)
	}
	t.fbos = nil
	t.mu.Unlock()
	for _, tex := range t.colors {
		tex.Dispose()
	}
	if t.depth != nil {
		t.depth.Dispose()
	}
}

var _ Target = (*TextureTarget)(nil)
