// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package driver

import (
	"errors"
	"image"

	"github.com/gogpu/gputypes"
)

// Common driver errors.
var (
	// ErrNotAvailable is returned when a requested driver is not available.
	ErrNotAvailable = errors.New("driver: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("driver: not initialized")
)

// Context is one native GPU context: a thread-affine command and state
// stream. Context values are comparable and usable as map keys; each
// CreateContext call returns a distinct value.
//
// A context must be made current on an OS thread before any call that
// targets it. At most one thread may have a given context current at a
// time, and a thread has at most one current context.
type Context interface {
	// Window reports whether this context presents to a visible surface.
	Window() bool

	// Size returns the framebuffer size in pixels. Headless contexts
	// return the size they were created with.
	Size() (w, h int)

	// ShouldClose reports whether the user has requested the context's
	// window to close. Always false for headless contexts.
	ShouldClose() bool
}

// ContextOptions configures context creation.
type ContextOptions struct {
	// Title is the window title. Ignored for invisible contexts.
	Title string

	// Width and Height are the initial framebuffer dimensions.
	Width, Height int

	// Visible selects a window context; false creates a hidden context
	// usable for background work.
	Visible bool

	// Share is an existing context to share resources with. Drivers that
	// share all contexts implicitly may ignore this.
	Share Context
}

// Driver is the raw GPU API abstraction the device layer is built on.
//
// State-changing calls (Viewport, SetBlend, depth, cull, scissor, binds)
// affect the context current on the calling OS thread. The device layer is
// responsible for making the right context current and for eliding
// redundant calls; drivers apply every call they receive.
//
// Unrecognized enum values in state calls are programmer errors and panic.
type Driver interface {
	// Name returns the driver identifier (e.g. "opengl").
	Name() string

	// Init initializes the driver. Must be called on the main OS thread
	// before any other method.
	Init() error

	// Terminate releases the driver and all native contexts.
	Terminate()

	// CreateContext creates a new context. The first context created
	// becomes the share root for subsequent ones.
	CreateContext(opts ContextOptions) (Context, error)

	// DestroyContext destroys a context. The context must not be current
	// on any thread.
	DestroyContext(c Context)

	// MakeCurrent makes c current on the calling OS thread, replacing any
	// previously current context. A nil c detaches the thread's context.
	MakeCurrent(c Context)

	// CurrentContext returns the context current on the calling OS
	// thread, or nil.
	CurrentContext() Context

	// SwapBuffers presents a window context's back buffer.
	SwapBuffers(c Context)

	// PollEvents pumps pending window events (close requests, resizes).
	// Main thread only.
	PollEvents()

	// Flush submits all pending commands of the current context.
	Flush()

	// Viewport sets the viewport rectangle.
	Viewport(r image.Rectangle)

	// SetBlend configures blending.
	SetBlend(m BlendMode)

	// EnableDepthTest enables depth testing with the given comparison.
	// f must not be DepthNone.
	EnableDepthTest(f DepthFunc)

	// DisableDepthTest disables depth testing.
	DisableDepthTest()

	// SetCull configures face culling. CullNone disables culling.
	SetCull(m CullMode)

	// EnableScissor enables the scissor test with the given rectangle.
	EnableScissor(r image.Rectangle)

	// DisableScissor disables the scissor test.
	DisableScissor()

	// Clear clears the bound target's buffers selected by flags.
	Clear(flags ClearFlags, color Color, depth float32, stencil int)

	// CreateBuffer creates a buffer and uploads data (may be nil).
	CreateBuffer(kind BufferKind, data []byte) Buffer

	// UpdateBuffer replaces a buffer's contents.
	UpdateBuffer(kind BufferKind, b Buffer, data []byte)

	// DeleteBuffer deletes a buffer.
	DeleteBuffer(b Buffer)

	// CreateTexture creates a 2D texture. pix is tightly packed pixel
	// data matching format, or nil for an uninitialized texture.
	CreateTexture(w, h int, format gputypes.TextureFormat, pix []byte) (Texture, error)

	// DeleteTexture deletes a texture.
	DeleteTexture(t Texture)

	// CreateProgram compiles and links a shader program.
	CreateProgram(vertex, fragment string) (Program, error)

	// BindProgram makes a program active for subsequent draws.
	BindProgram(p Program)

	// SetUniforms uploads parameter values to the bound program.
	SetUniforms(p Program, uniforms []Uniform)

	// DeleteProgram deletes a program.
	DeleteProgram(p Program)

	// CreateVertexArray builds a vertex array binding the given buffers
	// with the given layout. The result is scoped to the current context.
	CreateVertexArray(vertices, indices Buffer, format VertexFormat) VertexArray

	// BindVertexArray binds a vertex array; zero unbinds.
	BindVertexArray(v VertexArray)

	// DeleteVertexArray deletes a vertex array owned by the current
	// context.
	DeleteVertexArray(v VertexArray)

	// CreateFramebuffer builds a framebuffer with the given color
	// attachments and optional depth attachment (zero for none). The
	// result is scoped to the current context.
	CreateFramebuffer(colors []Texture, depth Texture) (Framebuffer, error)

	// BindFramebuffer binds a framebuffer; zero binds the current
	// context's default framebuffer.
	BindFramebuffer(f Framebuffer)

	// DeleteFramebuffer deletes a framebuffer owned by the current
	// context.
	DeleteFramebuffer(f Framebuffer)

	// DrawIndexed draws count indices starting at the given index offset
	// from the bound vertex array.
	DrawIndexed(count, offset int)

	// DrawIndexedInstanced draws count indices at the given offset,
	// instances times.
	DrawIndexedInstanced(count, offset, instances int)
}
