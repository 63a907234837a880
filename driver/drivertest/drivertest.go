// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package drivertest provides a recording in-memory driver.Driver for
// testing the device layer without a GPU.
//
// Every call is appended to a log in the order received, so tests can
// assert exactly which state transitions a sequence of operations emitted.
// Context currency is tracked per goroutine (the test stand-in for per
// OS thread), which is faithful as long as tests lock goroutines to their
// role the way real callers lock OS threads.
package drivertest

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/petermattis/goid"

	"github.com/gogpu/glint/driver"
)

// Context is a fake driver context.
type Context struct {
	id      uint32
	w, h    int
	visible bool
}

// Window reports whether the context was created visible.
func (c *Context) Window() bool { return c.visible }

// Size returns the context's creation size.
func (c *Context) Size() (int, int) { return c.w, c.h }

// ShouldClose always reports false.
func (c *Context) ShouldClose() bool { return false }

// VertexArrayDelete records one vertex array deletion and the context that
// was current on the deleting goroutine at the time.
type VertexArrayDelete struct {
	ID  driver.VertexArray
	Ctx driver.Context
}

// FramebufferDelete records one framebuffer deletion and the context that
// was current on the deleting goroutine at the time.
type FramebufferDelete struct {
	ID  driver.Framebuffer
	Ctx driver.Context
}

// Driver is a recording fake. The zero value is not usable; use New.
type Driver struct {
	mu      sync.Mutex
	inited  bool
	nextID  uint32
	current map[int64]driver.Context

	// Calls is the ordered log of every driver call, formatted as
	// "Name arg arg". Guard access with the driver's helpers or take
	// a snapshot via Log.
	calls []string

	DeletedBuffers      []driver.Buffer
	DeletedTextures     []driver.Texture
	DeletedPrograms     []driver.Program
	DeletedVertexArrays []VertexArrayDelete
	DeletedFramebuffers []FramebufferDelete
}

// New creates a fake driver.
func New() *Driver {
	return &Driver{
		nextID:  1,
		current: make(map[int64]driver.Context),
	}
}

func (d *Driver) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *Driver) alloc() uint32 {
	id := d.nextID
	d.nextID++
	return id
}

// Name returns "fake".
func (d *Driver) Name() string { return "fake" }

// Init marks the driver initialized.
func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inited = true
	d.record("Init")
	return nil
}

// Terminate marks the driver terminated.
func (d *Driver) Terminate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inited = false
	d.record("Terminate")
}

// CreateContext creates a fake context.
func (d *Driver) CreateContext(opts driver.ContextOptions) (driver.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inited {
		return nil, driver.ErrNotInitialized
	}
	c := &Context{id: d.alloc(), w: opts.Width, h: opts.Height, visible: opts.Visible}
	d.record("CreateContext %d", c.id)
	return c, nil
}

// DestroyContext records the destruction.
func (d *Driver) DestroyContext(c driver.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("DestroyContext %d", c.(*Context).id)
}

// MakeCurrent binds c to the calling goroutine; nil detaches.
func (d *Driver) MakeCurrent(c driver.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	gid := goid.Get()
	if c == nil {
		delete(d.current, gid)
		d.record("MakeCurrent none")
		return
	}
	d.current[gid] = c
	d.record("MakeCurrent %d", c.(*Context).id)
}

// CurrentContext returns the context bound to the calling goroutine.
func (d *Driver) CurrentContext() driver.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current[goid.Get()]
}

// SwapBuffers records the swap.
func (d *Driver) SwapBuffers(c driver.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SwapBuffers %d", c.(*Context).id)
}

// PollEvents records the poll.
func (d *Driver) PollEvents() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("PollEvents")
}

// Flush records the flush.
func (d *Driver) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Flush")
}

// Viewport records the viewport rectangle.
func (d *Driver) Viewport(r image.Rectangle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Viewport %v", r)
}

// SetBlend records the blend mode.
func (d *Driver) SetBlend(m driver.BlendMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SetBlend %d %d %d", m.Op, m.Src, m.Dst)
}

// EnableDepthTest records the depth comparison.
func (d *Driver) EnableDepthTest(f driver.DepthFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("EnableDepthTest %s", f)
}

// DisableDepthTest records the disable.
func (d *Driver) DisableDepthTest() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("DisableDepthTest")
}

// SetCull records the cull mode.
func (d *Driver) SetCull(m driver.CullMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SetCull %d", m)
}

// EnableScissor records the scissor rectangle.
func (d *Driver) EnableScissor(r image.Rectangle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("EnableScissor %v", r)
}

// DisableScissor records the disable.
func (d *Driver) DisableScissor() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("DisableScissor")
}

// Clear records the clear.
func (d *Driver) Clear(flags driver.ClearFlags, color driver.Color, depth float32, stencil int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Clear %d", flags)
}

// CreateBuffer allocates a fake buffer id.
func (d *Driver) CreateBuffer(kind driver.BufferKind, data []byte) driver.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := driver.Buffer(d.alloc())
	d.record("CreateBuffer %d", b)
	return b
}

// UpdateBuffer records the update.
func (d *Driver) UpdateBuffer(kind driver.BufferKind, b driver.Buffer, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("UpdateBuffer %d %d", b, len(data))
}

// DeleteBuffer records the deletion.
func (d *Driver) DeleteBuffer(b driver.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.DeletedBuffers = append(d.DeletedBuffers, b)
	d.record("DeleteBuffer %d", b)
}

// CreateTexture allocates a fake texture id.
func (d *Driver) CreateTexture(w, h int, format gputypes.TextureFormat, pix []byte) (driver.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w <= 0 || h <= 0 {
		return 0, errors.New("drivertest: invalid texture size")
	}
	t := driver.Texture(d.alloc())
	d.record("CreateTexture %d %dx%d", t, w, h)
	return t, nil
}

// DeleteTexture records the deletion.
func (d *Driver) DeleteTexture(t driver.Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.DeletedTextures = append(d.DeletedTextures, t)
	d.record("DeleteTexture %d", t)
}

// CreateProgram allocates a fake program id. An empty vertex source is
// treated as a compile failure so tests can exercise error paths.
func (d *Driver) CreateProgram(vertex, fragment string) (driver.Program, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if vertex == "" {
		return 0, errors.New("drivertest: empty vertex shader")
	}
	p := driver.Program(d.alloc())
	d.record("CreateProgram %d", p)
	return p, nil
}

// BindProgram records the bind.
func (d *Driver) BindProgram(p driver.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BindProgram %d", p)
}

// SetUniforms records the upload.
func (d *Driver) SetUniforms(p driver.Program, uniforms []driver.Uniform) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SetUniforms %d %d", p, len(uniforms))
}

// DeleteProgram records the deletion.
func (d *Driver) DeleteProgram(p driver.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.DeletedPrograms = append(d.DeletedPrograms, p)
	d.record("DeleteProgram %d", p)
}

// CreateVertexArray allocates a fake vertex array id.
func (d *Driver) CreateVertexArray(vertices, indices driver.Buffer, format driver.VertexFormat) driver.VertexArray {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := driver.VertexArray(d.alloc())
	d.record("CreateVertexArray %d", v)
	return v
}

// BindVertexArray records the bind.
func (d *Driver) BindVertexArray(v driver.VertexArray) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BindVertexArray %d", v)
}

// DeleteVertexArray records the deletion together with the context current
// on the calling goroutine.
func (d *Driver) DeleteVertexArray(v driver.VertexArray) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.DeletedVertexArrays = append(d.DeletedVertexArrays, VertexArrayDelete{ID: v, Ctx: d.current[goid.Get()]})
	d.record("DeleteVertexArray %d", v)
}

// CreateFramebuffer allocates a fake framebuffer id.
func (d *Driver) CreateFramebuffer(colors []driver.Texture, depth driver.Texture) (driver.Framebuffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(colors) == 0 {
		return 0, errors.New("drivertest: framebuffer needs a color attachment")
	}
	f := driver.Framebuffer(d.alloc())
	d.record("CreateFramebuffer %d", f)
	return f, nil
}

// BindFramebuffer records the bind.
func (d *Driver) BindFramebuffer(f driver.Framebuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BindFramebuffer %d", f)
}

// DeleteFramebuffer records the deletion together with the context current
// on the calling goroutine.
func (d *Driver) DeleteFramebuffer(f driver.Framebuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.DeletedFramebuffers = append(d.DeletedFramebuffers, FramebufferDelete{ID: f, Ctx: d.current[goid.Get()]})
	d.record("DeleteFramebuffer %d", f)
}

// DrawIndexed records the draw.
func (d *Driver) DrawIndexed(count, offset int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("DrawIndexed %d %d", count, offset)
}

// DrawIndexedInstanced records the draw.
func (d *Driver) DrawIndexedInstanced(count, offset, instances int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("DrawIndexedInstanced %d %d %d", count, offset, instances)
}

// Mark returns the current length of the call log, for use with Since.
func (d *Driver) Mark() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// Since returns a copy of the calls recorded after the given mark.
func (d *Driver) Since(mark int) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls)-mark)
	copy(out, d.calls[mark:])
	return out
}

// Log returns a copy of the full call log.
func (d *Driver) Log() []string {
	return d.Since(0)
}

// Count returns how many calls after mark start with the given prefix.
func (d *Driver) Count(mark int, prefix string) int {
	n := 0
	for _, c := range d.Since(mark) {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// StateChanges returns how many blend, depth, cull or scissor transitions
// were recorded after mark. This is the metric the diff engine is expected
// to drive to zero for repeated identical passes.
func (d *Driver) StateChanges(mark int) int {
	n := 0
	for _, c := range d.Since(mark) {
		switch {
		case strings.HasPrefix(c, "SetBlend"),
			strings.HasPrefix(c, "EnableDepthTest"),
			strings.HasPrefix(c, "DisableDepthTest"),
			strings.HasPrefix(c, "SetCull"),
			strings.HasPrefix(c, "EnableScissor"),
			strings.HasPrefix(c, "DisableScissor"):
			n++
		}
	}
	return n
}

var _ driver.Driver = (*Driver)(nil)
