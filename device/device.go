// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/petermattis/goid"

	"github.com/gogpu/glint/driver"
)

// Common device errors.
var (
	// ErrNoDriver is returned by Open when no driver is available.
	ErrNoDriver = errors.New("device: no driver available")

	// ErrClosed is returned when a device is used after Close.
	ErrClosed = errors.New("device: closed")
)

// Options configures Open.
type Options struct {
	// Driver selects a registered driver by name. Empty selects the
	// best available driver by priority.
	Driver string

	// BackgroundSize is the framebuffer size of the hidden background
	// context. Defaults to 1x1.
	BackgroundSize int
}

// WindowOptions configures CreateWindowTarget.
type WindowOptions struct {
	Title         string
	Width, Height int
}

// Device is the top-level graphics object: it owns the driver, the shared
// background context, the per-context state registry and the deferred
// deletion queues, and routes every draw and clear to the right context.
type Device struct {
	drv     driver.Driver
	mainGID int64

	mu       sync.Mutex
	contexts map[driver.Context]*Context

	background  *Context
	lastCurrent atomic.Pointer[Context]

	reg *metaRegistry

	// Globally shareable resource classes pending deletion. These are
	// flushed unconditionally every Tick.
	freeBuffers  deleteList[driver.Buffer]
	freeTextures deleteList[driver.Texture]
	freePrograms deleteList[driver.Program]

	closed atomic.Bool
}

// Open initializes a driver and creates the shared background context.
// It must be called on the main goroutine with the OS thread locked
// (runtime.LockOSThread), before any other device call.
func Open(opts Options) (*Device, error) {
	var drv driver.Driver
	if opts.Driver != "" {
		drv = driver.Get(opts.Driver)
	} else {
		drv = driver.Default()
	}
	if drv == nil {
		return nil, ErrNoDriver
	}
	if err := drv.Init(); err != nil {
		return nil, fmt.Errorf("device: initializing %s driver: %w", drv.Name(), err)
	}

	d := &Device{
		drv:      drv,
		mainGID:  goid.Get(),
		contexts: make(map[driver.Context]*Context),
		reg:      newMetaRegistry(),
	}

	size := opts.BackgroundSize
	if size <= 0 {
		size = 1
	}
	bg, err := drv.CreateContext(driver.ContextOptions{Width: size, Height: size})
	if err != nil {
		drv.Terminate()
		return nil, fmt.Errorf("device: creating background context: %w", err)
	}
	d.background = d.adoptContext(bg)
	logger().Info("device opened", "driver", drv.Name())
	return d, nil
}

// Driver returns the driver name the device was opened with.
func (d *Device) Driver() string { return d.drv.Name() }

// PollEvents pumps pending window events. Main goroutine only.
func (d *Device) PollEvents() { d.drv.PollEvents() }

// Background returns the shared background context used for offscreen
// work issued from non-main goroutines.
func (d *Device) Background() *Context { return d.background }

// Close terminates the driver and all contexts. Pending deletion queues
// are abandoned; the process is going away with the device.
func (d *Device) Close() {
	if !d.closed.CompareAndSwap(false, true) {
		return
	}
	d.drv.Terminate()
	logger().Info("device closed")
}

// adoptContext wraps a native context and registers it for lookup.
func (d *Device) adoptContext(nc driver.Context) *Context {
	c := &Context{dev: d, drv: nc}
	d.mu.Lock()
	d.contexts[nc] = c
	d.mu.Unlock()
	return c
}

// forgetContext removes a context from the lookup table.
func (d *Device) forgetContext(c *Context) {
	d.mu.Lock()
	delete(d.contexts, c.drv)
	d.mu.Unlock()
}

// currentContext resolves the context current on the calling OS thread,
// or nil.
func (d *Device) currentContext() *Context {
	nc := d.drv.CurrentContext()
	if nc == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contexts[nc]
}

// makeCurrent binds c on the calling thread and records ownership. The
// caller holds c.mu.
func (d *Device) makeCurrent(c *Context) {
	d.drv.MakeCurrent(c.drv)
	c.owner.Store(goid.Get())
	d.lastCurrent.Store(c)
}

// clearCurrent detaches whatever context the calling thread has bound.
func (d *Device) clearCurrent() {
	if cur := d.currentContext(); cur != nil {
		cur.owner.Store(0)
	}
	d.drv.MakeCurrent(nil)
}

// CreateWindowTarget creates a window and its dedicated context, makes the
// context current on the calling thread, and returns the window's surface
// target. Must be called on the main goroutine.
func (d *Device) CreateWindowTarget(opts WindowOptions) (*WindowTarget, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	nc, err := d.drv.CreateContext(driver.ContextOptions{
		Title:   opts.Title,
		Width:   opts.Width,
		Height:  opts.Height,
		Visible: true,
		Share:   d.background.drv,
	})
	if err != nil {
		return nil, fmt.Errorf("device: creating window context: %w", err)
	}
	c := d.adoptContext(nc)
	c.mu.Lock()
	d.makeCurrent(c)
	c.mu.Unlock()
	logger().Info("window target created", "title", opts.Title, "width", opts.Width, "height", opts.Height)
	return &WindowTarget{dev: d, ctx: c}, nil
}

// withBoundContext runs f with some context current on the calling thread.
// If one is already current it is used as-is. Otherwise the most recently
// used context (falling back to the background context) is borrowed under
// its lock, and the thread's binding is cleared again afterward.
//
// This is also the adaptation point for APIs that need a current context
// for shared-resource deletion: Tick flushes the global queues through
// here.
func (d *Device) withBoundContext(f func()) {
	if c := d.currentContext(); c != nil {
		c.mu.Lock()
		// The binding can move to another thread between the lookup and
		// the lock (a worker drawing to this context's window target);
		// only run on it if it is still ours.
		if d.currentContext() == c {
			defer c.mu.Unlock()
			f()
			return
		}
		c.mu.Unlock()
	}
	c := d.lastCurrent.Load()
	if c == nil || c.Disposed() || c.owner.Load() != 0 {
		c = d.background
	}
	c.mu.Lock()
	if c != d.background && (c.Disposed() || c.owner.Load() != 0) {
		// Claimed by another thread between the check and the lock.
		// The background context cannot be: every path that binds it
		// detaches it again before releasing its lock.
		c.mu.Unlock()
		c = d.background
		c.mu.Lock()
	}
	defer c.mu.Unlock()
	d.makeCurrent(c)
	f()
	d.drv.Flush()
	d.clearCurrent()
}

// CreateTexture creates a texture in the shared store. pix may be nil for
// an uninitialized texture, or tightly packed pixels matching format.
func (d *Device) CreateTexture(w, h int, format gputypes.TextureFormat, pix []byte) (*Texture, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	var (
		id  driver.Texture
		err error
	)
	d.withBoundContext(func() {
		id, err = d.drv.CreateTexture(w, h, format, pix)
	})
	if err != nil {
		return nil, fmt.Errorf("device: creating texture: %w", err)
	}
	return &Texture{dev: d, id: id, w: w, h: h, format: format}, nil
}

// CreateShader compiles and links a shader program in the shared store.
func (d *Device) CreateShader(vertex, fragment string) (*Shader, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	var (
		prog driver.Program
		err  error
	)
	d.withBoundContext(func() {
		prog, err = d.drv.CreateProgram(vertex, fragment)
	})
	if err != nil {
		return nil, fmt.Errorf("device: creating shader: %w", err)
	}
	return &Shader{dev: d, prog: prog}, nil
}

// CreateMesh creates an indexed mesh with the given vertex layout and
// initial data. vertices may be nil; indices may be nil.
func (d *Device) CreateMesh(format driver.VertexFormat, vertices []byte, indices []uint32) (*Mesh, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	if len(indices)%3 != 0 {
		return nil, errors.New("device: index count is not a multiple of three")
	}
	m := &Mesh{
		dev:          d,
		format:       format,
		vaos:         make(map[*Context]driver.VertexArray),
		elementCount: len(indices) / 3,
	}
	d.withBoundContext(func() {
		m.vbo = d.drv.CreateBuffer(driver.BufferVertex, vertices)
		m.ibo = d.drv.CreateBuffer(driver.BufferIndex, indexBytes(indices))
	})
	return m, nil
}

// CreateTarget creates an offscreen render target with fresh texture
// attachments. Per-context framebuffers are created lazily on first draw
// from each context.
func (d *Device) CreateTarget(w, h int, opts TargetOptions) (*TextureTarget, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	if opts.ColorCount < 1 {
		opts.ColorCount = 1
	}
	t := &TextureTarget{
		dev:  d,
		w:    w,
		h:    h,
		fbos: make(map[*Context]driver.Framebuffer),
	}
	for i := 0; i < opts.ColorCount; i++ {
		tex, err := d.CreateTexture(w, h, opts.Format, nil)
		if err != nil {
			t.Dispose()
			return nil, err
		}
		t.colors = append(t.colors, tex)
	}
	if opts.Depth {
		tex, err := d.CreateTexture(w, h, gputypes.TextureFormatDepth24PlusStencil8, nil)
		if err != nil {
			t.Dispose()
			return nil, err
		}
		t.depth = tex
	}
	return t, nil
}

// perform routes an operation to the context appropriate for target and
// the calling thread, holding that context's lock for the duration.
//
// Routing:
//   - window targets run on their fixed owning context
//   - non-main goroutines borrow the shared background context, flush, and
//     detach it again so it is not left dangling current on a worker
//   - the main goroutine uses whatever context it already has current;
//     having none is a programming error
func (d *Device) perform(target Target, op func(c *Context, m *contextMeta)) {
	switch t := target.(type) {
	case *WindowTarget:
		c := t.ctx
		c.mu.Lock()
		defer c.mu.Unlock()
		d.makeCurrent(c)
		op(c, d.reg.get(c))
	default:
		if goid.Get() != d.mainGID {
			c := d.background
			c.mu.Lock()
			defer c.mu.Unlock()
			d.makeCurrent(c)
			op(c, d.reg.get(c))
			d.drv.Flush()
			d.clearCurrent()
			return
		}
		c := d.currentContext()
		if c == nil {
			panic("device: drawing on the main thread with no context current")
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		op(c, d.reg.get(c))
	}
}

// ClearTarget clears the selected buffers of target.
//
// Clearing disables the scissor test and marks the context's scissor state
// dirty, so the next draw re-establishes scissor state even if its logical
// value is unchanged.
func (d *Device) ClearTarget(target Target, flags driver.ClearFlags, color driver.Color, depth float32, stencil int) {
	d.perform(target, func(c *Context, m *contextMeta) {
		if m.lastTarget != target {
			target.bind(c)
			m.lastTarget = target
		}
		d.drv.DisableScissor()
		m.forceScissor = true
		d.drv.Clear(flags, color, depth, stencil)
	})
}

// RenderToTarget draws one pass to target, applying only the state
// transitions the context actually needs.
//
// A pass without a shader or mesh, or with an unrecognized depth function
// or blend component, is a programming error and panics.
func (d *Device) RenderToTarget(target Target, pass Pass) {
	if pass.Shader == nil {
		panic("device: pass has no shader")
	}
	if pass.Mesh == nil {
		panic("device: pass has no mesh")
	}
	d.perform(target, func(c *Context, m *contextMeta) {
		d.applyPass(c, m, target, pass)
	})
}

// Tick runs one maintenance pass: flush the shared deletion queues, flush
// each context's scoped deletions where it is safe to do so, and sweep
// metadata of disposed contexts. Call once per frame or from a
// maintenance loop.
func (d *Device) Tick() {
	if d.closed.Load() {
		return
	}

	// Shared classes first. OpenGL wants some context current even for
	// shared deletions, so borrow one if the calling thread has none.
	if !d.freeBuffers.empty() || !d.freeTextures.empty() || !d.freePrograms.empty() {
		d.withBoundContext(func() {
			d.freeBuffers.flush(d.drv.DeleteBuffer)
			d.freeTextures.flush(d.drv.DeleteTexture)
			d.freePrograms.flush(d.drv.DeleteProgram)
		})
	}

	// Context-scoped classes. Snapshot the registry so no GPU call runs
	// under the registry lock.
	for _, e := range d.reg.snapshot() {
		c, m := e.ctx, e.meta
		if c.Disposed() {
			d.reg.remove(c)
			continue
		}
		if m.freeVertexArrays.empty() && m.freeFramebuffers.empty() {
			continue
		}
		d.flushContextScoped(c, m)
	}
}

// flushContextScoped releases a context's queued vertex arrays and
// framebuffers if that context is the one current on the calling thread,
// or is bound to no thread at all. A context bound elsewhere is left for a
// later tick rather than risk corrupting another thread's GPU state.
func (d *Device) flushContextScoped(c *Context, m *contextMeta) {
	c.mu.Lock()

	switch {
	case d.currentContext() == c:
		m.freeVertexArrays.flush(d.drv.DeleteVertexArray)
		m.freeFramebuffers.flush(d.drv.DeleteFramebuffer)
		c.mu.Unlock()
	case c.owner.Load() == 0:
		// Borrow the context briefly. The previous binding is restored
		// below, after c's lock is released, so two context locks are
		// never held together.
		prev := d.currentContext()
		d.makeCurrent(c)
		m.freeVertexArrays.flush(d.drv.DeleteVertexArray)
		m.freeFramebuffers.flush(d.drv.DeleteFramebuffer)
		d.drv.Flush()
		c.owner.Store(0)
		d.drv.MakeCurrent(nil)
		c.mu.Unlock()

		if prev != nil {
			prev.mu.Lock()
			// Re-bind only if no other thread claimed prev while it was
			// detached here; its owner field still records this
			// goroutine otherwise.
			if prev.owner.Load() == goid.Get() {
				d.makeCurrent(prev)
			}
			prev.mu.Unlock()
		}
	default:
		c.mu.Unlock()
		logger().Debug("deferring context-scoped deletions; context bound elsewhere")
	}
}
