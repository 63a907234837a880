// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gldriver

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/glint/driver"
)

func init() {
	driver.Register(driver.NameOpenGL, func() driver.Driver { return &Driver{} })
}

// glContext is one glfw-window-backed OpenGL context.
type glContext struct {
	win     *glfw.Window
	w, h    int
	visible bool
}

// Window reports whether the context presents to a visible window.
func (c *glContext) Window() bool { return c.visible }

// Size returns the current framebuffer size.
func (c *glContext) Size() (int, int) {
	if c.visible {
		return c.win.GetFramebufferSize()
	}
	return c.w, c.h
}

// ShouldClose reports whether the window close flag is set.
func (c *glContext) ShouldClose() bool {
	return c.win.ShouldClose()
}

// Driver is the OpenGL implementation of driver.Driver.
type Driver struct {
	mu       sync.Mutex
	inited   bool
	glLoaded bool
	// shareRoot is the first context created; later contexts share its
	// object namespace.
	shareRoot *glfw.Window
	contexts  map[*glfw.Window]*glContext
}

// Name returns "opengl".
func (d *Driver) Name() string { return driver.NameOpenGL }

// Init initializes glfw. Main thread only.
func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inited {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("gldriver: initializing glfw: %w", err)
	}
	d.contexts = make(map[*glfw.Window]*glContext)
	d.inited = true
	return nil
}

// Terminate destroys all contexts and shuts glfw down.
func (d *Driver) Terminate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inited {
		return
	}
	for win := range d.contexts {
		win.Destroy()
	}
	d.contexts = nil
	d.shareRoot = nil
	d.inited = false
	glfw.Terminate()
}

// CreateContext creates a glfw window (hidden unless opts.Visible) whose
// context shares objects with every other context of this driver. Main
// thread only.
func (d *Driver) CreateContext(opts driver.ContextOptions) (driver.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inited {
		return nil, driver.ErrNotInitialized
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if !opts.Visible {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	share := d.shareRoot
	if sc, ok := opts.Share.(*glContext); ok && sc != nil {
		share = sc.win
	}

	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	win, err := glfw.CreateWindow(w, h, opts.Title, nil, share)
	if err != nil {
		return nil, fmt.Errorf("gldriver: creating window: %w", err)
	}

	c := &glContext{win: win, w: w, h: h, visible: opts.Visible}
	d.contexts[win] = c
	if d.shareRoot == nil {
		d.shareRoot = win
	}

	// The GL function pointers load once, with some context current.
	if !d.glLoaded {
		prev := glfw.GetCurrentContext()
		win.MakeContextCurrent()
		if err := gl.Init(); err != nil {
			win.Destroy()
			delete(d.contexts, win)
			return nil, fmt.Errorf("gldriver: loading GL: %w", err)
		}
		d.glLoaded = true
		if prev != nil {
			prev.MakeContextCurrent()
		} else {
			glfw.DetachCurrentContext()
		}
	}
	return c, nil
}

// DestroyContext destroys a context's window.
func (d *Driver) DestroyContext(c driver.Context) {
	gc := c.(*glContext)
	d.mu.Lock()
	delete(d.contexts, gc.win)
	if d.shareRoot == gc.win {
		d.shareRoot = nil
		for win := range d.contexts {
			d.shareRoot = win
			break
		}
	}
	d.mu.Unlock()
	gc.win.Destroy()
}

// MakeCurrent binds a context to the calling OS thread; nil detaches.
func (d *Driver) MakeCurrent(c driver.Context) {
	if c == nil {
		glfw.DetachCurrentContext()
		return
	}
	c.(*glContext).win.MakeContextCurrent()
}

// CurrentContext returns the context current on the calling OS thread.
func (d *Driver) CurrentContext() driver.Context {
	win := glfw.GetCurrentContext()
	if win == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.contexts[win]
	if !ok {
		return nil
	}
	return c
}

// SwapBuffers presents a window's back buffer.
func (d *Driver) SwapBuffers(c driver.Context) {
	c.(*glContext).win.SwapBuffers()
}

// PollEvents pumps glfw events. Main thread only.
func (d *Driver) PollEvents() {
	glfw.PollEvents()
}

// Flush submits pending commands of the current context.
func (d *Driver) Flush() {
	gl.Flush()
}

var _ driver.Driver = (*Driver)(nil)
