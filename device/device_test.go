// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glint/driver"
	"github.com/gogpu/glint/driver/drivertest"
)

// newTestDevice opens a device over a recording fake driver. The test
// goroutine plays the role of the main thread.
func newTestDevice(t *testing.T) (*Device, *drivertest.Driver) {
	t.Helper()
	fake := drivertest.New()
	name := "fake-" + t.Name()
	driver.Register(name, func() driver.Driver { return fake })
	t.Cleanup(func() { driver.Unregister(name) })

	d, err := Open(Options{Driver: name})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(d.Close)
	return d, fake
}

// newTestScene builds a window target, shader and quad mesh.
func newTestScene(t *testing.T, d *Device) (*WindowTarget, *Shader, *Mesh) {
	t.Helper()
	win, err := d.CreateWindowTarget(WindowOptions{Title: "test", Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("CreateWindowTarget: %v", err)
	}
	sh, err := d.CreateShader("void main() {}", "void main() {}")
	if err != nil {
		t.Fatalf("CreateShader: %v", err)
	}
	format := driver.NewVertexFormat(
		driver.VertexAttribute{Location: 0, Kind: driver.AttrFloat2},
		driver.VertexAttribute{Location: 1, Kind: driver.AttrByte4, Normalized: true},
	)
	mesh, err := d.CreateMesh(format, make([]byte, 4*format.Stride), []uint32{0, 1, 2, 2, 3, 0})
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	return win, sh, mesh
}

func TestOpenNoDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "no-such-driver"}); err != ErrNoDriver {
		t.Errorf("Open with unknown driver: err = %v, want ErrNoDriver", err)
	}
}

func TestOpenCreatesBackgroundContext(t *testing.T) {
	d, fake := newTestDevice(t)
	if d.Background() == nil {
		t.Fatal("Background() = nil")
	}
	if got := fake.Count(0, "CreateContext"); got != 1 {
		t.Errorf("CreateContext calls = %d, want 1", got)
	}
}

func TestMetadataGetOrCreate(t *testing.T) {
	d, _ := newTestDevice(t)
	c := d.Background()

	m1 := d.reg.get(c)
	if m1 == nil {
		t.Fatal("get returned nil metadata")
	}
	if m1.lastPass != nil || m1.hasViewport || m1.forceScissor {
		t.Error("fresh metadata is not zero-valued")
	}
	if m2 := d.reg.get(c); m2 != m1 {
		t.Error("get created a second metadata for the same context")
	}
}

func TestDispatchWindowTargetUsesOwningContext(t *testing.T) {
	d, fake := newTestDevice(t)
	win, sh, mesh := newTestScene(t, d)

	// Issue the draw from a worker goroutine: the window target must
	// still run on its own fixed context, not the background context.
	mark := fake.Mark()
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.RenderToTarget(win, NewPass(sh, mesh))
	}()
	<-done

	// The background path would flush and detach; the window path does
	// neither, it just binds the window's own context and draws.
	if got := fake.Count(mark, "Flush"); got != 0 {
		t.Errorf("window draw flushed %d times, want 0 (background path taken?)", got)
	}
	if got := fake.Count(mark, "DrawIndexed"); got != 1 {
		t.Errorf("draw calls = %d, want 1", got)
	}
	if !hasPrefixedCall(fake.Since(mark), "MakeCurrent") {
		t.Error("window draw did not bind the window context")
	}
}

func hasPrefixedCall(calls []string, prefix string) bool {
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func TestDispatchWorkerUsesBackgroundAndDetaches(t *testing.T) {
	d, fake := newTestDevice(t)
	_, sh, mesh := newTestScene(t, d)

	target, err := d.CreateTarget(64, 64, DefaultTargetOptions())
	if err != nil {
		t.Fatalf("CreateTarget: %v", err)
	}

	mark := fake.Mark()
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.RenderToTarget(target, NewPass(sh, mesh))
		if cur := fake.CurrentContext(); cur != nil {
			t.Errorf("background context left current on worker goroutine: %v", cur)
		}
	}()
	<-done

	if got := fake.Count(mark, "Flush"); got == 0 {
		t.Error("worker path did not flush the background context")
	}
	if d.Background().owner.Load() != 0 {
		t.Error("background context still marked owned after worker draw")
	}
}

func TestDispatchMainNoCurrentContextPanics(t *testing.T) {
	d, _ := newTestDevice(t)
	sh, err := d.CreateShader("void main() {}", "void main() {}")
	if err != nil {
		t.Fatalf("CreateShader: %v", err)
	}
	mesh, err := d.CreateMesh(driver.VertexFormat{}, nil, nil)
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	target, err := d.CreateTarget(32, 32, DefaultTargetOptions())
	if err != nil {
		t.Fatalf("CreateTarget: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("offscreen draw on main goroutine with no current context did not panic")
		}
	}()
	d.RenderToTarget(target, NewPass(sh, mesh))
}

func TestConcurrentIndependentContexts(t *testing.T) {
	d, fake := newTestDevice(t)

	winA, err := d.CreateWindowTarget(WindowOptions{Title: "a", Width: 64, Height: 64})
	if err != nil {
		t.Fatalf("CreateWindowTarget: %v", err)
	}
	winB, err := d.CreateWindowTarget(WindowOptions{Title: "b", Width: 64, Height: 64})
	if err != nil {
		t.Fatalf("CreateWindowTarget: %v", err)
	}
	sh, err := d.CreateShader("void main() {}", "void main() {}")
	if err != nil {
		t.Fatalf("CreateShader: %v", err)
	}
	mesh, err := d.CreateMesh(driver.VertexFormat{}, nil, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}

	const draws = 20
	pass := NewPass(sh, mesh)
	pass.Depth = driver.DepthLess
	pass.Cull = driver.CullBack

	mark := fake.Mark()
	var wg sync.WaitGroup
	for _, win := range []*WindowTarget{winA, winB} {
		wg.Add(1)
		go func(w *WindowTarget) {
			defer wg.Done()
			for i := 0; i < draws; i++ {
				d.RenderToTarget(w, pass)
			}
		}(win)
	}
	wg.Wait()

	// Each context pays the full first-use application once; every
	// later identical pass must be a complete cache hit, regardless of
	// how the two goroutines interleaved. Cross-contamination of the
	// caches would show up as extra transitions.
	perContext := fake.StateChanges(mark) / 2
	if first := stateChangesInFirstApply(); perContext != first {
		t.Errorf("state changes per context = %d, want %d (first apply only)", perContext, first)
	}
	if got := fake.Count(mark, "DrawIndexed"); got != 2*draws {
		t.Errorf("draw calls = %d, want %d", got, 2*draws)
	}
}

// stateChangesInFirstApply is the number of blend/depth/cull/scissor
// transitions a full (first-use) application emits: one per field.
func stateChangesInFirstApply() int { return 4 }

func TestCreateTargetAttachments(t *testing.T) {
	d, fake := newTestDevice(t)

	opts := TargetOptions{ColorCount: 2, Format: gputypes.TextureFormatRGBA8Unorm, Depth: true}
	target, err := d.CreateTarget(128, 64, opts)
	if err != nil {
		t.Fatalf("CreateTarget: %v", err)
	}
	if w, h := target.Size(); w != 128 || h != 64 {
		t.Errorf("Size() = %dx%d, want 128x64", w, h)
	}
	if got := fake.Count(0, "CreateTexture"); got != 3 {
		t.Errorf("CreateTexture calls = %d, want 3 (2 color + 1 depth)", got)
	}
	// Framebuffers are lazy: none until a context draws to the target.
	if got := fake.Count(0, "CreateFramebuffer"); got != 0 {
		t.Errorf("CreateFramebuffer calls before first draw = %d, want 0", got)
	}
}

func TestOffscreenTargetPerContextFramebuffers(t *testing.T) {
	d, fake := newTestDevice(t)
	win, sh, mesh := newTestScene(t, d)
	_ = win

	target, err := d.CreateTarget(64, 64, DefaultTargetOptions())
	if err != nil {
		t.Fatalf("CreateTarget: %v", err)
	}

	// Main goroutine draw: framebuffer for the window context.
	d.RenderToTarget(target, NewPass(sh, mesh))
	// Worker draw: a second framebuffer for the background context.
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.RenderToTarget(target, NewPass(sh, mesh))
	}()
	<-done

	if got := fake.Count(0, "CreateFramebuffer"); got != 2 {
		t.Errorf("CreateFramebuffer calls = %d, want 2 (one per context)", got)
	}

	// Drawing again from the main context must reuse its framebuffer.
	d.RenderToTarget(target, NewPass(sh, mesh))
	if got := fake.Count(0, "CreateFramebuffer"); got != 2 {
		t.Errorf("CreateFramebuffer calls after reuse = %d, want 2", got)
	}
}

func TestWindowDisposeSweepsMetadata(t *testing.T) {
	d, _ := newTestDevice(t)
	win, sh, mesh := newTestScene(t, d)

	d.RenderToTarget(win, NewPass(sh, mesh))
	if len(d.reg.snapshot()) != 1 {
		t.Fatalf("metadata entries = %d, want 1", len(d.reg.snapshot()))
	}

	win.Dispose()
	if !win.ctx.Disposed() {
		t.Fatal("context not marked disposed")
	}
	d.Tick()
	if got := len(d.reg.snapshot()); got != 0 {
		t.Errorf("metadata entries after sweep = %d, want 0", got)
	}
}

func TestMeshValidation(t *testing.T) {
	d, _ := newTestDevice(t)

	if _, err := d.CreateMesh(driver.VertexFormat{}, nil, []uint32{0, 1}); err == nil {
		t.Error("CreateMesh accepted an index count that is not a multiple of three")
	}

	mesh, err := d.CreateMesh(driver.VertexFormat{}, nil, []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	if got := mesh.ElementCount(); got != 2 {
		t.Errorf("ElementCount = %d, want 2", got)
	}
	mesh.SetIndices([]uint32{0, 1, 2})
	if got := mesh.ElementCount(); got != 1 {
		t.Errorf("ElementCount after SetIndices = %d, want 1", got)
	}
}
