// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"testing"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glint/driver"
)

func TestDeleteListFlushOrderAndClear(t *testing.T) {
	var l deleteList[int]
	l.push(1)
	l.push(2)
	l.push(3)

	var got []int
	l.flush(func(v int) { got = append(got, v) })
	want := []int{3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flush order = %v, want %v", got, want)
		}
	}
	if !l.empty() {
		t.Error("list not empty after flush")
	}
}

func TestGlobalResourcesReleasedOnNextTick(t *testing.T) {
	d, fake := newTestDevice(t)
	win, sh, mesh := newTestScene(t, d)
	_ = win

	tex, err := d.CreateTexture(16, 16, gputypes.TextureFormatRGBA8Unorm, make([]byte, 16*16*4))
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	texID := tex.Handle()
	progID := sh.Handle()

	// Dispose from a worker goroutine; finalizer-like call sites run
	// anywhere.
	done := make(chan struct{})
	go func() {
		defer close(done)
		tex.Dispose()
		sh.Dispose()
		mesh.Dispose()
	}()
	<-done

	if len(fake.DeletedTextures) != 0 {
		t.Fatal("texture released before Tick")
	}

	// The window context is current on this goroutine; shareable
	// resources are released regardless of which context that is.
	d.Tick()

	if len(fake.DeletedTextures) != 1 || fake.DeletedTextures[0] != texID {
		t.Errorf("DeletedTextures = %v, want [%d]", fake.DeletedTextures, texID)
	}
	if len(fake.DeletedPrograms) != 1 || fake.DeletedPrograms[0] != progID {
		t.Errorf("DeletedPrograms = %v, want [%d]", fake.DeletedPrograms, progID)
	}
	if len(fake.DeletedBuffers) != 2 {
		t.Errorf("DeletedBuffers = %v, want vbo and ibo", fake.DeletedBuffers)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	d, fake := newTestDevice(t)
	newTestScene(t, d)

	tex, err := d.CreateTexture(8, 8, gputypes.TextureFormatRGBA8Unorm, nil)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	tex.Dispose()
	tex.Dispose()
	d.Tick()
	d.Tick()
	if got := len(fake.DeletedTextures); got != 1 {
		t.Errorf("texture deleted %d times, want 1", got)
	}
}

func TestContextScopedDeletionWaitsForOwningContext(t *testing.T) {
	d, fake := newTestDevice(t)
	win, sh, mesh := newTestScene(t, d)
	_ = win

	target, err := d.CreateTarget(64, 64, DefaultTargetOptions())
	if err != nil {
		t.Fatalf("CreateTarget: %v", err)
	}

	// A worker draw creates the mesh's vertex array and the target's
	// framebuffer on the background context.
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.RenderToTarget(target, NewPass(sh, mesh))
	}()
	<-done

	mesh.Dispose()
	target.Dispose()

	// Simulate the background context being bound on some other thread:
	// its scoped resources must survive the tick.
	bg := d.Background()
	bg.owner.Store(12345)
	d.Tick()
	if len(fake.DeletedVertexArrays) != 0 || len(fake.DeletedFramebuffers) != 0 {
		t.Fatal("context-scoped resource released while its context was bound elsewhere")
	}

	// Once the context is unbound, the tick borrows it, releases, and
	// restores the previous binding.
	bg.owner.Store(0)
	cur := fake.CurrentContext()
	d.Tick()

	if len(fake.DeletedVertexArrays) != 1 {
		t.Fatalf("DeletedVertexArrays = %v, want one entry", fake.DeletedVertexArrays)
	}
	if fake.DeletedVertexArrays[0].Ctx != bg.drv {
		t.Error("vertex array released while a context other than its owner was current")
	}
	if len(fake.DeletedFramebuffers) != 1 {
		t.Fatalf("DeletedFramebuffers = %v, want one entry", fake.DeletedFramebuffers)
	}
	if fake.DeletedFramebuffers[0].Ctx != bg.drv {
		t.Error("framebuffer released while a context other than its owner was current")
	}
	if got := fake.CurrentContext(); got != cur {
		t.Errorf("tick did not restore the previous context: current = %v, want %v", got, cur)
	}
	// Shared buffers of the mesh went through the global queue.
	if len(fake.DeletedBuffers) != 2 {
		t.Errorf("DeletedBuffers = %v, want vbo and ibo", fake.DeletedBuffers)
	}
}

func TestContextScopedDeletionOnCurrentContext(t *testing.T) {
	d, fake := newTestDevice(t)
	win, sh, mesh := newTestScene(t, d)

	// Draw on the window context so the vertex array belongs to it.
	d.RenderToTarget(win, NewPass(sh, mesh))
	mesh.Dispose()

	// The window context is current on this goroutine: the tick deletes
	// in place, with no context switch.
	mark := fake.Mark()
	d.Tick()
	if len(fake.DeletedVertexArrays) != 1 {
		t.Fatalf("DeletedVertexArrays = %v, want one entry", fake.DeletedVertexArrays)
	}
	if fake.DeletedVertexArrays[0].Ctx != win.ctx.drv {
		t.Error("vertex array released under the wrong context")
	}
	if got := fake.Count(mark, "MakeCurrent"); got != 0 {
		t.Errorf("tick switched contexts %d times, want 0 (already current)", got)
	}
}

func TestAbandonedContextLeaksQuietly(t *testing.T) {
	d, fake := newTestDevice(t)
	win, sh, mesh := newTestScene(t, d)
	_ = win

	target, err := d.CreateTarget(32, 32, DefaultTargetOptions())
	if err != nil {
		t.Fatalf("CreateTarget: %v", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.RenderToTarget(target, NewPass(sh, mesh))
	}()
	<-done

	mesh.Dispose()
	d.Background().owner.Store(99) // never unbound again

	for i := 0; i < 5; i++ {
		d.Tick()
	}
	// Deletion never happens, and never errors: deferral is the one
	// intentional soft failure.
	if len(fake.DeletedVertexArrays) != 0 {
		t.Error("vertex array of an abandoned context was released")
	}
}

func TestTickWithNoCurrentContextBorrowsOne(t *testing.T) {
	d, fake := newTestDevice(t)

	tex, err := d.CreateTexture(4, 4, gputypes.TextureFormatRGBA8Unorm, nil)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	tex.Dispose()

	// Nothing is current on this goroutine; the flush must borrow a
	// context, delete, and detach again.
	if fake.CurrentContext() != nil {
		t.Fatal("unexpected current context")
	}
	d.Tick()
	if len(fake.DeletedTextures) != 1 {
		t.Errorf("DeletedTextures = %v, want one entry", fake.DeletedTextures)
	}
	if fake.CurrentContext() != nil {
		t.Error("tick left a borrowed context current")
	}
}

func TestGlobalFlushSerializesWithContextUse(t *testing.T) {
	d, fake := newTestDevice(t)
	win, _, _ := newTestScene(t, d)

	tex, err := d.CreateTexture(8, 8, gputypes.TextureFormatRGBA8Unorm, nil)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	tex.Dispose()

	// Stand in for a worker that is mid-draw on the window context: the
	// flush must not touch the context while its lock is held.
	win.ctx.mu.Lock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// This goroutine has the window context current, as the main
		// thread does between frames.
		d.drv.MakeCurrent(win.ctx.drv)
		d.Tick()
	}()

	time.Sleep(20 * time.Millisecond)
	if len(fake.DeletedTextures) != 0 {
		t.Error("global flush ran on a context whose lock was held")
	}

	win.ctx.mu.Unlock()
	<-done
	if len(fake.DeletedTextures) != 1 {
		t.Errorf("DeletedTextures = %v, want one entry after the lock was released", fake.DeletedTextures)
	}
}

func TestBorrowSkipsRestoreOfClaimedBinding(t *testing.T) {
	d, fake := newTestDevice(t)
	win, _, _ := newTestScene(t, d)

	bg := d.Background()
	d.reg.get(bg).freeVertexArrays.push(driver.VertexArray(7))

	// Another thread claims the window binding while the tick has it
	// detached; the tick must not re-bind it underneath that thread.
	win.ctx.owner.Store(4242)

	d.Tick()

	if len(fake.DeletedVertexArrays) != 1 || fake.DeletedVertexArrays[0].Ctx != bg.drv {
		t.Fatalf("DeletedVertexArrays = %v, want one entry on the background context", fake.DeletedVertexArrays)
	}
	if fake.CurrentContext() != nil {
		t.Error("tick re-bound a context claimed by another thread")
	}
}
