// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glint/driver"
)

// Context is one execution context: a thread-affine GPU command stream.
// Contexts are created by the Device (the shared background context at Open,
// one per window target) and are not constructed directly.
//
// At most one OS thread has a context current at a time. The device makes
// contexts current as part of request routing; callers never bind contexts
// themselves.
type Context struct {
	dev *Device
	drv driver.Context

	// mu serializes all GPU work targeting this context: draws, clears,
	// and deletion-queue flushes that briefly borrow it.
	mu sync.Mutex

	// owner is the goroutine id that currently has this context bound,
	// or 0 when unbound.
	owner atomic.Int64

	disposed atomic.Bool
}

// Disposed reports whether the context has been torn down. Metadata for
// disposed contexts is swept on the next maintenance tick.
func (c *Context) Disposed() bool {
	return c.disposed.Load()
}

// contextMeta is the per-context cached render state, created lazily on
// first use and owned by the metadata registry.
//
// The diffing fields (lastTarget, lastPass, viewport, forceScissor) are
// only touched while the context's own lock is held. The context-scoped
// deletion lists carry their own locks because Dispose runs on arbitrary
// goroutines.
type contextMeta struct {
	// lastTarget is the most recently bound render target, nil before
	// the first bind.
	lastTarget Target

	// lastPass is the most recently applied pass state. nil means no
	// pass has been applied yet and the next apply is a full update.
	lastPass *Pass

	// viewport is the last applied viewport rectangle. Valid only when
	// hasViewport is set; viewport is target-derived, so it is diffed
	// against this cache rather than against lastPass.
	viewport    image.Rectangle
	hasViewport bool

	// forceScissor forces the next draw to re-apply scissor state even
	// on an exact match. Set by clears, which perturb driver scissor
	// state as a side effect.
	forceScissor bool

	// Context-scoped resources awaiting deletion. These classes are not
	// shareable, so they can only be released while this exact context
	// is current.
	freeVertexArrays deleteList[driver.VertexArray]
	freeFramebuffers deleteList[driver.Framebuffer]
}

// metaRegistry maps each live context to its cached state. The map lock is
// held only for lookup, insert and sweep; mutation of a specific entry's
// diffing fields requires the context's own lock instead.
type metaRegistry struct {
	mu      sync.Mutex
	entries map[*Context]*contextMeta
}

func newMetaRegistry() *metaRegistry {
	return &metaRegistry{entries: make(map[*Context]*contextMeta)}
}

// get returns the metadata for c, creating a zero-valued entry on first
// use. It never fails.
func (r *metaRegistry) get(c *Context) *contextMeta {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.entries[c]
	if !ok {
		m = &contextMeta{}
		r.entries[c] = m
	}
	return m
}

// snapshot returns the current entries without holding the map lock beyond
// the copy, so the maintenance tick never makes GPU calls under it.
func (r *metaRegistry) snapshot() []metaEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]metaEntry, 0, len(r.entries))
	for c, m := range r.entries {
		out = append(out, metaEntry{ctx: c, meta: m})
	}
	return out
}

// remove prunes the entry for a disposed context.
func (r *metaRegistry) remove(c *Context) {
	r.mu.Lock()
	delete(r.entries, c)
	r.mu.Unlock()
}

type metaEntry struct {
	ctx  *Context
	meta *contextMeta
}
