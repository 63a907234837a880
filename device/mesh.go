// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glint/driver"
)

// Mesh is an indexed triangle mesh. The vertex and index buffers live in
// the shared store; the vertex array object tying them to a layout is
// context-scoped, so the mesh lazily builds one per context it is drawn
// from, the same way an offscreen target builds per-context framebuffers.
type Mesh struct {
	dev    *Device
	format driver.VertexFormat
	vbo    driver.Buffer
	ibo    driver.Buffer

	mu           sync.Mutex
	vaos         map[*Context]driver.VertexArray
	elementCount int

	disposed atomic.Bool
}

// ElementCount returns the number of triangles currently indexed.
func (m *Mesh) ElementCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elementCount
}

// Format returns the mesh's vertex layout descriptor.
func (m *Mesh) Format() driver.VertexFormat { return m.format }

// SetVertices replaces the vertex data. data must be a whole number of
// vertices under the mesh's format.
func (m *Mesh) SetVertices(data []byte) {
	if m.format.Stride > 0 && len(data)%m.format.Stride != 0 {
		panic("device: vertex data length is not a multiple of the vertex stride")
	}
	m.dev.withBoundContext(func() {
		m.dev.drv.UpdateBuffer(driver.BufferVertex, m.vbo, data)
	})
}

// SetIndices replaces the index data. The index count must be a multiple
// of three.
func (m *Mesh) SetIndices(indices []uint32) {
	if len(indices)%3 != 0 {
		panic("device: index count is not a multiple of three")
	}
	data := indexBytes(indices)
	m.dev.withBoundContext(func() {
		m.dev.drv.UpdateBuffer(driver.BufferIndex, m.ibo, data)
	})
	m.mu.Lock()
	m.elementCount = len(indices) / 3
	m.mu.Unlock()
}

// vao resolves or creates this context's vertex array. The caller
// guarantees c is current on the calling thread.
func (m *Mesh) vao(c *Context) driver.VertexArray {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vaos[c]
	if !ok {
		v = m.dev.drv.CreateVertexArray(m.vbo, m.ibo, m.format)
		m.vaos[c] = v
		logger().Debug("vertex array created for context", "vao", uint32(v))
	}
	return v
}

// Dispose enqueues the shared buffers on the global deletion list and each
// per-context vertex array on its owning context's list. Idempotent; safe
// from any goroutine.
func (m *Mesh) Dispose() {
	if !m.disposed.CompareAndSwap(false, true) {
		return
	}
	m.mu.Lock()
	for c, v := range m.vaos {
		m.dev.reg.get(c).freeVertexArrays.push(v)
	}
	m.vaos = nil
	m.mu.Unlock()
	m.dev.freeBuffers.push(m.vbo)
	m.dev.freeBuffers.push(m.ibo)
}

// indexBytes encodes indices as little-endian u32, the layout index
// buffers use on upload.
func indexBytes(indices []uint32) []byte {
	out := make([]byte, len(indices)*4)
	for i, ix := range indices {
		binary.LittleEndian.PutUint32(out[i*4:], ix)
	}
	return out
}
