// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package driver

import "fmt"

// Handle types for GPU resources. A zero handle is "no resource".
//
// Buffers, textures and programs live in the device-wide shared store and
// may be touched from any context. Vertex arrays and framebuffers are
// container objects scoped to the context that created them; they must only
// be bound or deleted while that exact context is current.
type (
	// Buffer identifies a vertex or index buffer.
	Buffer uint32

	// Texture identifies a texture object.
	Texture uint32

	// Program identifies a linked shader program.
	Program uint32

	// VertexArray identifies a vertex array (layout container) object.
	// Context-scoped: not shareable across contexts.
	VertexArray uint32

	// Framebuffer identifies a framebuffer object.
	// Context-scoped: not shareable across contexts. Zero is the default
	// framebuffer of the current context.
	Framebuffer uint32
)

// BufferKind selects the binding point a buffer is created for.
type BufferKind uint8

const (
	// BufferVertex is a vertex attribute buffer.
	BufferVertex BufferKind = iota

	// BufferIndex is an element index buffer.
	BufferIndex
)

// BlendFactor is a source or destination blend coefficient.
type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

// BlendOp combines the weighted source and destination terms.
type BlendOp uint8

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// BlendMode is a complete blend configuration. The zero value is
// "replace" (source over nothing); use the predefined modes for
// common compositing.
type BlendMode struct {
	Op  BlendOp
	Src BlendFactor
	Dst BlendFactor
}

// Predefined blend modes.
var (
	// BlendNormal is standard premultiplied alpha compositing.
	BlendNormal = BlendMode{BlendOpAdd, BlendOne, BlendOneMinusSrcAlpha}

	// BlendAdd accumulates source onto destination.
	BlendAdd = BlendMode{BlendOpAdd, BlendOne, BlendDstAlpha}

	// BlendSubtract removes source from destination.
	BlendSubtract = BlendMode{BlendOpReverseSubtract, BlendOne, BlendOne}

	// BlendMultiply multiplies destination by source.
	BlendMultiply = BlendMode{BlendOpAdd, BlendDstColor, BlendOneMinusSrcAlpha}
)

// DepthFunc selects the depth test comparison, or disables the test.
type DepthFunc uint8

const (
	// DepthNone disables depth testing entirely.
	DepthNone DepthFunc = iota
	DepthAlways
	DepthEqual
	DepthGreater
	DepthGreaterEqual
	DepthLess
	DepthLessEqual
	DepthNever
	DepthNotEqual
)

// String returns the name of the depth function.
func (f DepthFunc) String() string {
	switch f {
	case DepthNone:
		return "None"
	case DepthAlways:
		return "Always"
	case DepthEqual:
		return "Equal"
	case DepthGreater:
		return "Greater"
	case DepthGreaterEqual:
		return "GreaterEqual"
	case DepthLess:
		return "Less"
	case DepthLessEqual:
		return "LessEqual"
	case DepthNever:
		return "Never"
	case DepthNotEqual:
		return "NotEqual"
	}
	return fmt.Sprintf("DepthFunc(%d)", uint8(f))
}

// CullMode selects which triangle faces are discarded.
type CullMode uint8

const (
	// CullNone disables face culling.
	CullNone CullMode = iota
	CullBack
	CullFront
	CullBoth
)

// ClearFlags selects which buffers a clear operation affects.
// Flags combine with bitwise OR.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil

	// ClearAll clears color, depth and stencil.
	ClearAll = ClearColor | ClearDepth | ClearStencil
)

// Color is a normalized RGBA color used for clears.
type Color struct {
	R, G, B, A float32
}

// UniformKind is the data type of a shader parameter.
type UniformKind uint8

const (
	UniformFloat UniformKind = iota
	UniformFloat2
	UniformFloat3
	UniformFloat4
	UniformMat4
	UniformInt
	UniformTexture
)

// Uniform is one shader parameter value. Floats, Ints or Tex is populated
// according to Kind. Uniforms are re-sent on every draw; they are never
// part of the state diff.
type Uniform struct {
	Name   string
	Kind   UniformKind
	Floats []float32
	Ints   []int32
	Tex    Texture
}
