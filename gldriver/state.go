// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gldriver

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/gogpu/glint/driver"
)

// Viewport sets the viewport rectangle.
func (d *Driver) Viewport(r image.Rectangle) {
	gl.Viewport(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()))
}

// SetBlend enables blending with the given mode.
func (d *Driver) SetBlend(m driver.BlendMode) {
	gl.Enable(gl.BLEND)
	gl.BlendEquation(blendOp(m.Op))
	gl.BlendFunc(blendFactor(m.Src), blendFactor(m.Dst))
}

// EnableDepthTest enables depth testing with the given comparison.
func (d *Driver) EnableDepthTest(f driver.DepthFunc) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(depthFunc(f))
}

// DisableDepthTest disables depth testing.
func (d *Driver) DisableDepthTest() {
	gl.Disable(gl.DEPTH_TEST)
}

// SetCull configures face culling.
func (d *Driver) SetCull(m driver.CullMode) {
	if m == driver.CullNone {
		gl.Disable(gl.CULL_FACE)
		return
	}
	gl.Enable(gl.CULL_FACE)
	switch m {
	case driver.CullBack:
		gl.CullFace(gl.BACK)
	case driver.CullFront:
		gl.CullFace(gl.FRONT)
	default:
		gl.CullFace(gl.FRONT_AND_BACK)
	}
}

// EnableScissor enables the scissor test over r.
func (d *Driver) EnableScissor(r image.Rectangle) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()))
}

// DisableScissor disables the scissor test.
func (d *Driver) DisableScissor() {
	gl.Disable(gl.SCISSOR_TEST)
}

// Clear clears the selected buffers of the bound framebuffer.
func (d *Driver) Clear(flags driver.ClearFlags, color driver.Color, depth float32, stencil int) {
	var mask uint32
	if flags&driver.ClearColor != 0 {
		gl.ClearColor(color.R, color.G, color.B, color.A)
		mask |= gl.COLOR_BUFFER_BIT
	}
	if flags&driver.ClearDepth != 0 {
		gl.ClearDepth(float64(depth))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if flags&driver.ClearStencil != 0 {
		gl.ClearStencil(int32(stencil))
		mask |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(mask)
}

func blendOp(op driver.BlendOp) uint32 {
	switch op {
	case driver.BlendOpAdd:
		return gl.FUNC_ADD
	case driver.BlendOpSubtract:
		return gl.FUNC_SUBTRACT
	case driver.BlendOpReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case driver.BlendOpMin:
		return gl.MIN
	case driver.BlendOpMax:
		return gl.MAX
	}
	panic(fmt.Sprintf("gldriver: unsupported blend operation %d", op))
}

func blendFactor(f driver.BlendFactor) uint32 {
	switch f {
	case driver.BlendZero:
		return gl.ZERO
	case driver.BlendOne:
		return gl.ONE
	case driver.BlendSrcColor:
		return gl.SRC_COLOR
	case driver.BlendOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case driver.BlendDstColor:
		return gl.DST_COLOR
	case driver.BlendOneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case driver.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case driver.BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case driver.BlendDstAlpha:
		return gl.DST_ALPHA
	case driver.BlendOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	}
	panic(fmt.Sprintf("gldriver: unsupported blend factor %d", f))
}

func depthFunc(f driver.DepthFunc) uint32 {
	switch f {
	case driver.DepthAlways:
		return gl.ALWAYS
	case driver.DepthEqual:
		return gl.EQUAL
	case driver.DepthGreater:
		return gl.GREATER
	case driver.DepthGreaterEqual:
		return gl.GEQUAL
	case driver.DepthLess:
		return gl.LESS
	case driver.DepthLessEqual:
		return gl.LEQUAL
	case driver.DepthNever:
		return gl.NEVER
	case driver.DepthNotEqual:
		return gl.NOTEQUAL
	}
	panic(fmt.Sprintf("gldriver: unrecognized depth function %d", f))
}
