// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"image"

	"github.com/gogpu/glint/driver"
)

// Pass is an immutable snapshot of one draw's configuration. It is both the
// draw request handed to RenderToTarget and the baseline the next draw on
// the same context is diffed against.
//
// The zero values carry meaning: a zero Viewport derives the viewport from
// the target size, a zero Scissor disables the scissor test, Instances 0
// selects a plain (non-instanced) draw.
type Pass struct {
	// Shader is the program to draw with. Required.
	Shader *Shader

	// Uniforms are the shader parameter values. They are re-sent on
	// every draw and never diffed.
	Uniforms []driver.Uniform

	// Mesh supplies vertex and index data. Required.
	Mesh *Mesh

	// StartElement and ElementCount select the triangle range to draw:
	// indices [StartElement*3, (StartElement+ElementCount)*3).
	StartElement int
	ElementCount int

	// Instances is the instance count for instanced drawing; 0 draws a
	// single non-instanced range.
	Instances int

	Blend driver.BlendMode
	Depth driver.DepthFunc
	Cull  driver.CullMode

	// Viewport in target pixels. The zero rectangle means the full
	// target.
	Viewport image.Rectangle

	// Scissor in target pixels. The zero rectangle disables scissoring.
	Scissor image.Rectangle
}

// NewPass returns a pass over the full mesh with default state: normal
// alpha blending, no depth test, no culling, full-target viewport.
func NewPass(shader *Shader, mesh *Mesh) Pass {
	return Pass{
		Shader:       shader,
		Mesh:         mesh,
		ElementCount: mesh.ElementCount(),
		Blend:        driver.BlendNormal,
		Depth:        driver.DepthNone,
		Cull:         driver.CullNone,
	}
}

// scissorEnabled reports whether the pass requests a scissor rectangle.
// The comparison is against the exact zero value: a degenerate but nonzero
// rectangle still counts as an (empty) scissor region.
func (p *Pass) scissorEnabled() bool {
	return p.Scissor != image.Rectangle{}
}
