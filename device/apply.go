// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"
	"image"

	"github.com/gogpu/glint/driver"
)

// applyPass is the state diff engine: it transitions the context from its
// cached state to the requested pass state, emitting only the driver calls
// that change something, then issues the draw.
//
// The caller holds c's lock and guarantees c is current on the calling
// thread. Visual output is identical to re-applying every field; only the
// call count differs.
func (d *Device) applyPass(c *Context, m *contextMeta, target Target, pass Pass) {
	validatePass(&pass)

	// No recorded baseline means a fresh context: apply everything,
	// even fields that happen to equal their zero defaults.
	updateAll := m.lastPass == nil

	if updateAll || m.lastTarget != target {
		target.bind(c)
		m.lastTarget = target
	}

	// Shader and parameters vary per draw; never diffed.
	d.drv.BindProgram(pass.Shader.prog)
	d.drv.SetUniforms(pass.Shader.prog, pass.Uniforms)

	if updateAll || pass.Blend != m.lastPass.Blend {
		d.drv.SetBlend(pass.Blend)
	}

	if updateAll || pass.Depth != m.lastPass.Depth {
		if pass.Depth == driver.DepthNone {
			d.drv.DisableDepthTest()
		} else {
			d.drv.EnableDepthTest(pass.Depth)
		}
	}

	if updateAll || pass.Cull != m.lastPass.Cull {
		d.drv.SetCull(pass.Cull)
	}

	// Viewport derives from the target, so it is diffed against the
	// metadata's viewport cache, not the previous pass snapshot.
	vp := pass.Viewport
	if (vp == image.Rectangle{}) {
		w, h := target.Size()
		vp = image.Rect(0, 0, w, h)
	}
	if updateAll || !m.hasViewport || vp != m.viewport {
		d.drv.Viewport(vp)
		m.viewport = vp
		m.hasViewport = true
	}

	// A preceding clear perturbed scissor state behind the cache's back;
	// forceScissor makes even an exact match re-apply.
	if updateAll || m.forceScissor || pass.Scissor != m.lastPass.Scissor {
		if pass.scissorEnabled() {
			d.drv.EnableScissor(pass.Scissor)
		} else {
			d.drv.DisableScissor()
		}
		m.forceScissor = false
	}

	// The just-applied state becomes the next diff baseline. Uniforms are
	// never diffed, so the baseline drops them rather than alias the
	// caller's slice.
	snapshot := pass
	snapshot.Uniforms = nil
	m.lastPass = &snapshot

	count := pass.ElementCount * 3
	offset := pass.StartElement * 3
	vao := pass.Mesh.vao(c)
	d.drv.BindVertexArray(vao)
	if pass.Instances > 0 {
		d.drv.DrawIndexedInstanced(count, offset, pass.Instances)
	} else {
		d.drv.DrawIndexed(count, offset)
	}
	d.drv.BindVertexArray(0)
}

// validatePass rejects configurations no driver can express. These are
// programming errors in the caller, raised immediately rather than passed
// down for the driver to trip over.
func validatePass(p *Pass) {
	if p.Depth > driver.DepthNotEqual {
		panic(fmt.Sprintf("device: unrecognized depth function %d", p.Depth))
	}
	if p.Blend.Op > driver.BlendOpMax {
		panic(fmt.Sprintf("device: unsupported blend operation %d", p.Blend.Op))
	}
	if p.Blend.Src > driver.BlendOneMinusDstAlpha || p.Blend.Dst > driver.BlendOneMinusDstAlpha {
		panic(fmt.Sprintf("device: unsupported blend factor %d/%d", p.Blend.Src, p.Blend.Dst))
	}
	if p.ElementCount < 0 || p.StartElement < 0 || p.Instances < 0 {
		panic("device: negative draw range")
	}
}
