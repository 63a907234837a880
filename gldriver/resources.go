// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gldriver

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glint/driver"
)

func bufferTarget(kind driver.BufferKind) uint32 {
	if kind == driver.BufferIndex {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// CreateBuffer creates a buffer and uploads data if non-nil.
func (d *Driver) CreateBuffer(kind driver.BufferKind, data []byte) driver.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	if len(data) > 0 {
		target := bufferTarget(kind)
		gl.BindBuffer(target, id)
		gl.BufferData(target, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
		gl.BindBuffer(target, 0)
	}
	return driver.Buffer(id)
}

// UpdateBuffer replaces a buffer's contents.
func (d *Driver) UpdateBuffer(kind driver.BufferKind, b driver.Buffer, data []byte) {
	target := bufferTarget(kind)
	gl.BindBuffer(target, uint32(b))
	if len(data) > 0 {
		gl.BufferData(target, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(target, 0, nil, gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(target, 0)
}

// DeleteBuffer deletes a buffer.
func (d *Driver) DeleteBuffer(b driver.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

// texFormat maps a gputypes format onto GL internal format, pixel format
// and component type. Unsupported formats are a configuration error.
func texFormat(format gputypes.TextureFormat) (internal int32, pixFormat, pixType uint32) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE
	case gputypes.TextureFormatBGRA8Unorm:
		return gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE
	case gputypes.TextureFormatDepth24PlusStencil8:
		return gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8
	}
	panic(fmt.Sprintf("gldriver: unsupported texture format %v", format))
}

// CreateTexture creates a 2D texture, uploading pix if non-nil.
func (d *Driver) CreateTexture(w, h int, format gputypes.TextureFormat, pix []byte) (driver.Texture, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("gldriver: invalid texture size %dx%d", w, h)
	}
	internal, pixFormat, pixType := texFormat(format)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	var ptr unsafe.Pointer
	if len(pix) > 0 {
		ptr = gl.Ptr(pix)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(w), int32(h), 0, pixFormat, pixType, ptr)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return driver.Texture(id), nil
}

// DeleteTexture deletes a texture.
func (d *Driver) DeleteTexture(t driver.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func compileShader(kind uint32, src string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("gldriver: compiling shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// CreateProgram compiles both stages and links them.
func (d *Driver) CreateProgram(vertex, fragment string) (driver.Program, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertex)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragment)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("gldriver: linking program: %s", strings.TrimRight(log, "\x00"))
	}
	return driver.Program(prog), nil
}

// BindProgram makes a program active.
func (d *Driver) BindProgram(p driver.Program) {
	gl.UseProgram(uint32(p))
}

// SetUniforms uploads parameter values to the bound program. Texture
// uniforms are assigned texture units in order of appearance.
func (d *Driver) SetUniforms(p driver.Program, uniforms []driver.Uniform) {
	unit := int32(0)
	for _, u := range uniforms {
		loc := gl.GetUniformLocation(uint32(p), gl.Str(u.Name+"\x00"))
		if loc < 0 {
			continue
		}
		switch u.Kind {
		case driver.UniformFloat:
			gl.Uniform1fv(loc, 1, &u.Floats[0])
		case driver.UniformFloat2:
			gl.Uniform2fv(loc, 1, &u.Floats[0])
		case driver.UniformFloat3:
			gl.Uniform3fv(loc, 1, &u.Floats[0])
		case driver.UniformFloat4:
			gl.Uniform4fv(loc, 1, &u.Floats[0])
		case driver.UniformMat4:
			gl.UniformMatrix4fv(loc, 1, false, &u.Floats[0])
		case driver.UniformInt:
			gl.Uniform1iv(loc, 1, &u.Ints[0])
		case driver.UniformTexture:
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(gl.TEXTURE_2D, uint32(u.Tex))
			gl.Uniform1i(loc, unit)
			unit++
		default:
			panic(fmt.Sprintf("gldriver: unknown uniform kind %d", u.Kind))
		}
	}
}

// DeleteProgram deletes a program.
func (d *Driver) DeleteProgram(p driver.Program) {
	gl.DeleteProgram(uint32(p))
}

func attrType(kind driver.AttrKind) uint32 {
	if kind == driver.AttrByte4 {
		return gl.UNSIGNED_BYTE
	}
	return gl.FLOAT
}

// CreateVertexArray builds a vertex array for the current context.
func (d *Driver) CreateVertexArray(vertices, indices driver.Buffer, format driver.VertexFormat) driver.VertexArray {
	var id uint32
	gl.GenVertexArrays(1, &id)
	gl.BindVertexArray(id)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(vertices))
	for _, a := range format.Attributes {
		gl.EnableVertexAttribArray(uint32(a.Location))
		gl.VertexAttribPointerWithOffset(
			uint32(a.Location),
			int32(a.Kind.Components()),
			attrType(a.Kind),
			a.Normalized,
			int32(format.Stride),
			uintptr(a.Offset),
		)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(indices))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return driver.VertexArray(id)
}

// BindVertexArray binds a vertex array; zero unbinds.
func (d *Driver) BindVertexArray(v driver.VertexArray) {
	gl.BindVertexArray(uint32(v))
}

// DeleteVertexArray deletes a vertex array owned by the current context.
func (d *Driver) DeleteVertexArray(v driver.VertexArray) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

// CreateFramebuffer builds a framebuffer for the current context.
func (d *Driver) CreateFramebuffer(colors []driver.Texture, depth driver.Texture) (driver.Framebuffer, error) {
	var id uint32
	gl.GenFramebuffers(1, &id)
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)

	bufs := make([]uint32, len(colors))
	for i, tex := range colors {
		attach := uint32(gl.COLOR_ATTACHMENT0 + i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attach, gl.TEXTURE_2D, uint32(tex), 0)
		bufs[i] = attach
	}
	if len(bufs) > 0 {
		gl.DrawBuffers(int32(len(bufs)), &bufs[0])
	}
	if depth != 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.TEXTURE_2D, uint32(depth), 0)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &id)
		return 0, fmt.Errorf("gldriver: incomplete framebuffer (status 0x%x)", status)
	}
	return driver.Framebuffer(id), nil
}

// BindFramebuffer binds a framebuffer; zero restores the default.
func (d *Driver) BindFramebuffer(f driver.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
}

// DeleteFramebuffer deletes a framebuffer owned by the current context.
func (d *Driver) DeleteFramebuffer(f driver.Framebuffer) {
	id := uint32(f)
	gl.DeleteFramebuffers(1, &id)
}

// DrawIndexed draws count indices starting at the given index offset.
func (d *Driver) DrawIndexed(count, offset int) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(offset*4))
}

// DrawIndexedInstanced draws count indices at offset, instances times.
func (d *Driver) DrawIndexedInstanced(count, offset, instances int) {
	gl.DrawElementsInstancedWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(offset*4), int32(instances))
}
