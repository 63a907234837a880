// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gldriver implements the glint driver interface on OpenGL 3.3
// core, with contexts backed by glfw windows.
//
// The driver registers itself under the name "opengl"; enable it with a
// blank import:
//
//	import _ "github.com/gogpu/glint/gldriver"
//
// Init, CreateContext and PollEvents must run on the main OS thread; this
// is glfw's contract, not the driver's choice. All contexts are created
// sharing one object namespace, so buffers, textures and programs created
// on any context are visible to all of them. Vertex arrays and
// framebuffers are container objects and stay private to the context that
// created them.
package gldriver
