// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package device implements the context-aware GPU resource lifecycle and
// render-dispatch engine at the core of glint.
//
// A Device wraps a driver.Driver and adds everything the raw API does not
// give you:
//
//   - a registry of per-context cached render state, created lazily and
//     swept when a context is disposed
//   - a state diff engine that applies only the blend/depth/cull/scissor
//     transitions a draw actually needs
//   - deferred deletion queues for GPU resources, partitioned by whether
//     the resource class is shareable across contexts
//   - request routing: draws and clears are dispatched to the right
//     context for the calling thread, serialized per context
//
// # Threading
//
// Open and CreateWindowTarget must be called on the main goroutine with the
// OS thread locked (the same contract glfw imposes). Any goroutine may then
// issue draws: operations on a window target run on its fixed context;
// offscreen work from non-main goroutines runs on a shared background
// context; offscreen work on the main goroutine uses whatever context is
// already current there.
//
// Operations targeting the same context are strictly serialized by that
// context's lock. Independent contexts proceed in parallel.
//
// # Resource lifetime
//
// Dispose on any resource is safe from any goroutine: it only enqueues the
// underlying identifiers. Actual reclamation happens on Tick, which the
// application calls once per frame (or from a maintenance loop). Buffers,
// textures and programs live in the shared store and are released on the
// next Tick regardless of context. Vertex arrays and framebuffers belong to
// one context and are released only while that context is current or
// provably unbound; an abandoned context keeps its entries queued, which is
// a shutdown leak, not a correctness problem.
package device
