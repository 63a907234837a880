// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glint is a small graphics and application core for games and
// tools. It manages GPU contexts, resources and render state through a
// pluggable driver, and ships supporting packages for transforms, texture
// atlases, image loading, audio playback and a minimal scene layer.
//
// The pieces compose bottom-up and can be used independently:
//
//   - driver: the backend interface and registry.
//   - gldriver: the OpenGL 3.3 backend (enable with a blank import).
//   - device: contexts, resources, targets and render dispatch.
//   - transform, atlas, imageio, audio, scene: collaborators.
//
// For applications that want the usual wiring done for them, Startup
// opens the device and a window in one call:
//
//	import (
//	    "github.com/gogpu/glint"
//	    _ "github.com/gogpu/glint/gldriver"
//	)
//
//	func main() {
//	    app, err := glint.Startup(glint.Config{Title: "demo", Width: 800, Height: 600})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer app.Shutdown()
//	    for !app.Window.ShouldClose() {
//	        app.Device.PollEvents()
//	        // clear, draw...
//	        app.Window.Present()
//	        app.Device.Tick()
//	    }
//	}
//
// Startup must run on the main goroutine, locked to the main OS thread;
// see package device for the full threading contract.
package glint
