// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glint

import (
	"fmt"
	"runtime"

	"github.com/gogpu/glint/audio"
	"github.com/gogpu/glint/device"
)

const (
	// Name is the framework name.
	Name = "glint"
	// Version is the framework version.
	Version = "0.3.0"
)

// Config configures Startup.
type Config struct {
	// Title is the window title.
	Title string
	// Width and Height are the window size in screen coordinates.
	// Zero values default to 800x600.
	Width, Height int

	// Driver selects a registered graphics driver by name. Empty picks
	// the best available one.
	Driver string

	// Audio opens the audio device as well.
	Audio bool
	// AudioSampleRate overrides the audio sample rate when Audio is set.
	AudioSampleRate int
}

// App bundles the objects Startup creates.
type App struct {
	// Device is the graphics device.
	Device *device.Device
	// Window is the main window target.
	Window *device.WindowTarget

	audio bool
}

// Startup opens the graphics device and the main window, and the audio
// device when configured. It must be the first call on the main
// goroutine: it locks the calling goroutine to its OS thread, which is
// the main thread only when nothing has run on the goroutine before.
func Startup(cfg Config) (*App, error) {
	runtime.LockOSThread()
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}

	dev, err := device.Open(device.Options{Driver: cfg.Driver})
	if err != nil {
		return nil, fmt.Errorf("glint: %w", err)
	}
	win, err := dev.CreateWindowTarget(device.WindowOptions{
		Title: cfg.Title,
		Width: cfg.Width, Height: cfg.Height,
	})
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("glint: %w", err)
	}

	app := &App{Device: dev, Window: win}
	if cfg.Audio {
		if err := audio.Startup(audio.Config{SampleRate: cfg.AudioSampleRate}); err != nil {
			win.Dispose()
			dev.Close()
			return nil, err
		}
		app.audio = true
	}
	Logger().Info("startup complete", "name", Name, "version", Version)
	return app, nil
}

// Shutdown releases everything Startup created. Call it from the main
// goroutine after all workers have stopped.
func (a *App) Shutdown() {
	if a.audio {
		audio.Shutdown()
		a.audio = false
	}
	if a.Device != nil {
		a.Device.Close()
		a.Device = nil
		a.Window = nil
	}
}
