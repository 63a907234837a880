// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glint

import (
	"log/slog"
	"testing"

	"github.com/gogpu/glint/driver"
	"github.com/gogpu/glint/driver/drivertest"
)

func TestStartupShutdown(t *testing.T) {
	name := "fake-" + t.Name()
	driver.Register(name, func() driver.Driver { return drivertest.New() })
	t.Cleanup(func() { driver.Unregister(name) })

	app, err := Startup(Config{Title: "t", Driver: name})
	if err != nil {
		t.Fatalf("Startup: %v", err)
	}
	if app.Device == nil || app.Window == nil {
		t.Fatal("Startup returned incomplete app")
	}
	if w, h := app.Window.Size(); w != 800 || h != 600 {
		t.Errorf("window size = %dx%d, want default 800x600", w, h)
	}
	app.Shutdown()
	if app.Device != nil {
		t.Error("Shutdown did not clear Device")
	}
	app.Shutdown() // second call is a no-op
}

func TestStartupUnknownDriver(t *testing.T) {
	if _, err := Startup(Config{Driver: "no-such-driver"}); err == nil {
		t.Fatal("Startup with unknown driver succeeded")
	}
}

func TestSetLoggerPropagates(t *testing.T) {
	l := slog.Default()
	SetLogger(l)
	if Logger() != l {
		t.Error("Logger() did not return the set logger")
	}
	SetLogger(nil)
	if Logger() == l {
		t.Error("SetLogger(nil) did not reset")
	}
}
