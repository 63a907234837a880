// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package driver

import (
	"testing"
)

type stubDriver struct {
	Driver
	name string
}

func (s *stubDriver) Name() string { return s.name }

func TestRegisterAndGet(t *testing.T) {
	Register("stub", func() Driver { return &stubDriver{name: "stub"} })
	defer Unregister("stub")

	if !IsRegistered("stub") {
		t.Error("IsRegistered(stub) = false after Register")
	}
	d := Get("stub")
	if d == nil {
		t.Fatal("Get(stub) = nil")
	}
	if d.Name() != "stub" {
		t.Errorf("Name() = %q, want stub", d.Name())
	}
}

func TestGetUnknownReturnsNil(t *testing.T) {
	if d := Get("definitely-not-registered"); d != nil {
		t.Errorf("Get(unknown) = %v, want nil", d)
	}
}

func TestUnregister(t *testing.T) {
	Register("temp", func() Driver { return &stubDriver{name: "temp"} })
	Unregister("temp")
	if IsRegistered("temp") {
		t.Error("IsRegistered(temp) = true after Unregister")
	}
}

func TestDefaultPrefersPriorityOrder(t *testing.T) {
	Register(NameOpenGL, func() Driver { return &stubDriver{name: NameOpenGL} })
	Register("zzz-other", func() Driver { return &stubDriver{name: "zzz-other"} })
	defer Unregister(NameOpenGL)
	defer Unregister("zzz-other")

	d := Default()
	if d == nil {
		t.Fatal("Default() = nil")
	}
	if d.Name() != NameOpenGL {
		t.Errorf("Default().Name() = %q, want %q", d.Name(), NameOpenGL)
	}
}

func TestAvailableListsRegistered(t *testing.T) {
	Register("list-me", func() Driver { return &stubDriver{name: "list-me"} })
	defer Unregister("list-me")

	found := false
	for _, name := range Available() {
		if name == "list-me" {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing list-me", Available())
	}
}

func TestMustDefaultPanicsWhenEmpty(t *testing.T) {
	// The global registry may hold entries from other tests; use the
	// panic path only when truly empty.
	if len(Available()) > 0 {
		t.Skip("registry not empty")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustDefault with empty registry did not panic")
		}
	}()
	MustDefault()
}
