// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package transform

import (
	"math"
	"testing"
)

const eps = 1e-4

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func TestIdentity(t *testing.T) {
	tr := New()
	x, y := tr.Apply(3, -2)
	if !near(x, 3) || !near(y, -2) {
		t.Errorf("Apply(3,-2) = (%v,%v), want (3,-2)", x, y)
	}
}

func TestTranslate(t *testing.T) {
	tr := New()
	tr.SetPosition(10, 20)
	x, y := tr.Apply(1, 2)
	if !near(x, 11) || !near(y, 22) {
		t.Errorf("Apply(1,2) = (%v,%v), want (11,22)", x, y)
	}
}

func TestScaleAroundOrigin(t *testing.T) {
	tr := New()
	tr.SetOrigin(4, 4)
	tr.SetScale(2, 2)
	// The origin itself maps to the position (here 0,0).
	x, y := tr.Apply(4, 4)
	if !near(x, 0) || !near(y, 0) {
		t.Errorf("Apply(origin) = (%v,%v), want (0,0)", x, y)
	}
	x, y = tr.Apply(5, 4)
	if !near(x, 2) || !near(y, 0) {
		t.Errorf("Apply(5,4) = (%v,%v), want (2,0)", x, y)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	tr := New()
	tr.SetRotation(math.Pi / 2)
	x, y := tr.Apply(1, 0)
	if !near(x, 0) || !near(y, 1) {
		t.Errorf("Apply(1,0) = (%v,%v), want (0,1)", x, y)
	}
}

func TestParentComposition(t *testing.T) {
	parent := New()
	parent.SetPosition(100, 0)
	child := New()
	child.SetParent(parent)
	child.SetPosition(0, 10)

	x, y := child.Apply(1, 1)
	if !near(x, 101) || !near(y, 11) {
		t.Errorf("child Apply(1,1) = (%v,%v), want (101,11)", x, y)
	}

	// Moving the parent must show through the child without any explicit
	// invalidation call.
	parent.SetPosition(200, 0)
	x, y = child.Apply(1, 1)
	if !near(x, 201) || !near(y, 11) {
		t.Errorf("child Apply after parent move = (%v,%v), want (201,11)", x, y)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	tr := New()
	tr.SetPosition(5, -3)
	tr.SetRotation(0.7)
	tr.SetScale(2, 0.5)
	tr.SetOrigin(1, 1)

	wx, wy := tr.Apply(2, 3)
	lx, ly := tr.ApplyInverse(wx, wy)
	if !near(lx, 2) || !near(ly, 3) {
		t.Errorf("round trip = (%v,%v), want (2,3)", lx, ly)
	}
}

func TestMatrixCached(t *testing.T) {
	tr := New()
	tr.SetPosition(1, 2)
	m1 := tr.Matrix()
	m2 := tr.Matrix()
	if m1 != m2 {
		t.Error("Matrix differs between calls with no mutation")
	}

	gen := tr.Generation()
	tr.SetPosition(1, 2) // no-op set
	if tr.Generation() != gen {
		t.Error("no-op SetPosition bumped the generation")
	}
	tr.SetPosition(3, 4)
	if tr.Generation() == gen {
		t.Error("SetPosition did not bump the generation")
	}
}

func TestGenerationCoversAncestors(t *testing.T) {
	parent := New()
	child := New()
	child.SetParent(parent)

	gen := child.Generation()
	parent.SetRotation(1)
	if child.Generation() == gen {
		t.Error("parent mutation did not change child generation")
	}
}

func TestReparent(t *testing.T) {
	a := New()
	a.SetPosition(10, 0)
	b := New()
	b.SetPosition(0, 10)
	child := New()

	child.SetParent(a)
	x, _ := child.Apply(0, 0)
	if !near(x, 10) {
		t.Fatalf("child under a: x = %v, want 10", x)
	}

	child.SetParent(b)
	x, y := child.Apply(0, 0)
	if !near(x, 0) || !near(y, 10) {
		t.Errorf("child under b = (%v,%v), want (0,10)", x, y)
	}

	child.SetParent(nil)
	x, y = child.Apply(0, 0)
	if !near(x, 0) || !near(y, 0) {
		t.Errorf("detached child = (%v,%v), want (0,0)", x, y)
	}
}

func TestCyclePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("cyclic SetParent did not panic")
		}
	}()
	a := New()
	b := New()
	b.SetParent(a)
	a.SetParent(b)
}
