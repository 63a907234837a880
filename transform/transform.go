// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package transform provides hierarchical 2D transforms.
//
// A Transform composes translation, rotation around an origin and scale
// into a 3x3 homogeneous matrix. Transforms form trees through SetParent;
// a child's matrix includes its ancestors'.
//
// Invalidation is pull-based. Every mutation bumps a generation counter,
// and Matrix compares the combined generation of the transform and its
// ancestors against the one the cache was built from. Nothing subscribes
// to anything, so reparenting and teardown need no bookkeeping.
//
// Transform is not safe for concurrent use.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is one node of a 2D transform hierarchy.
type Transform struct {
	position mgl32.Vec2
	scale    mgl32.Vec2
	rotation float32 // radians, counterclockwise
	origin   mgl32.Vec2
	parent   *Transform

	gen       uint64
	cachedGen uint64
	cached    bool
	matrix    mgl32.Mat3
	inverse   mgl32.Mat3
}

// New returns an identity transform.
func New() *Transform {
	return &Transform{scale: mgl32.Vec2{1, 1}}
}

// Position returns the translation.
func (t *Transform) Position() (x, y float32) {
	return t.position.X(), t.position.Y()
}

// SetPosition sets the translation.
func (t *Transform) SetPosition(x, y float32) {
	p := mgl32.Vec2{x, y}
	if p == t.position {
		return
	}
	t.position = p
	t.gen++
}

// Scale returns the scale factors.
func (t *Transform) Scale() (x, y float32) {
	return t.scale.X(), t.scale.Y()
}

// SetScale sets the scale factors.
func (t *Transform) SetScale(x, y float32) {
	s := mgl32.Vec2{x, y}
	if s == t.scale {
		return
	}
	t.scale = s
	t.gen++
}

// Rotation returns the rotation in radians.
func (t *Transform) Rotation() float32 {
	return t.rotation
}

// SetRotation sets the rotation in radians.
func (t *Transform) SetRotation(radians float32) {
	if radians == t.rotation {
		return
	}
	t.rotation = radians
	t.gen++
}

// Origin returns the pivot point, in local coordinates.
func (t *Transform) Origin() (x, y float32) {
	return t.origin.X(), t.origin.Y()
}

// SetOrigin sets the pivot that rotation and scale are applied around.
func (t *Transform) SetOrigin(x, y float32) {
	o := mgl32.Vec2{x, y}
	if o == t.origin {
		return
	}
	t.origin = o
	t.gen++
}

// Parent returns the parent transform, or nil.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// SetParent attaches t under parent (nil detaches). Attaching a transform
// under itself or one of its descendants panics.
func (t *Transform) SetParent(parent *Transform) {
	if parent == t.parent {
		return
	}
	for p := parent; p != nil; p = p.parent {
		if p == t {
			panic("transform: SetParent would create a cycle")
		}
	}
	t.parent = parent
	t.gen++
	// Generation sums ancestor counters, so swapping the chain could
	// collide with the cached value. Drop the cache outright.
	t.cached = false
}

// Generation returns a counter covering t and its ancestors. It changes
// whenever anything that affects Matrix changes; callers caching derived
// data can compare it instead of the matrix.
func (t *Transform) Generation() uint64 {
	g := t.gen
	for p := t.parent; p != nil; p = p.parent {
		g += p.gen
	}
	return g
}

// Matrix returns the local-to-world matrix, recomputing it only when t or
// an ancestor changed since the last call.
func (t *Transform) Matrix() mgl32.Mat3 {
	t.revalidate()
	return t.matrix
}

// Inverse returns the world-to-local matrix.
func (t *Transform) Inverse() mgl32.Mat3 {
	t.revalidate()
	return t.inverse
}

// Apply transforms a point from local to world coordinates.
func (t *Transform) Apply(x, y float32) (float32, float32) {
	v := t.Matrix().Mul3x1(mgl32.Vec3{x, y, 1})
	return v.X(), v.Y()
}

// ApplyInverse transforms a point from world to local coordinates.
func (t *Transform) ApplyInverse(x, y float32) (float32, float32) {
	v := t.Inverse().Mul3x1(mgl32.Vec3{x, y, 1})
	return v.X(), v.Y()
}

func (t *Transform) revalidate() {
	gen := t.Generation()
	if t.cached && t.cachedGen == gen {
		return
	}
	m := mgl32.Translate2D(t.position.X(), t.position.Y()).
		Mul3(mgl32.HomogRotate2D(t.rotation)).
		Mul3(mgl32.Scale2D(t.scale.X(), t.scale.Y())).
		Mul3(mgl32.Translate2D(-t.origin.X(), -t.origin.Y()))
	if t.parent != nil {
		m = t.parent.Matrix().Mul3(m)
	}
	t.matrix = m
	t.inverse = m.Inv()
	t.cached = true
	t.cachedGen = gen
}
