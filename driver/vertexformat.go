// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package driver

import "fmt"

// AttrKind is the component type and arity of one vertex attribute.
type AttrKind uint8

const (
	AttrFloat AttrKind = iota
	AttrFloat2
	AttrFloat3
	AttrFloat4
	AttrByte4
)

// Size returns the attribute size in bytes.
func (k AttrKind) Size() int {
	switch k {
	case AttrFloat:
		return 4
	case AttrFloat2:
		return 8
	case AttrFloat3:
		return 12
	case AttrFloat4:
		return 16
	case AttrByte4:
		return 4
	}
	panic(fmt.Sprintf("driver: unknown attribute kind %d", uint8(k)))
}

// Components returns the number of components in the attribute.
func (k AttrKind) Components() int {
	switch k {
	case AttrFloat:
		return 1
	case AttrFloat2:
		return 2
	case AttrFloat3:
		return 3
	case AttrFloat4:
		return 4
	case AttrByte4:
		return 4
	}
	panic(fmt.Sprintf("driver: unknown attribute kind %d", uint8(k)))
}

// VertexAttribute describes one field of a vertex: its shader location,
// component kind, byte offset within the vertex, and whether integer
// components are normalized to [0,1] when read.
type VertexAttribute struct {
	Location   int
	Kind       AttrKind
	Offset     int
	Normalized bool
}

// VertexFormat is an explicit vertex layout descriptor: a static table of
// attribute offsets, sizes and the overall stride, declared once per vertex
// type. There is no runtime field discovery; layouts are spelled out at the
// call site or registered as package-level variables.
type VertexFormat struct {
	Stride     int
	Attributes []VertexAttribute
}

// NewVertexFormat builds a VertexFormat with sequential offsets computed
// from the attribute kinds, in declaration order, with the stride set to
// the packed size. Panics if two attributes share a location.
func NewVertexFormat(attrs ...VertexAttribute) VertexFormat {
	seen := make(map[int]bool, len(attrs))
	offset := 0
	out := make([]VertexAttribute, len(attrs))
	for i, a := range attrs {
		if seen[a.Location] {
			panic(fmt.Sprintf("driver: duplicate vertex attribute location %d", a.Location))
		}
		seen[a.Location] = true
		a.Offset = offset
		offset += a.Kind.Size()
		out[i] = a
	}
	return VertexFormat{Stride: offset, Attributes: out}
}
