// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package driver

import "testing"

func TestNewVertexFormatOffsetsAndStride(t *testing.T) {
	f := NewVertexFormat(
		VertexAttribute{Location: 0, Kind: AttrFloat2},
		VertexAttribute{Location: 1, Kind: AttrFloat2},
		VertexAttribute{Location: 2, Kind: AttrByte4, Normalized: true},
	)

	if f.Stride != 20 {
		t.Errorf("Stride = %d, want 20", f.Stride)
	}
	wantOffsets := []int{0, 8, 16}
	for i, a := range f.Attributes {
		if a.Offset != wantOffsets[i] {
			t.Errorf("attribute %d offset = %d, want %d", i, a.Offset, wantOffsets[i])
		}
	}
	if !f.Attributes[2].Normalized {
		t.Error("Normalized flag lost")
	}
}

func TestNewVertexFormatDuplicateLocationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate location did not panic")
		}
	}()
	NewVertexFormat(
		VertexAttribute{Location: 0, Kind: AttrFloat3},
		VertexAttribute{Location: 0, Kind: AttrFloat2},
	)
}

func TestAttrKindSizes(t *testing.T) {
	tests := []struct {
		kind       AttrKind
		size, comp int
	}{
		{AttrFloat, 4, 1},
		{AttrFloat2, 8, 2},
		{AttrFloat3, 12, 3},
		{AttrFloat4, 16, 4},
		{AttrByte4, 4, 4},
	}
	for _, tt := range tests {
		if got := tt.kind.Size(); got != tt.size {
			t.Errorf("Size(%d) = %d, want %d", tt.kind, got, tt.size)
		}
		if got := tt.kind.Components(); got != tt.comp {
			t.Errorf("Components(%d) = %d, want %d", tt.kind, got, tt.comp)
		}
	}
}

func TestDepthFuncString(t *testing.T) {
	if got := DepthNone.String(); got != "None" {
		t.Errorf("DepthNone.String() = %q, want None", got)
	}
	if got := DepthGreaterEqual.String(); got != "GreaterEqual" {
		t.Errorf("DepthGreaterEqual.String() = %q, want GreaterEqual", got)
	}
}
