// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package imageio

import (
	"image"
	"image/png"
	"io"
)

func init() {
	Register(Codec{
		Name:       "png",
		Extensions: []string{".png"},
		Decode:     func(r io.Reader) (image.Image, error) { return png.Decode(r) },
		Encode:     func(w io.Writer, img image.Image) error { return png.Encode(w, img) },
	})
}
