// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package imageio loads and saves images through an extension-keyed codec
// registry. PNG support is built in; applications can register further
// codecs at init time. Every decode is normalized to *image.RGBA so the
// rest of the engine never deals with exotic pixel layouts.
package imageio

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// Codec decodes and encodes one image file format.
type Codec struct {
	// Name identifies the codec, e.g. "png".
	Name string
	// Extensions lists the file extensions the codec claims, with the
	// leading dot, e.g. ".png".
	Extensions []string
	// Decode reads one image from r.
	Decode func(r io.Reader) (image.Image, error)
	// Encode writes img to w. Nil for decode-only codecs.
	Encode func(w io.Writer, img image.Image) error
}

var (
	codecsMu sync.RWMutex
	codecs   = make(map[string]Codec)
)

// Register makes a codec available under its extensions. Registering an
// extension twice overwrites the previous codec, so applications can
// replace the built-in PNG support.
func Register(c Codec) {
	if c.Name == "" || len(c.Extensions) == 0 || c.Decode == nil {
		panic("imageio: Register with incomplete codec")
	}
	codecsMu.Lock()
	defer codecsMu.Unlock()
	for _, ext := range c.Extensions {
		codecs[strings.ToLower(ext)] = c
	}
}

// Lookup returns the codec registered for an extension (with leading dot,
// case-insensitive).
func Lookup(ext string) (Codec, bool) {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	c, ok := codecs[strings.ToLower(ext)]
	return c, ok
}

// Extensions returns all registered extensions, sorted.
func Extensions() []string {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	exts := make([]string, 0, len(codecs))
	for ext := range codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Decode reads an image from r using the codec registered for ext and
// normalizes it to RGBA.
func Decode(r io.Reader, ext string) (*image.RGBA, error) {
	c, ok := Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("imageio: no codec for %q", ext)
	}
	img, err := c.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decoding %s: %w", c.Name, err)
	}
	return ToRGBA(img), nil
}

// Load reads an image file, picking the codec by the path's extension.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: %w", err)
	}
	defer f.Close()
	return Decode(f, filepath.Ext(path))
}

// Save writes an image file, picking the codec by the path's extension.
func Save(path string, img image.Image) error {
	ext := filepath.Ext(path)
	c, ok := Lookup(ext)
	if !ok {
		return fmt.Errorf("imageio: no codec for %q", ext)
	}
	if c.Encode == nil {
		return fmt.Errorf("imageio: codec %s cannot encode", c.Name)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: %w", err)
	}
	if err := c.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("imageio: encoding %s: %w", c.Name, err)
	}
	return f.Close()
}

// ToRGBA returns img as *image.RGBA, converting only when necessary.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return rgba
}
