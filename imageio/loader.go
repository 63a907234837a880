// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package imageio

import (
	"image"

	"github.com/gogpu/glint/internal/cache"
)

// Loader loads images with an LRU cache keyed by path. Repeated loads of
// the same file return the same *image.RGBA; callers that mutate pixels
// should copy first.
type Loader struct {
	cache *cache.Cache[string, *image.RGBA]
}

// NewLoader creates a loader caching up to capacity decoded images.
// A capacity of 0 means unlimited.
func NewLoader(capacity int) *Loader {
	return &Loader{cache: cache.New[string, *image.RGBA](capacity)}
}

// Load returns the decoded image for path, reading it at most once while
// it stays in the cache.
func (l *Loader) Load(path string) (*image.RGBA, error) {
	return l.cache.GetOrCreate(path, func() (*image.RGBA, error) {
		return Load(path)
	})
}

// Evict drops a cached image, forcing the next Load to re-read the file.
func (l *Loader) Evict(path string) {
	l.cache.Delete(path)
}

// Len returns the number of cached images.
func (l *Loader) Len() int {
	return l.cache.Len()
}
