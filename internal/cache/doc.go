// Package cache provides a generic thread-safe LRU cache.
//
// The engine uses it to keep decoded images and other derived assets
// around between loads:
//
//	c := cache.New[string, *image.RGBA](64)
//	c.Set("hero.png", img)
//	img, ok := c.Get("hero.png")
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
