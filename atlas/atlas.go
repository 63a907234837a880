// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package atlas packs named source images into shared texture pages.
//
// The packer keeps each page's partition tree in a flat arena of nodes
// addressed by index, with an explicit used flag per node. Pages start at
// the size of their first source and grow to the right or downward as
// sources are added, preferring whichever direction keeps the page closer
// to square. When a source no longer fits within the maximum page size, a
// new page is started.
package atlas

import (
	"fmt"
	"image"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// Options configures a Packer.
type Options struct {
	// MaxPageSize caps page width and height, in pixels.
	MaxPageSize int
	// Padding is empty space added to the right and bottom of each
	// source, keeping bilinear samples from bleeding across neighbors.
	Padding int
}

// DefaultOptions returns the options used by New when given zero values.
func DefaultOptions() Options {
	return Options{MaxPageSize: 2048, Padding: 1}
}

// Entry locates one packed source.
type Entry struct {
	// Page indexes Result.Pages.
	Page int
	// Rect is the source's area on the page, excluding padding.
	Rect image.Rectangle
}

// Result is the output of a Pack call.
type Result struct {
	Pages   []*image.RGBA
	Entries map[string]Entry
}

// Packer accumulates named sources and packs them into pages.
type Packer struct {
	opts    Options
	sources []source
	names   map[string]bool
}

type source struct {
	name string
	img  image.Image
	w, h int
}

// New creates a packer. A MaxPageSize of 0 falls back to DefaultOptions;
// a Padding of 0 means no padding.
func New(opts Options) *Packer {
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = DefaultOptions().MaxPageSize
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	return &Packer{opts: opts, names: make(map[string]bool)}
}

// Add queues a source for packing. Adding a source larger than the
// maximum page size, or reusing a name, is a misuse and panics.
func (p *Packer) Add(name string, img image.Image) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("atlas: source %q is empty", name))
	}
	max := p.opts.MaxPageSize - p.opts.Padding
	if w > max || h > max {
		panic(fmt.Sprintf("atlas: source %q (%dx%d) exceeds max page size %d", name, w, h, p.opts.MaxPageSize))
	}
	if p.names[name] {
		panic(fmt.Sprintf("atlas: duplicate source %q", name))
	}
	p.names[name] = true
	p.sources = append(p.sources, source{name: name, img: img, w: w, h: h})
}

// Len returns the number of queued sources.
func (p *Packer) Len() int { return len(p.sources) }

// Pack places every queued source and returns the rendered pages. Sources
// are placed largest first; the result is deterministic for a given set
// of Add calls.
func (p *Packer) Pack() *Result {
	sorted := make([]source, len(p.sources))
	copy(sorted, p.sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := max(sorted[i].w, sorted[i].h), max(sorted[j].w, sorted[j].h)
		if a != b {
			return a > b
		}
		return sorted[i].name < sorted[j].name
	})

	res := &Result{Entries: make(map[string]Entry, len(sorted))}
	var pages []*page
	pad := p.opts.Padding
	for _, s := range sorted {
		w, h := s.w+pad, s.h+pad
		placed := false
		for i, pg := range pages {
			if x, y, ok := pg.insert(w, h); ok {
				res.Entries[s.name] = Entry{Page: i, Rect: image.Rect(x, y, x+s.w, y+s.h)}
				placed = true
				break
			}
		}
		if !placed {
			pg := newPage(w, h, p.opts.MaxPageSize)
			pages = append(pages, pg)
			x, y, ok := pg.insert(w, h)
			if !ok {
				panic(fmt.Sprintf("atlas: source %q does not fit an empty page", s.name))
			}
			res.Entries[s.name] = Entry{Page: len(pages) - 1, Rect: image.Rect(x, y, x+s.w, y+s.h)}
		}
	}

	res.Pages = make([]*image.RGBA, len(pages))
	for i, pg := range pages {
		res.Pages[i] = image.NewRGBA(image.Rect(0, 0, pg.w, pg.h))
	}
	for _, s := range p.sources {
		e := res.Entries[s.name]
		xdraw.Draw(res.Pages[e.Page], e.Rect, s.img, s.img.Bounds().Min, xdraw.Src)
	}
	return res
}

// noNode marks an absent child in the node arena.
const noNode = int32(-1)

// node is one cell of a page's partition tree. Children are arena
// indices, not pointers, so a page's whole tree lives in one slice.
type node struct {
	x, y, w, h  int
	used        bool
	right, down int32
}

type page struct {
	nodes   []node
	root    int32
	w, h    int
	maxSize int
}

func newPage(w, h, maxSize int) *page {
	pg := &page{root: 0, w: w, h: h, maxSize: maxSize}
	pg.nodes = append(pg.nodes, node{w: w, h: h, right: noNode, down: noNode})
	return pg
}

func (p *page) alloc(n node) int32 {
	p.nodes = append(p.nodes, n)
	return int32(len(p.nodes) - 1)
}

// insert places a w-by-h block, growing the page if needed. Returns the
// block's origin, or ok=false when the page cannot take it.
func (p *page) insert(w, h int) (x, y int, ok bool) {
	if idx := p.find(p.root, w, h); idx != noNode {
		n := p.split(idx, w, h)
		return n.x, n.y, true
	}
	if idx := p.grow(w, h); idx != noNode {
		n := p.split(idx, w, h)
		return n.x, n.y, true
	}
	return 0, 0, false
}

// find walks the tree for a free node of at least w by h.
func (p *page) find(idx int32, w, h int) int32 {
	if idx == noNode {
		return noNode
	}
	n := &p.nodes[idx]
	if n.used {
		if r := p.find(n.right, w, h); r != noNode {
			return r
		}
		return p.find(n.down, w, h)
	}
	if w <= n.w && h <= n.h {
		return idx
	}
	return noNode
}

// split marks a free node used for a w-by-h block and carves the leftover
// space into down and right children.
func (p *page) split(idx int32, w, h int) node {
	n := p.nodes[idx]
	down := p.alloc(node{
		x: n.x, y: n.y + h,
		w: n.w, h: n.h - h,
		right: noNode, down: noNode,
	})
	right := p.alloc(node{
		x: n.x + w, y: n.y,
		w: n.w - w, h: h,
		right: noNode, down: noNode,
	})
	// alloc may have moved the arena; re-index.
	p.nodes[idx].used = true
	p.nodes[idx].down = down
	p.nodes[idx].right = right
	return p.nodes[idx]
}

// grow extends the page right or down by a w-by-h strip and returns the
// free node covering it. The direction keeping the page closest to square
// wins; growth never exceeds maxSize.
func (p *page) grow(w, h int) int32 {
	canGrowRight := h <= p.h && p.w+w <= p.maxSize
	canGrowDown := w <= p.w && p.h+h <= p.maxSize

	preferRight := canGrowRight && p.h >= p.w+w
	preferDown := canGrowDown && p.w >= p.h+h

	switch {
	case preferRight:
		return p.growRight(w)
	case preferDown:
		return p.growDown(h)
	case canGrowRight:
		return p.growRight(w)
	case canGrowDown:
		return p.growDown(h)
	}
	return noNode
}

func (p *page) growRight(w int) int32 {
	strip := p.alloc(node{
		x: p.w, y: 0,
		w: w, h: p.h,
		right: noNode, down: noNode,
	})
	root := p.alloc(node{
		w: p.w + w, h: p.h,
		used:  true,
		down:  p.root,
		right: strip,
	})
	p.root = root
	p.w += w
	return strip
}

func (p *page) growDown(h int) int32 {
	strip := p.alloc(node{
		x: 0, y: p.h,
		w: p.w, h: h,
		right: noNode, down: noNode,
	})
	root := p.alloc(node{
		w: p.w, h: p.h + h,
		used:  true,
		down:  strip,
		right: p.root,
	})
	p.root = root
	p.h += h
	return strip
}
