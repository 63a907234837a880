// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scene is a minimal entity/component layer.
//
// A World owns entities in insertion order; each entity carries a
// transform and a list of components updated once per frame. Spawning and
// destroying during an update is safe: structural changes are deferred to
// the end of the running Update call, so iteration order never shifts
// underfoot.
//
// World is not safe for concurrent use; drive it from one goroutine.
package scene

import (
	"fmt"

	"github.com/gogpu/glint/transform"
)

// Component is per-entity behavior stepped by World.Update.
type Component interface {
	Update(e *Entity, dt float64)
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(e *Entity, dt float64)

// Update calls f.
func (f ComponentFunc) Update(e *Entity, dt float64) { f(e, dt) }

// Entity is one named object in a World.
type Entity struct {
	world      *World
	name       string
	transform  *transform.Transform
	components []Component
	dead       bool
}

// Name returns the entity's name.
func (e *Entity) Name() string { return e.name }

// Transform returns the entity's transform.
func (e *Entity) Transform() *transform.Transform { return e.transform }

// Alive reports whether the entity is still in its world.
func (e *Entity) Alive() bool { return !e.dead }

// Attach adds a component. Components update in attach order.
func (e *Entity) Attach(c Component) *Entity {
	if c == nil {
		panic("scene: Attach(nil)")
	}
	e.components = append(e.components, c)
	return e
}

// Detach removes a previously attached component. Returns false if the
// component was not attached. Detach compares by interface equality, so
// ComponentFunc values cannot be detached.
func (e *Entity) Detach(c Component) bool {
	if _, ok := c.(ComponentFunc); ok {
		return false
	}
	for i, have := range e.components {
		if have == c {
			e.components = append(e.components[:i], e.components[i+1:]...)
			return true
		}
	}
	return false
}

// Destroy removes the entity from its world. During an Update the removal
// takes effect when the update finishes; Alive reports false immediately
// and the entity's remaining components are skipped.
func (e *Entity) Destroy() {
	if e.dead {
		return
	}
	e.dead = true
	e.world.remove(e)
}

// World owns a set of entities and steps them.
type World struct {
	entities []*Entity
	// version is incremented on every structural change, for callers
	// caching iteration results.
	version uint64

	updating       bool
	pendingSpawns  []*Entity
	pendingRemoves []*Entity
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{}
}

// Version returns a counter that changes whenever entities are added or
// removed.
func (w *World) Version() uint64 { return w.version }

// Len returns the number of live entities.
func (w *World) Len() int { return len(w.entities) }

// Spawn creates an entity. During an Update the entity exists immediately
// but joins iteration when the update finishes.
func (w *World) Spawn(name string) *Entity {
	e := &Entity{world: w, name: name, transform: transform.New()}
	if w.updating {
		w.pendingSpawns = append(w.pendingSpawns, e)
		return e
	}
	w.entities = append(w.entities, e)
	w.version++
	return e
}

// Find returns the first entity with the given name, or nil.
func (w *World) Find(name string) *Entity {
	for _, e := range w.entities {
		if e.name == name && !e.dead {
			return e
		}
	}
	return nil
}

// Each calls f for every live entity in insertion order.
func (w *World) Each(f func(e *Entity)) {
	for _, e := range w.entities {
		if !e.dead {
			f(e)
		}
	}
}

// Update steps every component of every live entity in insertion order,
// then applies spawns and removals requested during the step. Nested
// Update calls are a misuse and panic.
func (w *World) Update(dt float64) {
	if w.updating {
		panic("scene: Update called from within Update")
	}
	w.updating = true
	for _, e := range w.entities {
		for _, c := range e.components {
			if e.dead {
				break
			}
			c.Update(e, dt)
		}
	}
	w.updating = false
	w.applyPending()
}

func (w *World) remove(e *Entity) {
	if w.updating {
		w.pendingRemoves = append(w.pendingRemoves, e)
		return
	}
	w.removeNow(e)
}

func (w *World) removeNow(e *Entity) {
	for i, have := range w.entities {
		if have == e {
			w.entities = append(w.entities[:i], w.entities[i+1:]...)
			w.version++
			return
		}
	}
}

func (w *World) applyPending() {
	for _, e := range w.pendingRemoves {
		w.removeNow(e)
	}
	w.pendingRemoves = w.pendingRemoves[:0]
	for _, e := range w.pendingSpawns {
		if e.dead {
			continue
		}
		w.entities = append(w.entities, e)
		w.version++
	}
	w.pendingSpawns = w.pendingSpawns[:0]
}

// String summarizes the world for debugging.
func (w *World) String() string {
	return fmt.Sprintf("World(%d entities, v%d)", len(w.entities), w.version)
}
