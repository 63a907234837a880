// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import "sync"

// deleteList is one pending-deletion list for a single resource class.
// Push is safe from any goroutine; flush drains the list while holding the
// list lock so a concurrent push never interleaves with a partial drain.
type deleteList[T any] struct {
	mu  sync.Mutex
	ids []T
}

func (l *deleteList[T]) push(id T) {
	l.mu.Lock()
	l.ids = append(l.ids, id)
	l.mu.Unlock()
}

// flush releases every queued identifier and clears the list. Iteration
// runs back to front so an entry appended mid-drain (before the lock was
// taken) is still visited in this pass.
func (l *deleteList[T]) flush(release func(T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.ids) - 1; i >= 0; i-- {
		release(l.ids[i])
	}
	l.ids = l.ids[:0]
}

func (l *deleteList[T]) empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids) == 0
}
