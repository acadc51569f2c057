// Package cell provides observable current-value cells and cancellable task handles
// used by the long-lived resolver, branding and guard services.
package cell

import "sync"

// Cell holds a current value and notifies subscribers on every Set.
type Cell[T any] struct {
	mu    sync.RWMutex
	value T
	subs  map[int]func(T)
	next  int
}

// New returns a cell seeded with initial.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and synchronously notifies subscribers in registration order.
// Subscribers must not call Set on the same cell.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	fns := make([]func(T), 0, len(c.subs))
	for i := 0; i < c.next; i++ {
		if fn, ok := c.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn and returns the function that removes it. The unsubscribe
// func is idempotent.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Subscribers reports how many subscriptions are live.
func (c *Cell[T]) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
