package engine

import "sync"

// Ring is a generic, thread-safe, fixed-capacity circular buffer. The
// engine uses it to keep recent cycle durations for health reporting.
type Ring[T any] struct {
	mu    sync.RWMutex
	items []T
	head  int
	count int
}

// NewRing creates a Ring with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{items: make([]T, capacity)}
}

// Push inserts an item, overwriting the oldest if the ring is full.
func (r *Ring[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.head] = item
	r.head = (r.head + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

// Len returns the number of items currently held.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// All returns the items in order from oldest to newest.
func (r *Ring[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, r.count)
	start := 0
	if r.count == len(r.items) {
		start = r.head
	}
	for i := 0; i < r.count; i++ {
		out[i] = r.items[(start+i)%len(r.items)]
	}
	return out
}

// Last returns the most recently pushed item.
func (r *Ring[T]) Last() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.items[(r.head-1+len(r.items))%len(r.items)], true
}
