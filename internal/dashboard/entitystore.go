package dashboard

import "sync"

// EntityStore holds the last-known-complete snapshot of one entity
// collection. The only mutation is a full replace: partial patches would risk
// merging stale rows, a whole-slice swap cannot.
type EntityStore[T any] struct {
	mu    sync.RWMutex
	items []T
}

// Replace atomically swaps the entire collection.
func (s *EntityStore[T]) Replace(items []T) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// Current returns the latest snapshot. Callers must not modify the returned
// slice; a replace never mutates a previously returned one.
func (s *EntityStore[T]) Current() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}
