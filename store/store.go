// Package store provides a generic, thread-safe in-memory store keyed by
// string IDs. It backs the job registry and the monitoring session table.
package store

import "sync"

// Store is a thread-safe map of ID to resource.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty store.
func New[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// Get retrieves a resource by ID. Returns the resource and true if found.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	return v, ok
}

// Put stores a resource by ID, overwriting any existing value.
func (s *Store[T]) Put(id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
}

// Delete removes a resource by ID. Returns true if the resource existed.
func (s *Store[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	return ok
}

// List returns all stored resources.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]T, 0, len(s.items))
	for _, v := range s.items {
		result = append(result, v)
	}
	return result
}

// Filter returns all resources matching the predicate.
func (s *Store[T]) Filter(fn func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []T
	for _, v := range s.items {
		if fn(v) {
			result = append(result, v)
		}
	}
	return result
}

// Len returns the number of stored resources.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// PruneIf atomically removes all items matching the predicate, holding the
// write lock for the entire operation to prevent races with concurrent puts.
func (s *Store[T]) PruneIf(pred func(id string, val T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pruned []T
	for k, v := range s.items {
		if pred(k, v) {
			delete(s.items, k)
			pruned = append(pruned, v)
		}
	}
	return pruned
}
