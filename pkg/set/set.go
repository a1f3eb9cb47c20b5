// Package set provides a minimal generic set used by the engine for
// membership bookkeeping.
package set

import "iter"

type Set[T comparable] map[T]struct{}

func New[T comparable](items ...T) Set[T] {
	s := make(Set[T])
	s.Add(items...)
	return s
}

// Add adds items to the set.
func (s Set[T]) Add(items ...T) {
	for _, item := range items {
		s[item] = struct{}{}
	}
}

// Remove removes an item from the set.
func (s Set[T]) Remove(item T) {
	delete(s, item)
}

// Contains checks if an item exists in the set.
func (s Set[T]) Contains(item T) bool {
	_, exists := s[item]
	return exists
}

// Size returns the number of items in the set.
func (s Set[T]) Size() int {
	return len(s)
}

// Clear removes all items from the set.
func (s Set[T]) Clear() {
	for k := range s {
		delete(s, k)
	}
}

// Items returns all items in the set as a sequence.
func (s Set[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range s {
			if !yield(item) {
				return
			}
		}
	}
}
