// Package editor implements the interactive graph editing engine: canonical
// node/edge collections, neighborhood highlighting, the pointer-event state
// machine, context menu placement, and the session that synchronizes it all
// with a backend.
//
// The force-directed rendering engine and the UI surfaces (alerts, prompts,
// menu widgets) are consumed behind interfaces; nothing in this package
// touches a display directly.
package editor

import (
	"sync"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
)

// DataSet is an id-keyed, order-preserving collection mirroring the
// rendering engine's element store. The engine owns one for nodes and one
// for edges; they are the canonical in-memory state of the open graph.
type DataSet[T any] struct {
	mu    sync.RWMutex
	id    func(T) string
	order []string
	items map[string]T
}

// NewDataSet returns an empty collection keyed by the given id extractor.
func NewDataSet[T any](id func(T) string) *DataSet[T] {
	return &DataSet[T]{
		id:    id,
		items: make(map[string]T),
	}
}

// NewNodeSet returns a collection keyed by node id.
func NewNodeSet() *DataSet[graph.Node] {
	return NewDataSet(func(n graph.Node) string { return n.ID })
}

// NewEdgeSet returns a collection keyed by edge id.
func NewEdgeSet() *DataSet[graph.Edge] {
	return NewDataSet(func(e graph.Edge) string { return e.ID })
}

// Get returns the element with the given id.
func (s *DataSet[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// All returns the elements in insertion order.
func (s *DataSet[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// IDs returns the element ids in insertion order.
func (s *DataSet[T]) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the element count.
func (s *DataSet[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Add inserts or replaces the element under its id.
func (s *DataSet[T]) Add(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id(item)
	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = item
}

// Update replaces an existing element; it reports false when the id is
// unknown.
func (s *DataSet[T]) Update(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id(item)
	if _, exists := s.items[id]; !exists {
		return false
	}
	s.items[id] = item
	return true
}

// Remove deletes the element with the given id; it reports whether the
// element existed.
func (s *DataSet[T]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		return false
	}
	delete(s.items, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every element.
func (s *DataSet[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.items = make(map[string]T)
}

// Replace clears the collection and inserts the given elements in order.
func (s *DataSet[T]) Replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.items = make(map[string]T, len(items))
	for _, item := range items {
		id := s.id(item)
		if _, exists := s.items[id]; !exists {
			s.order = append(s.order, id)
		}
		s.items[id] = item
	}
}
