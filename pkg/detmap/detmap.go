// Package detmap provides a map with deterministic, canonically sorted
// iteration order. Ledger code must never walk a native Go map: iteration
// order leaks into events, payouts and exported state.
package detmap

import (
	"cmp"
	"sort"
)

// Map is a deterministic map with lazy key sorting.
type Map[K cmp.Ordered, V any] struct {
	data   map[K]V
	keys   []K
	sorted bool
}

// New creates an initialized Map.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{
		data:   make(map[K]V),
		sorted: true,
	}
}

// Set inserts or updates a key/value pair. Inserting a new key invalidates
// the sort order.
func (m *Map[K, V]) Set(key K, value V) {
	if _, exists := m.data[key]; !exists {
		m.keys = append(m.keys, key)
		m.sorted = false
	}
	m.data[key] = value
}

// Get retrieves a value by key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

func (m *Map[K, V]) ensureSorted() {
	if m.sorted {
		return
	}
	sort.Slice(m.keys, func(i, j int) bool {
		return m.keys[i] < m.keys[j]
	})
	m.sorted = true
}

// Keys returns all keys in canonical sorted order.
func (m *Map[K, V]) Keys() []K {
	m.ensureSorted()

	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range iterates in canonical sorted order. Returning false from fn stops
// the iteration.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	m.ensureSorted()

	for _, k := range m.keys {
		if !fn(k, m.data[k]) {
			return
		}
	}
}

// RangeErr iterates in canonical sorted order. An error from fn stops the
// iteration and is returned.
func (m *Map[K, V]) RangeErr(fn func(key K, value V) error) error {
	m.ensureSorted()

	for _, k := range m.keys {
		if err := fn(k, m.data[k]); err != nil {
			return err
		}
	}

	return nil
}
