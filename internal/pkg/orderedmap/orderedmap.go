// Package orderedmap provides a map that iterates in insertion order.
package orderedmap

import "iter"

// Map is a map whose iteration order is the order keys were first inserted.
// Overwriting an existing key keeps its original position.
// The zero value is not usable; use New.
type Map[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{values: make(map[K]V)}
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map[K, V]) Set(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// GetOrCreate returns the value stored under key, storing the result of create first
// if the key is absent.
func (m *Map[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := m.values[key]; ok {
		return v
	}
	v := create()
	m.Set(key, v)
	return v
}

func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates key/value pairs in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}
