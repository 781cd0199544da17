package spec

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// OrderedMap is a string-keyed map that remembers insertion order. It
// encodes to a YAML mapping in that order.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: map[string]V{}}
}

// Set inserts or replaces key. Replacing keeps the original position.
func (m *OrderedMap[V]) Set(key string, v V) {
	if m.values == nil {
		m.values = map[string]V{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored for key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries; a nil map has none.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Each calls fn for every entry in insertion order.
func (m *OrderedMap[V]) Each(fn func(key string, v V)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// MarshalYAML implements yaml.Marshaler.
func (m *OrderedMap[V]) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	var err error
	m.Each(func(k string, v V) {
		if err != nil {
			return
		}
		var vn yaml.Node
		if encErr := vn.Encode(v); encErr != nil {
			err = fmt.Errorf("encode %q: %w", k, encErr)
			return
		}
		n.Content = append(n.Content, stringNode(k), &vn)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func stringNode(s string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(s)
	return n
}
