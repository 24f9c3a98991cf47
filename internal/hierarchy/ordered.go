package hierarchy

// orderedMap is a map that remembers key insertion order.
type orderedMap[V any] struct {
	index map[int64]int
	items []V
}

func newOrderedMap[V any]() orderedMap[V] {
	return orderedMap[V]{index: make(map[int64]int)}
}

// getOrCreate returns the value stored under key, calling create on first sight.
// The second result is true when the value was created by this call.
func (m *orderedMap[V]) getOrCreate(key int64, create func() V) (V, bool) {
	if i, ok := m.index[key]; ok {
		return m.items[i], false
	}
	v := create()
	m.index[key] = len(m.items)
	m.items = append(m.items, v)
	return v, true
}

func (m *orderedMap[V]) get(key int64) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.items[i], true
}

func (m *orderedMap[V]) len() int {
	return len(m.items)
}

// values returns a copy of the values in insertion order.
func (m *orderedMap[V]) values() []V {
	out := make([]V, len(m.items))
	copy(out, m.items)
	return out
}
