package inventory

import (
	"maps"
	"slices"
)

// table is one entity collection. Ids come from a counter bumped once per
// insert, so they are never reused after a delete and ascending id order is
// insertion order.
type table[T any] struct {
	rows   map[int64]T
	lastID int64
	withID func(T, int64) T
}

func newTable[T any](withID func(T, int64) T) *table[T] {
	return &table[T]{rows: make(map[int64]T), withID: withID}
}

func (t *table[T]) insert(v T) T {
	t.lastID++
	v = t.withID(v, t.lastID)
	t.rows[t.lastID] = v
	return v
}

func (t *table[T]) get(id int64) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

// replace stores v under an existing id, forcing the id back in case v carries another.
func (t *table[T]) replace(id int64, v T) T {
	v = t.withID(v, id)
	t.rows[id] = v
	return v
}

func (t *table[T]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.rows))
	for _, id := range slices.Sorted(maps.Keys(t.rows)) {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) len() int { return len(t.rows) }
