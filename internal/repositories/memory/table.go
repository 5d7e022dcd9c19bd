// Package memory is an in-process datastore implementing the repository ports.
// It backs STORAGE_DRIVER=memory and the service tests.
package memory

import "sync"

// Table is a keyed row store that remembers insertion order.
// Values are stored and returned by copy.
type Table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	order []string
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{rows: make(map[string]T)}
}

// Get returns the row stored under id.
func (t *Table[T]) Get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// Insert adds a row. It reports false, leaving the table unchanged, if id is taken.
func (t *Table[T]) Insert(id string, v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; exists {
		return false
	}
	t.rows[id] = v
	t.order = append(t.order, id)
	return true
}

// Update replaces an existing row. It reports false if id is unknown.
func (t *Table[T]) Update(id string, v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		return false
	}
	t.rows[id] = v
	return true
}

// Delete removes a row. It reports whether the row existed.
func (t *Table[T]) Delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		return false
	}
	delete(t.rows, id)
	for i, key := range t.order {
		if key == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Scan visits rows in insertion order until fn returns false.
// fn must not call back into the table.
func (t *Table[T]) Scan(fn func(id string, v T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		if !fn(id, t.rows[id]) {
			return
		}
	}
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
