package store

import (
	"sync"

	"github.com/tidwall/btree"

	"github.com/tbourn/go-qa-backend/internal/apperr"
	"github.com/tbourn/go-qa-backend/internal/pagination"
)

// collection is one independently locked record set.
//
// Rows are kept in a B-tree keyed by an insertion sequence that only grows,
// so iteration order is insertion order and positional access is O(log n).
// index maps record ids to their sequence key.
//
// Every method is a single critical section: readers take mu.RLock, writers
// take mu.Lock, and nothing blocks on I/O while holding either.
type collection[T any] struct {
	name  string
	clone func(T) T

	mu    sync.RWMutex
	seq   uint64
	rows  *btree.Map[uint64, T]
	index map[string]uint64
}

func newCollection[T any](name string, clone func(T) T) *collection[T] {
	return &collection[T]{
		name:  name,
		clone: clone,
		rows:  btree.NewMap[uint64, T](0),
		index: make(map[string]uint64),
	}
}

// insert assigns a fresh id from newID (retrying on collision with a live
// record), stores build(id), and returns a copy of what was stored.
func (c *collection[T]) insert(newID func() string, build func(id string) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := newID()
	for {
		if _, taken := c.index[id]; !taken {
			break
		}
		id = newID()
	}

	c.seq++
	v := build(id)
	c.rows.Set(c.seq, v)
	c.index[id] = c.seq
	recordsDelta(c.name, 1)
	return c.clone(v)
}

func (c *collection[T]) get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seq, ok := c.index[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(c.name, id)
	}
	v, _ := c.rows.Get(seq)
	return c.clone(v), nil
}

// replace swaps the record stored under id for build(id). The record keeps
// its position. build runs under the write lock and must not block.
func (c *collection[T]) replace(id string, build func(id string) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	seq, ok := c.index[id]
	if !ok {
		return zero, apperr.NotFound(c.name, id)
	}
	v, err := build(id)
	if err != nil {
		return zero, err
	}
	c.rows.Set(seq, v)
	return c.clone(v), nil
}

func (c *collection[T]) remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq, ok := c.index[id]
	if !ok {
		return apperr.NotFound(c.name, id)
	}
	c.rows.Delete(seq)
	delete(c.index, id)
	recordsDelta(c.name, -1)
	return nil
}

// slice returns copies of the records inside rng, or all of them when rng
// is nil. The result is never nil.
func (c *collection[T]) slice(rng *pagination.Range) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if rng == nil {
		out := make([]T, 0, c.rows.Len())
		c.rows.Scan(func(_ uint64, v T) bool {
			out = append(out, c.clone(v))
			return true
		})
		return out
	}

	lo, hi := rng.Bounds(c.rows.Len())
	out := make([]T, 0, hi-lo)
	for i := lo; i < hi; i++ {
		_, v, ok := c.rows.GetAt(i)
		if !ok {
			break
		}
		out = append(out, c.clone(v))
	}
	return out
}

// filter returns copies of the records matching keep, in insertion order.
func (c *collection[T]) filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []T{}
	c.rows.Scan(func(_ uint64, v T) bool {
		if keep(v) {
			out = append(out, c.clone(v))
		}
		return true
	})
	return out
}

func (c *collection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rows.Len()
}
