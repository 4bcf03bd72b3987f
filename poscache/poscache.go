// Package poscache provides a bounded, least-recently-used cache from FEN
// string to a parsed chess.Position, avoiding repeated FEN parsing (and its
// from-scratch Zobrist-key and check-state computation) for positions a caller revisits,
// e.g. transposition lookups in an opening book or PGN replay tool.
package poscache

import (
	"container/list"
	"sync"

	chess "github.com/mhouppin/libchessutil"
)

type entry struct {
	fen string
	pos *chess.Position
}

// Cache is a fixed-capacity FEN-to-Position cache, safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	index    map[string]*list.Element
}

// New returns a Cache holding at most capacity entries. capacity <= 0 means
// unbounded (eviction never triggers).
func New(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get returns the cached Position for fen, parsing and inserting it on a
// miss. The returned Position is the cache's own copy's root snapshot
// (CopyRoot) so a caller mutating it via Push cannot corrupt the cached
// entry for other callers.
func (c *Cache) Get(fen string) (*chess.Position, error) {
	c.mu.Lock()
	if el, ok := c.index[fen]; ok {
		c.ll.MoveToFront(el)
		pos := el.Value.(*entry).pos
		c.mu.Unlock()
		return pos.CopyRoot(), nil
	}
	c.mu.Unlock()

	pos, err := chess.ParseFEN(fen)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[fen]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*entry).pos.CopyRoot(), nil
	}
	el := c.ll.PushFront(&entry{fen: fen, pos: pos})
	c.index[fen] = el
	c.evictIfNeeded()
	return pos.CopyRoot(), nil
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) evictIfNeeded() {
	if c.capacity <= 0 {
		return
	}
	for c.ll.Len() > c.capacity {
		back := c.ll.Back()
		if back == nil {
			return
		}
		c.ll.Remove(back)
		delete(c.index, back.Value.(*entry).fen)
	}
}
