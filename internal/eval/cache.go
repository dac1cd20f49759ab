package eval

import (
	"sync"

	"github.com/sawpanic/tradebias/internal/column"
)

// DefaultCacheCapacity bounds the indicator cache before it clears itself.
const DefaultCacheCapacity = 4096

// Cache memoizes indicator evaluations keyed by the AST node's structural
// signature. Only indicator results are cached; primitives are cheap
// enough that recomputation is cheaper than a map lookup plus the
// signature string build they'd require. The cache is single-writer in
// spirit — one evaluation pass at a time — but guarded anyway since the
// evolution loop may one day evaluate a generation's individuals
// concurrently.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]column.Column
	hits     int64
	misses   int64
}

// NewCache returns an empty cache bounded at capacity entries. capacity <=
// 0 falls back to DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{capacity: capacity, entries: make(map[string]column.Column)}
}

func (c *Cache) get(signature string) (column.Column, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[signature]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

func (c *Cache) put(signature string, v column.Column) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.capacity {
		c.entries = make(map[string]column.Column)
	}
	c.entries[signature] = v
}

// Stats reports cumulative hit/miss counts, for telemetry.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Reset clears all entries and counters. Used between backtests over
// different frames, since a signature computed against one frame is
// meaningless against another.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]column.Column)
	c.hits, c.misses = 0, 0
}
