package embedding

import (
	"container/list"
	"sync"
)

// VectorCache is a bounded LRU of text embeddings. Vectors are copied on the
// way in and out, so an index built from cached vectors never shares memory
// with the cache or with another index.
type VectorCache struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List

	mu     sync.Mutex
	hits   int64
	misses int64
}

type cached struct {
	text string
	vec  []float32
}

// CacheStats counts lookups since the cache was created.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewVectorCache creates a cache holding at most capacity vectors.
func NewVectorCache(capacity int) *VectorCache {
	return &VectorCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

// Get returns a copy of the vector cached for text and marks it recently used.
func (c *VectorCache) Get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[text]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(elem)
	return clone(elem.Value.(*cached).vec), true
}

// Put caches a copy of vec for text, evicting the least recently used
// vector when full.
func (c *VectorCache) Put(text string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[text]; ok {
		elem.Value.(*cached).vec = clone(vec)
		c.order.MoveToFront(elem)
		return
	}
	c.items[text] = c.order.PushFront(&cached{text: text, vec: clone(vec)})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cached).text)
	}
}

// Len returns the number of cached vectors.
func (c *VectorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns the entry count and lookup counters.
func (c *VectorCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Entries: c.order.Len(), Hits: c.hits, Misses: c.misses}
}
