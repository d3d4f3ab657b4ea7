package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Counters is a keyed set of atomic counters
// Key creation takes the mutex; increments on a cached pointer are lock-free
type Counters struct {
	mu    sync.RWMutex
	items map[string]*atomic.Int64
}

func NewCounters() *Counters {
	return &Counters{items: make(map[string]*atomic.Int64)}
}

// Get returns the counter for key, creating it on first use
func (c *Counters) Get(key string) *atomic.Int64 {
	c.mu.RLock()
	ptr, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return ptr
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ptr, ok := c.items[key]; ok {
		return ptr
	}
	ptr = new(atomic.Int64)
	c.items[key] = ptr
	return ptr
}

// Inc adds one to key
func (c *Counters) Inc(key string) {
	c.Get(key).Add(1)
}

// Range visits counters in sorted key order
func (c *Counters) Range(fn func(key string, value int64)) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, c.items[k].Load())
	}
}

func (c *Counters) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
