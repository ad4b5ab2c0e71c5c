package goal

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the default maximum number of compiled goals kept by
// the package cache.
const DefaultCacheSize = 256

// programs backs Compile.
var programs = NewCache(DefaultCacheSize)

// SetCacheSize resizes the package cache. Sizes below one are raised to one.
func SetCacheSize(size int) {
	programs.Resize(size)
}

// Cache is a thread-safe LRU cache of compiled expr-lang programs.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*list.Element
	lru       *list.List
	maxSize   int
	hitCount  int64
	missCount int64
}

type cacheEntry struct {
	key     string
	program *vm.Program
}

// NewCache creates a cache holding at most maxSize programs.
func NewCache(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		entries: make(map[string]*list.Element, maxSize),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Get returns the program stored under key and marks it most recently used.
func (c *Cache) Get(key string) (*vm.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		c.missCount++
		return nil, false
	}
	c.hitCount++
	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).program, true
}

// Put stores program under key, evicting the least recently used entries
// beyond capacity.
func (c *Cache) Put(key string, program *vm.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).program = program
		return
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, program: program})
	c.evict()
}

// Resize changes the capacity, evicting immediately when shrinking.
func (c *Cache) Resize(maxSize int) {
	if maxSize < 1 {
		maxSize = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = maxSize
	c.evict()
}

func (c *Cache) evict() {
	for c.lru.Len() > c.maxSize {
		elem := c.lru.Back()
		delete(c.entries, elem.Value.(*cacheEntry).key)
		c.lru.Remove(elem)
	}
}

// Clear removes every entry. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns the size and hit/miss counters.
func (c *Cache) Stats() (size int, hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len(), c.hitCount, c.missCount
}

func (c *Cache) String() string {
	size, hits, misses := c.Stats()
	return fmt.Sprintf("goal.Cache{size=%d, hits=%d, misses=%d}", size, hits, misses)
}
