package pagecache

import (
	"container/list"
	"image"
	"sync"
	"sync/atomic"

	"github.com/Soumya-Chakraborty/PaperWise/internal/resource"
	"github.com/Soumya-Chakraborty/PaperWise/internal/sysmem"
)

// MinCapacity is the smallest cache budget ever used: 8 MiB.
const MinCapacity = 8 << 20

// Key identifies one rendered page. Two keys are equal iff document, page and
// zoom are all equal. Zoom is compared exactly; callers are expected to use
// discrete zoom steps.
type Key struct {
	// Document is the path identity of the open document.
	Document string
	// Page is the zero-based page index.
	Page int
	// Zoom is the zoom factor the page was rendered at.
	Zoom float64
}

type entry struct {
	key  Key
	img  *image.RGBA
	size int64
}

// Cache is a bounded-memory LRU cache of rendered pages. Entry cost is the
// actual pixel footprint (width x height x 4 bytes), not a per-entry
// constant, so a handful of very large pages can fill the whole budget.
//
// A single mutex serializes all reads and mutations. Rendering never happens
// under that lock; see Prefetcher.
type Cache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[Key]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache with the given capacity in bytes. If capacity <= 0 the
// default budget is used: 10% of physical memory, floored at MinCapacity.
// Capacity is fixed for the cache's lifetime.
//
// If rc is provided, it tracks the cache's resident bitmap memory.
func New(capacity int64, rc *resource.Controller) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity()
	}
	return &Cache{
		capacity:  capacity,
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// DefaultCapacity returns max(MinCapacity, 10% of physical memory).
func DefaultCapacity() int64 {
	c := sysmem.Total() / 10
	if c < MinCapacity {
		c = MinCapacity
	}
	return c
}

// bitmapCost is the uncompressed 32-bit-per-pixel footprint of a bitmap.
func bitmapCost(img *image.RGBA) int64 {
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// Get returns the cached bitmap for key and marks it most recently used.
func (c *Cache) Get(key Key) (*image.RGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).img, true
	}
	c.misses.Add(1)
	return nil, false
}

// Put inserts a rendered page and evicts least-recently-used entries until
// the resident size is back under capacity. A bitmap larger than the whole
// capacity is not cached at all.
func (c *Cache) Put(key Key, img *image.RGBA) {
	if img == nil {
		return
	}
	cost := bitmapCost(img)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry)
		oldCost := e.size
		if cost > oldCost && !c.rc.TryAcquireMemory(cost-oldCost) {
			// Global budget denied the growth; keep the old bitmap.
			return
		}
		if cost < oldCost {
			c.rc.ReleaseMemory(oldCost - cost)
		}
		c.size += cost - oldCost
		e.img = img
		e.size = cost
		c.evict()
		return
	}

	if cost > c.capacity {
		return
	}

	// Evict first so memory is released before we acquire it back.
	for c.size+cost > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}

	if !c.rc.TryAcquireMemory(cost) {
		return
	}

	element := c.evictList.PushFront(&entry{key: key, img: img, size: cost})
	c.items[key] = element
	c.size += cost
}

// Contains reports whether key is resident. Introspection only: it does not
// touch recency order or hit/miss counters.
func (c *Cache) Contains(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// ClearDocument removes every entry whose key belongs to document. Entries
// for other documents are untouched.
func (c *Cache) ClearDocument(document string) {
	c.invalidate(func(k Key) bool { return k.Document == document })
}

// Clear evicts everything.
func (c *Cache) Clear() {
	c.invalidate(func(Key) bool { return true })
}

func (c *Cache) invalidate(predicate func(Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// removeElement mutates the list, so collect matches first.
	var toRemove []*list.Element
	for key, element := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, element)
		}
	}
	for _, e := range toRemove {
		c.removeElement(e)
	}
}

func (c *Cache) evict() {
	for c.size > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

func (c *Cache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*entry)
	delete(c.items, ent.key)
	c.size -= ent.size
	c.rc.ReleaseMemory(ent.size)
}

// Size returns the resident byte total.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// MaxSize returns the fixed capacity in bytes.
func (c *Cache) MaxSize() int64 {
	return c.capacity
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
