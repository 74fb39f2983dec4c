package pagecache

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Soumya-Chakraborty/PaperWise/internal/resource"
)

// bitmap returns an RGBA image costing exactly w*h*4 bytes.
func bitmap(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func key(doc string, page int) Key {
	return Key{Document: doc, Page: page, Zoom: 1.0}
}

func TestCache_GetPut(t *testing.T) {
	c := New(1<<20, nil)

	img := bitmap(10, 10)
	c.Put(key("a.pdf", 0), img)

	got, ok := c.Get(key("a.pdf", 0))
	require.True(t, ok)
	assert.Same(t, img, got)
	assert.Equal(t, int64(400), c.Size())

	_, ok = c.Get(key("a.pdf", 1))
	assert.False(t, ok)

	// Same path and page at another zoom is a different key.
	_, ok = c.Get(Key{Document: "a.pdf", Page: 0, Zoom: 2.0})
	assert.False(t, ok)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	// Room for two 10x10 bitmaps (400 bytes each), not three.
	c := New(1000, nil)

	c.Put(key("a.pdf", 0), bitmap(10, 10))
	c.Put(key("a.pdf", 1), bitmap(10, 10))

	// Touch page 0 so page 1 is now the least recently used.
	_, ok := c.Get(key("a.pdf", 0))
	require.True(t, ok)

	c.Put(key("a.pdf", 2), bitmap(10, 10))

	_, ok = c.Get(key("a.pdf", 1))
	assert.False(t, ok, "page 1 should have been evicted")
	assert.True(t, c.Contains(key("a.pdf", 0)))
	assert.True(t, c.Contains(key("a.pdf", 2)))
}

func TestCache_SizeNeverExceedsCapacity(t *testing.T) {
	const capacity = 10000
	c := New(capacity, nil)

	for i := 0; i < 50; i++ {
		c.Put(key("a.pdf", i), bitmap(10+i, 10+i))
		assert.LessOrEqual(t, c.Size(), int64(capacity), "after put %d", i)
	}
	assert.Greater(t, c.Len(), 0)
}

func TestCache_OversizedBitmapNotCached(t *testing.T) {
	c := New(1000, nil)
	c.Put(key("a.pdf", 0), bitmap(100, 100)) // 40000 bytes > 1000

	assert.False(t, c.Contains(key("a.pdf", 0)))
	assert.Equal(t, int64(0), c.Size())
}

func TestCache_ByteAccountedNotEntryCounted(t *testing.T) {
	// A single large page can fill a cache that would hold many small ones.
	c := New(4096, nil)

	c.Put(key("a.pdf", 0), bitmap(32, 32)) // 4096 bytes, exactly full
	require.True(t, c.Contains(key("a.pdf", 0)))

	c.Put(key("a.pdf", 1), bitmap(1, 1))
	assert.False(t, c.Contains(key("a.pdf", 0)), "large page evicted by any further insert")
	assert.True(t, c.Contains(key("a.pdf", 1)))
}

func TestCache_UpdateExistingKey(t *testing.T) {
	c := New(1<<20, nil)

	c.Put(key("a.pdf", 0), bitmap(10, 10))
	c.Put(key("a.pdf", 0), bitmap(20, 20))

	got, ok := c.Get(key("a.pdf", 0))
	require.True(t, ok)
	assert.Equal(t, 20, got.Bounds().Dx())
	assert.Equal(t, int64(1600), c.Size())
	assert.Equal(t, 1, c.Len())
}

func TestCache_ClearDocument(t *testing.T) {
	c := New(1<<20, nil)

	for i := 0; i < 3; i++ {
		c.Put(key("a.pdf", i), bitmap(10, 10))
		c.Put(key("b.pdf", i), bitmap(10, 10))
	}

	c.ClearDocument("a.pdf")

	for i := 0; i < 3; i++ {
		assert.False(t, c.Contains(key("a.pdf", i)))
		assert.True(t, c.Contains(key("b.pdf", i)))
	}
	assert.Equal(t, int64(3*400), c.Size())
}

func TestCache_Clear(t *testing.T) {
	c := New(1<<20, nil)
	for i := 0; i < 5; i++ {
		c.Put(key("a.pdf", i), bitmap(10, 10))
	}

	c.Clear()

	assert.Equal(t, int64(0), c.Size())
	assert.Equal(t, 0, c.Len())
}

func TestCache_ContainsHasNoSideEffects(t *testing.T) {
	c := New(1000, nil)

	c.Put(key("a.pdf", 0), bitmap(10, 10))
	c.Put(key("a.pdf", 1), bitmap(10, 10))

	// Contains must not refresh recency: page 0 stays least recently used.
	require.True(t, c.Contains(key("a.pdf", 0)))

	c.Put(key("a.pdf", 2), bitmap(10, 10))
	assert.False(t, c.Contains(key("a.pdf", 0)))

	hits, misses := c.Stats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(0), misses)
}

func TestCache_DefaultCapacityFloor(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultCapacity(), int64(MinCapacity))

	c := New(0, nil)
	assert.GreaterOrEqual(t, c.MaxSize(), int64(MinCapacity))
}

func TestCache_ResourceControllerTracking(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	c := New(1000, rc)

	c.Put(key("a.pdf", 0), bitmap(10, 10))
	assert.Equal(t, int64(400), rc.MemoryUsage())

	c.Clear()
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestCache_GlobalMemoryLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 500})
	c := New(10000, rc)

	c.Put(key("a.pdf", 0), bitmap(10, 10)) // 400 bytes, fits
	require.True(t, c.Contains(key("a.pdf", 0)))

	// 400 more would exceed the 500-byte global budget.
	c.Put(key("a.pdf", 1), bitmap(10, 10))
	assert.False(t, c.Contains(key("a.pdf", 1)))
}

func TestCache_Stats(t *testing.T) {
	c := New(1<<20, nil)
	c.Put(key("a.pdf", 0), bitmap(10, 10))

	c.Get(key("a.pdf", 0))
	c.Get(key("a.pdf", 1))

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCache_ManyDocuments(t *testing.T) {
	c := New(1<<20, nil)
	for d := 0; d < 4; d++ {
		for p := 0; p < 4; p++ {
			c.Put(key(fmt.Sprintf("doc-%d.pdf", d), p), bitmap(4, 4))
		}
	}
	require.Equal(t, 16, c.Len())

	c.ClearDocument("doc-2.pdf")
	assert.Equal(t, 12, c.Len())
}
