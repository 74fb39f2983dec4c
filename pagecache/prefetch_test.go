package pagecache

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Soumya-Chakraborty/PaperWise/internal/resource"
)

// countingRenderer records which pages it rendered and can fail selectively.
type countingRenderer struct {
	mu    sync.Mutex
	pages []int
	fail  map[int]error
}

func (r *countingRenderer) render(_ context.Context, page int, _ float64) (*image.RGBA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[page]; err != nil {
		return nil, err
	}
	r.pages = append(r.pages, page)
	return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
}

func (r *countingRenderer) rendered() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.pages...)
}

func newPrefetcher(t *testing.T) (*Cache, *Prefetcher) {
	t.Helper()
	c := New(1<<20, nil)
	return c, NewPrefetcher(c, resource.NewController(resource.Config{}), nil)
}

func TestPrefetcher_LoadsNeighbors(t *testing.T) {
	c, p := newPrefetcher(t)
	r := &countingRenderer{}

	p.Preload(context.Background(), "a.pdf", 5, 10, 1.0, 2, r.render)
	p.Wait()

	assert.ElementsMatch(t, []int{3, 4, 6, 7}, r.rendered())
	for _, page := range []int{3, 4, 6, 7} {
		assert.True(t, c.Contains(key("a.pdf", page)), "page %d", page)
	}
	assert.False(t, c.Contains(key("a.pdf", 5)), "current page is the caller's job")
}

func TestPrefetcher_ClampsToDocument(t *testing.T) {
	_, p := newPrefetcher(t)
	r := &countingRenderer{}

	p.Preload(context.Background(), "a.pdf", 0, 10, 1.0, 2, r.render)
	p.Wait()
	assert.ElementsMatch(t, []int{1, 2}, r.rendered())

	r2 := &countingRenderer{}
	p.Preload(context.Background(), "a.pdf", 9, 10, 1.0, 2, r2.render)
	p.Wait()
	assert.ElementsMatch(t, []int{7, 8}, r2.rendered())
}

func TestPrefetcher_SinglePageDocument(t *testing.T) {
	_, p := newPrefetcher(t)
	r := &countingRenderer{}

	p.Preload(context.Background(), "a.pdf", 0, 1, 1.0, 2, r.render)
	p.Wait()
	assert.Empty(t, r.rendered())
}

func TestPrefetcher_SkipsCachedPages(t *testing.T) {
	c, p := newPrefetcher(t)
	c.Put(key("a.pdf", 4), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	c.Put(key("a.pdf", 6), image.NewRGBA(image.Rect(0, 0, 10, 10)))

	r := &countingRenderer{}
	p.Preload(context.Background(), "a.pdf", 5, 10, 1.0, 2, r.render)
	p.Wait()

	assert.ElementsMatch(t, []int{3, 7}, r.rendered())
}

func TestPrefetcher_NeighborFailureDoesNotAbortOthers(t *testing.T) {
	c, p := newPrefetcher(t)
	r := &countingRenderer{fail: map[int]error{4: errors.New("render blew up")}}

	p.Preload(context.Background(), "a.pdf", 5, 10, 1.0, 2, r.render)
	p.Wait()

	assert.ElementsMatch(t, []int{3, 6, 7}, r.rendered())
	assert.False(t, c.Contains(key("a.pdf", 4)))
	assert.True(t, c.Contains(key("a.pdf", 7)))
}

func TestPrefetcher_CanceledContext(t *testing.T) {
	_, p := newPrefetcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &countingRenderer{}
	p.Preload(ctx, "a.pdf", 5, 10, 1.0, 2, r.render)
	p.Wait()

	assert.Empty(t, r.rendered())
}

func TestNeighborPages(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		count   int
		want    []int
	}{
		{"middle", 5, 10, 2, []int{3, 4, 6, 7}},
		{"start", 0, 10, 2, []int{1, 2}},
		{"end", 9, 10, 2, []int{7, 8}},
		{"near start", 1, 10, 2, []int{0, 2, 3}},
		{"single page", 0, 1, 2, nil},
		{"count one", 5, 10, 1, []int{4, 6}},
		{"empty document", 0, 0, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, neighborPages(tt.current, tt.total, tt.count))
		})
	}
}

func TestPrefetcher_RateLimitSkipsNotQueues(t *testing.T) {
	c := New(1<<20, nil)
	rc := resource.NewController(resource.Config{PrefetchPagesPerSecond: 1})
	p := NewPrefetcher(c, rc, nil)

	r := &countingRenderer{}
	p.Preload(context.Background(), "a.pdf", 5, 10, 1.0, 2, r.render)
	p.Wait()

	// The limiter admits at least the initial burst; throttled neighbors are
	// skipped rather than delaying completion.
	require.NotEmpty(t, r.rendered())
	assert.Less(t, len(r.rendered()), 4)
}
