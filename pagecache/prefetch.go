package pagecache

import (
	"context"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/Soumya-Chakraborty/PaperWise/internal/resource"
)

// DefaultPrefetchCount is the number of neighbors preloaded on each side of
// the current page.
const DefaultPrefetchCount = 2

// RenderFunc renders one page at the given zoom. It is supplied by the
// caller so the prefetcher stays decoupled from the document session.
type RenderFunc func(ctx context.Context, page int, zoom float64) (*image.RGBA, error)

// Prefetcher populates the cache with pages adjacent to the one just
// requested. It is strictly best effort: every failure is logged and
// swallowed, and neither its errors nor its latency ever reach the
// foreground request that triggered it.
type Prefetcher struct {
	cache  *Cache
	rc     *resource.Controller
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewPrefetcher creates a prefetcher inserting into cache, gated by rc.
// A nil logger disables prefetch logging.
func NewPrefetcher(cache *Cache, rc *resource.Controller, logger *slog.Logger) *Prefetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Prefetcher{cache: cache, rc: rc, logger: logger}
}

// Preload schedules background renders for the pages current-count..current-1
// and current+1..current+count, clamped to [0, total). Already-cached
// neighbors are skipped. The call returns immediately; rendering happens on a
// background goroutine, outside the cache lock, so a slow render never blocks
// unrelated lookups.
func (p *Prefetcher) Preload(ctx context.Context, document string, current, total int, zoom float64, count int, render RenderFunc) {
	if count <= 0 {
		count = DefaultPrefetchCount
	}

	pages := neighborPages(current, total, count)
	if len(pages) == 0 {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if err := p.rc.AcquireBackground(ctx); err != nil {
			return
		}
		defer p.rc.ReleaseBackground()

		for _, page := range pages {
			if ctx.Err() != nil {
				return
			}
			key := Key{Document: document, Page: page, Zoom: zoom}
			if p.cache.Contains(key) {
				continue
			}
			if !p.rc.AllowPrefetch() {
				continue
			}
			img, err := render(ctx, page, zoom)
			if err != nil {
				// Each neighbor is independent: one failed render must not
				// abort the others.
				p.logger.Debug("prefetch render failed", "page", page, "zoom", zoom, "error", err)
				continue
			}
			if img == nil {
				continue
			}
			p.cache.Put(key, img)
		}
	}()
}

// Wait blocks until all scheduled preloads have finished. Intended for
// shutdown and tests.
func (p *Prefetcher) Wait() {
	p.wg.Wait()
}

// neighborPages returns the prefetch candidates around current in ascending
// order, excluding current itself and anything outside [0, total).
func neighborPages(current, total, count int) []int {
	var pages []int
	for page := current - count; page <= current+count; page++ {
		if page == current || page < 0 || page >= total {
			continue
		}
		pages = append(pages, page)
	}
	return pages
}
