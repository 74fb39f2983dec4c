package paperwise

import (
	"context"
	"image"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/Soumya-Chakraborty/PaperWise/document"
	"github.com/Soumya-Chakraborty/PaperWise/internal/resource"
	"github.com/Soumya-Chakraborty/PaperWise/pagecache"
	"github.com/Soumya-Chakraborty/PaperWise/search"
)

// Viewer composes the document session, page cache, prefetcher and search
// engine behind the surface a presentation layer consumes. It is the
// composition root: nothing in this module is package-level state.
//
// All methods are safe for concurrent use. Rendering and text extraction are
// native-bound and block the calling goroutine for their duration; run them
// off any interactive loop.
type Viewer struct {
	session    *document.Session
	cache      *pagecache.Cache
	prefetcher *pagecache.Prefetcher
	engine     *search.Engine
	logger     *Logger
	metrics    MetricsCollector

	prefetchCount int

	// bg outlives individual requests; prefetch renders run under it so a
	// finished foreground request does not cancel its neighbors. Close
	// cancels it.
	bg     context.Context
	cancel context.CancelFunc
}

// New creates a Viewer in the closed state.
func New(opts ...Option) *Viewer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	rc := resource.NewController(resource.Config{
		MaxBackgroundWorkers:   o.prefetchWorkers,
		PrefetchPagesPerSecond: o.prefetchRate,
	})

	session := document.NewSession(o.backend, o.logger.Logger)
	cache := pagecache.New(o.cacheCapacity, rc)
	bg, cancel := context.WithCancel(context.Background())

	return &Viewer{
		session:       session,
		cache:         cache,
		prefetcher:    pagecache.NewPrefetcher(cache, rc, o.logger.Logger),
		engine:        search.NewEngine(session, o.logger.Logger),
		logger:        o.logger,
		metrics:       o.metrics,
		prefetchCount: o.prefetchCount,
		bg:            bg,
		cancel:        cancel,
	}
}

// Open loads the document at path and returns its page count. Any previously
// open document is closed first, even when the new open fails. Cache entries
// for prior documents are kept until evicted or cleared explicitly.
func (v *Viewer) Open(ctx context.Context, path string) (int, error) {
	start := time.Now()
	pages, err := v.session.Open(ctx, path)
	v.metrics.RecordOpen(time.Since(start), err)
	v.logger.LogOpen(ctx, path, pages, err)
	return pages, err
}

// RenderPage returns the bitmap for a page at the given zoom and dpi,
// serving from the cache when possible and populating it on a miss. A
// successful foreground render also schedules best-effort preloading of
// adjacent pages.
//
// Returns (nil, nil) when no document is open or index is out of range.
func (v *Viewer) RenderPage(ctx context.Context, index int, zoom, dpi float64) (*image.RGBA, error) {
	start := time.Now()

	key := pagecache.Key{Document: v.session.Path(), Page: index, Zoom: zoom}
	if img, ok := v.cache.Get(key); ok {
		v.metrics.RecordRender(time.Since(start), true, nil)
		v.logger.LogRender(ctx, index, zoom, true, nil)
		return img, nil
	}

	img, err := v.session.RenderPage(ctx, index, zoom, dpi)
	v.metrics.RecordRender(time.Since(start), false, err)
	v.logger.LogRender(ctx, index, zoom, false, err)
	if err != nil || img == nil {
		return nil, err
	}

	v.cache.Put(key, img)

	if v.prefetchCount > 0 {
		v.prefetcher.Preload(v.bg, key.Document, index, v.session.PageCount(), zoom, v.prefetchCount,
			func(ctx context.Context, page int, zoom float64) (*image.RGBA, error) {
				return v.session.RenderPage(ctx, page, zoom, dpi)
			})
	}
	return img, nil
}

// RenderThumbnail renders a page and downscales it to fit within a
// maxDim x maxDim box, preserving aspect ratio. Pages already smaller than
// the box are returned as rendered. Returns (nil, nil) when no document is
// open or index is out of range.
func (v *Viewer) RenderThumbnail(ctx context.Context, index, maxDim int) (*image.RGBA, error) {
	if maxDim <= 0 {
		maxDim = 256
	}

	src, err := v.session.RenderPage(ctx, index, 1.0, 72)
	if err != nil || src == nil {
		return nil, err
	}

	sb := src.Bounds()
	longest := sb.Dx()
	if sb.Dy() > longest {
		longest = sb.Dy()
	}
	if longest <= maxDim {
		return src, nil
	}

	w := sb.Dx() * maxDim / longest
	h := sb.Dy() * maxDim / longest
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst, nil
}

// ExtractPageText returns a page's text in visual reading order, or "" when
// no document is open or index is out of range.
func (v *Viewer) ExtractPageText(ctx context.Context, index int) (string, error) {
	return v.session.ExtractPageText(ctx, index)
}

// PageBounds returns a page's bounds in points; ok is false when no document
// is open or index is out of range.
func (v *Viewer) PageBounds(index int) (image.Rectangle, bool) {
	return v.session.PageBounds(index)
}

// PageCount returns the page count captured at open time, or 0 when closed.
func (v *Viewer) PageCount() int {
	return v.session.PageCount()
}

// IsOpen reports whether a document is currently open.
func (v *Viewer) IsOpen() bool {
	return v.session.IsOpen()
}

// Outline returns the open document's table of contents. Best effort: a
// native failure is logged and yields nil.
func (v *Viewer) Outline(ctx context.Context) []document.OutlineItem {
	items, err := v.session.Outline()
	if err != nil {
		v.logger.WarnContext(ctx, "outline lookup failed", "error", err)
		return nil
	}
	return items
}

// Metadata returns the open document's metadata (title, author, ...), or an
// empty map when closed.
func (v *Viewer) Metadata() map[string]string {
	return v.session.Metadata()
}

// Search scans every page for query and returns matches in page order,
// capped at search.MaxResults. See search.Engine.
func (v *Viewer) Search(ctx context.Context, query string, caseSensitive bool) ([]search.Match, error) {
	start := time.Now()
	matches, err := v.engine.Search(ctx, query, caseSensitive)
	v.metrics.RecordSearch(len(matches), time.Since(start), err)
	v.logger.LogSearch(ctx, len(matches), err)
	return matches, err
}

// SearchRange is Search restricted to an inclusive page range; both ends are
// clamped to the document.
func (v *Viewer) SearchRange(ctx context.Context, query string, startPage, endPage int, caseSensitive bool) ([]search.Match, error) {
	start := time.Now()
	matches, err := v.engine.SearchRange(ctx, query, startPage, endPage, caseSensitive)
	v.metrics.RecordSearch(len(matches), time.Since(start), err)
	v.logger.LogSearch(ctx, len(matches), err)
	return matches, err
}

// Cache exposes the page cache for explicit management
// (ClearDocument/Clear/Contains/Size/MaxSize).
func (v *Viewer) Cache() *pagecache.Cache {
	return v.cache
}

// Close cancels outstanding prefetch work, waits for it to finish and
// releases the native document handle. Idempotent; the viewer can be reused
// by calling Open again, but prefetch stays disabled after Close.
func (v *Viewer) Close() error {
	v.cancel()
	v.prefetcher.Wait()
	return v.session.Close()
}
