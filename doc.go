// Package paperwise implements the document core of the PaperWise viewer:
// it owns a single open document's native handle, rasterizes pages under
// strict memory and dimension limits, keeps a bounded-memory cache of
// rendered pages with LRU eviction and adjacency prefetch, and performs
// linear text search across all pages.
//
// # Quick start
//
//	v := paperwise.New()
//	defer v.Close()
//
//	pages, err := v.Open(ctx, "report.pdf")
//	if err != nil {
//	    // errors.Is(err, paperwise.ErrInvalidInput) etc.
//	}
//
//	img, err := v.RenderPage(ctx, 0, 1.0, 144) // page 0 at 2x
//	matches, err := v.Search(ctx, "invoice", false)
//
// # Resource limits
//
// Open rejects files over 50 MiB and documents over 5000 pages with
// ErrResourceLimit. Rendered bitmaps never exceed 3000px on either side;
// oversized renders are downscaled uniformly instead of failing. The page
// cache defaults to 10% of physical memory, floored at 8 MiB.
//
// # Concurrency
//
// A Viewer is safe for concurrent use. The native handle is serialized
// behind the session lock; cache lookups use their own lock and never wait
// on a render. Adjacency prefetch runs on background goroutines, bounded by
// a worker semaphore and an optional rate limit, and is strictly best
// effort.
//
// The viewer persists nothing: the cache lives in memory, and closing the
// viewer releases the native handle. Document metadata stores, file
// scanning and UI concerns live in collaborators, not here.
package paperwise
