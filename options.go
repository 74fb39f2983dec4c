package paperwise

import (
	"github.com/Soumya-Chakraborty/PaperWise/document"
	"github.com/Soumya-Chakraborty/PaperWise/pagecache"
)

type options struct {
	backend         document.Backend
	cacheCapacity   int64
	prefetchCount   int
	prefetchWorkers int64
	prefetchRate    float64
	logger          *Logger
	metrics         MetricsCollector
}

// Option configures a Viewer at construction time.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		backend:         document.FitzBackend{},
		prefetchCount:   pagecache.DefaultPrefetchCount,
		prefetchWorkers: 1,
		logger:          NewLogger(nil),
		metrics:         NoopMetricsCollector{},
	}
}

// WithBackend replaces the native document backend. The default is the
// go-fitz (MuPDF) backend.
func WithBackend(b document.Backend) Option {
	return func(o *options) {
		if b != nil {
			o.backend = b
		}
	}
}

// WithCacheCapacity fixes the page cache budget in bytes. If not set (or
// <= 0), the cache uses 10% of physical memory, floored at 8 MiB. The budget
// is computed once and is not reconfigurable afterwards.
func WithCacheCapacity(bytes int64) Option {
	return func(o *options) {
		o.cacheCapacity = bytes
	}
}

// WithPrefetchCount sets how many neighbors are preloaded on each side of a
// rendered page. Default 2; 0 or negative keeps the default, use
// WithPrefetchDisabled to turn prefetch off.
func WithPrefetchCount(count int) Option {
	return func(o *options) {
		if count > 0 {
			o.prefetchCount = count
		}
	}
}

// WithPrefetchDisabled turns adjacency prefetch off entirely.
func WithPrefetchDisabled() Option {
	return func(o *options) {
		o.prefetchCount = -1
	}
}

// WithPrefetchWorkers bounds concurrent background prefetch jobs. Default 1.
func WithPrefetchWorkers(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.prefetchWorkers = n
		}
	}
}

// WithPrefetchRate rate-limits background page renders to pagesPerSecond.
// Default unlimited. Throttled neighbors are skipped, not queued; prefetch
// is best effort.
func WithPrefetchRate(pagesPerSecond float64) Option {
	return func(o *options) {
		if pagesPerSecond > 0 {
			o.prefetchRate = pagesPerSecond
		}
	}
}

// WithLogger replaces the default stderr text logger. Pass NoopLogger() to
// silence the viewer.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector installs a metrics collector. Pass nil to disable.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}
