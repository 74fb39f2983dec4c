package paperwise

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics. Implement it to integrate
// with a monitoring system; NoopMetricsCollector disables collection.
type MetricsCollector interface {
	// RecordOpen is called after each open attempt.
	RecordOpen(duration time.Duration, err error)

	// RecordRender is called after each foreground page request. cacheHit
	// reports whether the page came from the cache.
	RecordRender(duration time.Duration, cacheHit bool, err error)

	// RecordSearch is called after each search with the number of matches.
	RecordSearch(matches int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(time.Duration, error)         {}
func (NoopMetricsCollector) RecordRender(time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)  {}

// BasicMetricsCollector counts operations with atomics. Useful for tests and
// simple introspection.
type BasicMetricsCollector struct {
	Opens       atomic.Int64
	OpenErrors  atomic.Int64
	Renders     atomic.Int64
	CacheHits   atomic.Int64
	RenderFails atomic.Int64
	Searches    atomic.Int64
	Matches     atomic.Int64
}

func (m *BasicMetricsCollector) RecordOpen(_ time.Duration, err error) {
	m.Opens.Add(1)
	if err != nil {
		m.OpenErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordRender(_ time.Duration, cacheHit bool, err error) {
	m.Renders.Add(1)
	if cacheHit {
		m.CacheHits.Add(1)
	}
	if err != nil {
		m.RenderFails.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordSearch(matches int, _ time.Duration, err error) {
	m.Searches.Add(1)
	if err == nil {
		m.Matches.Add(int64(matches))
	}
}
