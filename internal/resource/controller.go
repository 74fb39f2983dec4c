// Package resource provides the governor for background work and memory
// accounting shared by the page cache and the adjacency prefetcher.
//
// All methods handle a nil *Controller gracefully and become no-ops, so
// resource limiting stays optional without nil checks at call sites.
package resource

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is a hard limit for tracked bitmap memory.
	// If 0, usage is tracked but not limited.
	MemoryLimitBytes int64

	// MaxBackgroundWorkers bounds concurrent prefetch jobs. Defaults to 1.
	MaxBackgroundWorkers int64

	// PrefetchPagesPerSecond rate-limits background page renders so prefetch
	// never starves foreground requests. If 0, unlimited.
	PrefetchPagesPerSecond float64
}

// Controller tracks bitmap memory and gates background prefetch work.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	bgSem *semaphore.Weighted

	prefetchLimiter *rate.Limiter
}

// NewController creates a controller from cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxBackgroundWorkers <= 0 {
		cfg.MaxBackgroundWorkers = 1
	}

	c := &Controller{
		cfg:   cfg,
		bgSem: semaphore.NewWeighted(cfg.MaxBackgroundWorkers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.PrefetchPagesPerSecond > 0 {
		burst := int(cfg.PrefetchPagesPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.prefetchLimiter = rate.NewLimiter(rate.Limit(cfg.PrefetchPagesPerSecond), burst)
	}

	return c
}

// TryAcquireMemory reserves bytes without blocking. Returns false when the
// hard limit would be exceeded; callers decide whether to skip caching.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}
	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}
	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory returns reserved bytes.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently tracked bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireBackground reserves a background worker slot, blocking until one is
// free or ctx is done.
func (c *Controller) AcquireBackground(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.bgSem.Acquire(ctx, 1)
}

// TryAcquireBackground reserves a background worker slot without blocking.
func (c *Controller) TryAcquireBackground() bool {
	if c == nil {
		return true
	}
	return c.bgSem.TryAcquire(1)
}

// ReleaseBackground releases a background worker slot.
func (c *Controller) ReleaseBackground() {
	if c == nil {
		return
	}
	c.bgSem.Release(1)
}

// AllowPrefetch reports whether one more background page render fits the
// configured rate. Prefetch is best effort, so a denied render is skipped,
// never queued.
func (c *Controller) AllowPrefetch() bool {
	if c == nil || c.prefetchLimiter == nil {
		return true
	}
	return c.prefetchLimiter.AllowN(time.Now(), 1)
}
