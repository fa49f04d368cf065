package memory

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCacheFull = errors.New("cache is full")

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Options struct {
	TTL         time.Duration
	CheckPeriod time.Duration
	// MaxKeys of zero means unbounded.
	MaxKeys int
	Clock   Clock
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is an in-process key-value store whose entries expire after a TTL. Expired entries
// are misses and get dropped lazily on read or by the sweeper.
type Cache[V any] struct {
	mu      sync.RWMutex
	items   map[string]entry[V]
	opts    Options
	stop    chan struct{}
	stopped sync.Once
}

func New[V any](opts Options) *Cache[V] {
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.CheckPeriod <= 0 {
		opts.CheckPeriod = time.Hour
	}

	return &Cache[V]{
		items: make(map[string]entry[V]),
		opts:  opts,
		stop:  make(chan struct{}),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}

	if c.expired(e, c.opts.Clock.Now()) {
		c.mu.Lock()
		// Re-check: a writer may have replaced the entry in between.
		if cur, ok := c.items[key]; ok && c.expired(cur, c.opts.Clock.Now()) {
			delete(c.items, key)
		}
		c.mu.Unlock()

		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores v with the default TTL.
func (c *Cache[V]) Set(key string, v V) error {
	return c.SetWithTTL(key, v, c.opts.TTL)
}

// SetWithTTL stores v for ttl; a non-positive ttl never expires. ErrCacheFull is returned
// when a new key would exceed MaxKeys even after expired entries are purged.
func (c *Cache[V]) SetWithTTL(key string, v V, ttl time.Duration) error {
	now := c.opts.Clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.opts.MaxKeys > 0 && len(c.items) >= c.opts.MaxKeys {
		c.purgeLocked(now)
		if len(c.items) >= c.opts.MaxKeys {
			return ErrCacheFull
		}
	}

	e := entry[V]{value: v}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	c.items[key] = e
	return nil
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len counts stored entries, including expired ones the sweeper has not removed yet.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

func (c *Cache[V]) Flush() {
	c.mu.Lock()
	c.items = make(map[string]entry[V])
	c.mu.Unlock()
}

// PurgeExpired removes every expired entry and reports how many were dropped.
func (c *Cache[V]) PurgeExpired() int {
	now := c.opts.Clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeLocked(now)
}

// StartSweeper purges expired entries every CheckPeriod until ctx is done or Close is called.
func (c *Cache[V]) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(c.opts.CheckPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			c.PurgeExpired()
		}
	}
}

func (c *Cache[V]) Close() {
	c.stopped.Do(func() {
		close(c.stop)
	})
}

func (c *Cache[V]) purgeLocked(now time.Time) int {
	removed := 0
	for k, e := range c.items {
		if c.expired(e, now) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

func (c *Cache[V]) expired(e entry[V], now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
