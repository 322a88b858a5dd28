package configcache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
)

// DefaultTTL is the freshness window of a cached record
const DefaultTTL = time.Minute

// Cache holds the last read or written revision of each record of one kind, keyed by
// "<namespace>:<entryKey>". An entry older than the TTL is never returned.
//
// Values implementing Clone() T are copied when stored and when returned, so callers never
// share a map with the cache.
type Cache[T any] struct {
	items *ttlcache.Cache[string, config.Cached[T]]
	ttl   time.Duration
	now   func() time.Time
}

type options struct {
	ttl      time.Duration
	capacity uint64
	now      func() time.Time
}

// Option configures a Cache
type Option func(*options)

// WithTTL sets the freshness window
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithCapacity bounds the number of entries. The least recently used entry is evicted first.
// Zero means unbounded.
func WithCapacity(capacity uint64) Option {
	return func(o *options) {
		o.capacity = capacity
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates an empty cache
func New[T any](opts ...Option) *Cache[T] {
	o := options{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ttl <= 0 {
		o.ttl = DefaultTTL
	}

	cacheOpts := []ttlcache.Option[string, config.Cached[T]]{
		ttlcache.WithTTL[string, config.Cached[T]](o.ttl),
		ttlcache.WithDisableTouchOnHit[string, config.Cached[T]](),
	}
	if o.capacity > 0 {
		cacheOpts = append(cacheOpts, ttlcache.WithCapacity[string, config.Cached[T]](o.capacity))
	}

	return &Cache[T]{
		items: ttlcache.New(cacheOpts...),
		ttl:   o.ttl,
		now:   o.now,
	}
}

type cloner[T any] interface {
	Clone() T
}

func cloneValue[T any](v T) T {
	if c, ok := any(v).(cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// TTL returns the freshness window
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// Get returns a fresh entry. A missing or expired entry yields false.
func (c *Cache[T]) Get(namespace, entryKey string) (*config.Cached[T], bool) {
	item := c.items.Get(config.CacheKey(namespace, entryKey))
	if item == nil {
		return nil, false
	}

	entry := item.Value()
	if entry.IsExpired(c.now(), c.ttl) {
		return nil, false
	}
	entry.Value = cloneValue(entry.Value)
	return &entry, true
}

// Set overwrites the entry with value at revision, stamped with the current time. The
// returned entry holds value itself; the cache keeps its own copy.
func (c *Cache[T]) Set(namespace, entryKey string, value T, revision int) *config.Cached[T] {
	entry := config.Cached[T]{
		Revision:  revision,
		FetchedAt: c.now(),
		Value:     value,
	}

	stored := entry
	stored.Value = cloneValue(value)
	c.items.Set(config.CacheKey(namespace, entryKey), stored, ttlcache.DefaultTTL)
	return &entry
}

// Delete evicts the entry
func (c *Cache[T]) Delete(namespace, entryKey string) {
	c.items.Delete(config.CacheKey(namespace, entryKey))
}

// Purge evicts every entry
func (c *Cache[T]) Purge() {
	c.items.DeleteAll()
}

// Len returns the number of stored entries, expired ones included
func (c *Cache[T]) Len() int {
	return c.items.Len()
}
