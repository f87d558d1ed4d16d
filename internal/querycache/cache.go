// Package querycache memoizes query results by a key derived from a query
// name and its dependency values.
//
// Entries live until they are invalidated (or until the optional TTL passes).
// Concurrent misses for the same key share a single fetch. Failed fetches are
// never stored, so the next call retries.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"naat/pkg/logger"
)

// Fetcher loads the value for a cache miss.
type Fetcher = func(ctx context.Context) (any, error)

// Cache stores query results by key and shares concurrent fetches of the same key.
type Cache struct {
	// mu orders invalidations against stores so a fetch that started before
	// an invalidation never writes its result after it.
	mu         sync.RWMutex
	generation uint64

	store   *ttlcache.Cache[string, any]
	flights singleflight.Group
	started bool
	log     logger.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	ttl time.Duration
	log logger.Logger
}

// WithTTL expires entries ttl after they were stored. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithLogger sets the logger for invalidation events.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// New returns an empty cache. Entries never expire unless WithTTL is given.
func New(opts ...Option) *Cache {
	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	storeOpts := []ttlcache.Option[string, any]{ttlcache.WithDisableTouchOnHit[string, any]()}
	if o.ttl > 0 {
		storeOpts = append(storeOpts, ttlcache.WithTTL[string, any](o.ttl))
	}

	c := &Cache{
		store: ttlcache.New(storeOpts...),
		log:   o.log,
	}
	if o.ttl > 0 {
		c.started = true
		go c.store.Start()
	}
	return c
}

// Key serializes the query name and deps. Equal names with equal deps always
// produce the same key.
func Key(query string, deps ...any) (string, error) {
	if deps == nil {
		deps = []any{}
	}
	raw, err := json.Marshal(struct {
		Query string `json:"query"`
		Deps  []any  `json:"deps"`
	}{Query: query, Deps: deps})
	if err != nil {
		return "", fmt.Errorf("querycache: build key for %q: %w", query, err)
	}
	return string(raw), nil
}

// Pattern returns the encoded form of value as it appears inside a key, so
// Invalidate(Pattern("u1")) matches the dep "u1" but not "u10".
func Pattern(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(raw)
}

// QueryPattern matches every key built for the named query.
func QueryPattern(query string) string {
	return `"query":` + Pattern(query)
}

// Get returns the stored value for (query, deps) or runs fetch to load it.
//
// The fetch is detached from the caller's cancellation because other callers
// may be waiting on it; ctx only bounds how long this caller waits.
func (c *Cache) Get(ctx context.Context, query string, deps []any, fetch Fetcher) (any, error) {
	key, err := Key(query, deps...)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	item := c.store.Get(key)
	generation := c.generation
	c.mu.RUnlock()

	if item != nil {
		cacheHits.Add(ctx, 1, queryAttr(query))
		return item.Value(), nil
	}
	cacheMisses.Add(ctx, 1, queryAttr(query))

	flightKey := strconv.FormatUint(generation, 10) + "|" + key
	results := c.flights.DoChan(flightKey, func() (any, error) {
		value, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == generation {
			c.store.Set(key, value, ttlcache.DefaultTTL)
		}
		c.mu.Unlock()
		return value, nil
	})

	select {
	case res := <-results:
		if res.Shared {
			cacheSharedFetches.Add(ctx, 1, queryAttr(query))
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate removes every entry whose key contains pattern and returns how
// many were removed. An empty pattern clears the cache.
func (c *Cache) Invalidate(pattern string) int {
	c.mu.Lock()
	c.generation++
	removed := 0
	if pattern == "" {
		removed = c.store.Len()
		c.store.DeleteAll()
	} else {
		for _, key := range c.store.Keys() {
			if strings.Contains(key, pattern) {
				c.store.Delete(key)
				removed++
			}
		}
	}
	c.mu.Unlock()

	cacheInvalidations.Add(context.Background(), int64(removed))
	c.log.Debug("querycache: invalidated", "pattern", pattern, "removed", removed)
	return removed
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	return c.store.Len()
}

// Close stops the expiry janitor. The cache stays usable afterwards.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		c.store.Stop()
		c.started = false
	}
}
