package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// LoadFunc reads a dataset from path. (*Loader).Load satisfies it.
type LoadFunc func(ctx context.Context, path string) (*models.Dataset, error)

type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Loads   int64 `json:"loads"`
}

// Cache memoizes datasets by cleaned file path for the lifetime of the
// process. Entries are never evicted or refreshed, so a file edited after its
// first load is not picked up until restart. Failed loads are not stored.
type Cache struct {
	load    LoadFunc
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.RWMutex
	entries map[string]*models.Dataset
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
	loads  atomic.Int64
}

func NewCache(load LoadFunc, logger *slog.Logger, metrics *observability.Metrics) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		load:    load,
		logger:  logger,
		metrics: metrics,
		entries: make(map[string]*models.Dataset),
	}
}

// Get returns the dataset for path, reading the file only on the first call
// for that path. Concurrent first calls share one read. The shared read is
// detached from any single caller's cancellation; ctx only bounds how long
// this caller waits for it.
func (c *Cache) Get(ctx context.Context, path string) (*models.Dataset, error) {
	key := cacheKey(path)

	if ds, ok := c.lookup(key); ok {
		c.hits.Add(1)
		c.metrics.CacheHit()
		c.logger.Debug("dataset cache hit", "path", key)
		return ds, nil
	}

	c.misses.Add(1)
	c.metrics.CacheMiss()

	loadCtx := context.WithoutCancel(ctx)
	result := c.group.DoChan(key, func() (any, error) {
		if ds, ok := c.lookup(key); ok {
			return ds, nil
		}

		start := time.Now()
		ds, err := c.load(loadCtx, path)
		c.loads.Add(1)
		c.metrics.ObserveLoad(time.Since(start), err)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = ds
		c.mu.Unlock()
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Dataset), nil
	}
}

func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Loads:   c.loads.Load(),
	}
}

func (c *Cache) lookup(key string) (*models.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.entries[key]
	return ds, ok
}

func cacheKey(path string) string {
	return filepath.Clean(path)
}
