package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/models"
)

var ErrCacheMiss = errors.New("cache miss")

const (
	categoriesKey = "directory:categories"
	statsKey      = "directory:stats"
)

// DirectoryCache caches read-heavy directory aggregates (category listing
// with counts, directory-wide stats). Redis-backed with a small local
// fallback; degrades to local-only when Redis is unavailable.
type DirectoryCache struct {
	redis    *redis.Client
	logger   *logrus.Logger
	ttl      time.Duration
	onLookup func(key, outcome string)

	mu     sync.RWMutex
	local  map[string]localItem
	hits   int64
	misses int64
}

type localItem struct {
	data      []byte
	expiresAt time.Time
}

// Config holds configuration for the directory cache. OnLookup, when
// set, is called with the key and "hit" or "miss" on every read.
type Config struct {
	RedisClient *redis.Client
	Logger      *logrus.Logger
	TTL         time.Duration
	OnLookup    func(key, outcome string)
}

// NewDirectoryCache creates a new directory cache
func NewDirectoryCache(cfg Config) *DirectoryCache {
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &DirectoryCache{
		redis:    cfg.RedisClient,
		logger:   cfg.Logger,
		ttl:      cfg.TTL,
		onLookup: cfg.OnLookup,
		local:    make(map[string]localItem),
	}
}

// GetCategories retrieves the cached category listing
func (c *DirectoryCache) GetCategories(ctx context.Context) ([]models.CategoryWithCount, error) {
	data, err := c.get(ctx, categoriesKey)
	if err != nil {
		return nil, err
	}
	var categories []models.CategoryWithCount
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, ErrCacheMiss
	}
	return categories, nil
}

// SetCategories stores the category listing
func (c *DirectoryCache) SetCategories(ctx context.Context, categories []models.CategoryWithCount) {
	data, err := json.Marshal(categories)
	if err != nil {
		return
	}
	c.set(ctx, categoriesKey, data)
}

// InvalidateCategories drops the cached category listing. Called whenever
// a business status changes, since the counts depend on active status.
func (c *DirectoryCache) InvalidateCategories(ctx context.Context) {
	c.invalidate(ctx, categoriesKey)
}

// GetStats retrieves cached directory-wide stats
func (c *DirectoryCache) GetStats(ctx context.Context) (map[string]interface{}, error) {
	data, err := c.get(ctx, statsKey)
	if err != nil {
		return nil, err
	}
	var stats map[string]interface{}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, ErrCacheMiss
	}
	return stats, nil
}

// SetStats stores directory-wide stats
func (c *DirectoryCache) SetStats(ctx context.Context, stats map[string]interface{}) {
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	c.set(ctx, statsKey, data)
}

// InvalidateStats drops the cached directory stats
func (c *DirectoryCache) InvalidateStats(ctx context.Context) {
	c.invalidate(ctx, statsKey)
}

// Stats returns cache hit/miss counters for the internal stats endpoint
func (c *DirectoryCache) Stats() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]int64{
		"hits":   c.hits,
		"misses": c.misses,
	}
}

func (c *DirectoryCache) get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	item, ok := c.local[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(item.expiresAt) {
		c.recordHit(key)
		return item.data, nil
	}

	if c.redis != nil {
		data, err := c.redis.Get(ctx, key).Bytes()
		if err == nil {
			c.setLocal(key, data)
			c.recordHit(key)
			return data, nil
		}
		if err != redis.Nil {
			c.logger.WithError(err).Debug("Redis cache read failed")
		}
	}

	c.recordMiss(key)
	return nil, ErrCacheMiss
}

func (c *DirectoryCache) set(ctx context.Context, key string, data []byte) {
	c.setLocal(key, data)
	if c.redis != nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WithError(err).Debug("Redis cache write failed")
		}
	}
}

func (c *DirectoryCache) invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.local, key)
	c.mu.Unlock()
	if c.redis != nil {
		if err := c.redis.Del(ctx, key).Err(); err != nil {
			c.logger.WithError(err).Debug("Redis cache invalidation failed")
		}
	}
}

func (c *DirectoryCache) setLocal(key string, data []byte) {
	c.mu.Lock()
	c.local[key] = localItem{data: data, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *DirectoryCache) recordHit(key string) {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	if c.onLookup != nil {
		c.onLookup(key, "hit")
	}
}

func (c *DirectoryCache) recordMiss(key string) {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	if c.onLookup != nil {
		c.onLookup(key, "miss")
	}
}
