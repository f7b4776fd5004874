package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisFacetCache is a Redis-backed cache for facet aggregations. Facets
// contain only descriptive values (colors, sizes, attribute values), never
// quantities, so a stale entry can at worst show a filter option with no
// results behind it. Cache failures are logged and treated as misses.
type RedisFacetCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisFacetCache creates a new Redis-backed facet cache
func NewRedisFacetCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisFacetCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisFacetCacheWithClient(client, ttl, logger), nil
}

// NewRedisFacetCacheWithClient creates a cache over an existing client
func NewRedisFacetCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisFacetCache {
	return &RedisFacetCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: "catalog:",
		logger:    logger.Named("facet_cache"),
	}
}

// Get returns the cached facets for a key, or a miss
func (c *RedisFacetCache) Get(ctx context.Context, key string) (*catalog.Facets, bool) {
	payload, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("facet cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var facets catalog.Facets
	if err := json.Unmarshal(payload, &facets); err != nil {
		c.logger.Warn("facet cache entry corrupt, dropping", zap.Error(err))
		c.client.Del(ctx, c.keyPrefix+key)
		return nil, false
	}
	return &facets, true
}

// Set stores facets under a key with the configured TTL
func (c *RedisFacetCache) Set(ctx context.Context, key string, facets *catalog.Facets) {
	payload, err := json.Marshal(facets)
	if err != nil {
		c.logger.Warn("facet cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("facet cache write failed", zap.Error(err))
	}
}

// Close releases the underlying client
func (c *RedisFacetCache) Close() error {
	return c.client.Close()
}
