package jobsearch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss - ключа нет в кэше
var ErrCacheMiss = errors.New("cache miss")

// Cache - минимальный KV для результатов провайдера.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache - Cache поверх go-redis.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedProvider кэширует только успешные ответы. Ошибки кэша не ломают поиск.
type CachedProvider struct {
	next  Provider
	cache Cache
	ttl   time.Duration
}

func NewCachedProvider(next Provider, cache Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl}
}

func (p *CachedProvider) Name() string { return p.next.Name() }

func (p *CachedProvider) Search(ctx context.Context, q Query) ([]models.ExternalListing, error) {
	key := p.key(q)

	if data, err := p.cache.Get(ctx, key); err == nil {
		var listings []models.ExternalListing
		if err := json.Unmarshal(data, &listings); err == nil {
			return listings, nil
		}
		logger.CtxWarn(ctx, "⚠️ corrupted jobsearch cache entry", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.CtxWarn(ctx, "⚠️ jobsearch cache get failed", "key", key, "error", err)
	}

	listings, err := p.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(listings); err == nil {
		if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
			logger.CtxWarn(ctx, "⚠️ jobsearch cache set failed", "key", key, "error", err)
		}
	}
	return listings, nil
}

func (p *CachedProvider) key(q Query) string {
	norm := strings.ToLower(strings.TrimSpace(q.Text)) + "|" + strings.ToLower(strings.TrimSpace(q.Location))
	sum := sha1.Sum([]byte(norm))
	return "jobsearch:" + p.next.Name() + ":" + hex.EncodeToString(sum[:])
}
