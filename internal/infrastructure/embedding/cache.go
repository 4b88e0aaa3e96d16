package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"

	"github.com/janhq/qa-api/internal/config"
)

// Cache stores embeddings by key. Lookups never fail; a broken backend
// behaves like a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, value []float32)
}

type CacheConfig struct {
	Type      string
	RedisURL  string
	KeyPrefix string
	MaxSize   int
	TTL       time.Duration
}

func NewCache(cfg CacheConfig) (Cache, error) {
	switch cfg.Type {
	case config.CacheLRU:
		return NewMemoryCache(cfg.MaxSize, cfg.TTL)
	case config.CacheRedis:
		return NewRedisCache(cfg.RedisURL, cfg.KeyPrefix, cfg.TTL)
	case config.CacheNone, "":
		return NoopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}

// MemoryCache is an in-process LRU with per-entry expiry.
type MemoryCache struct {
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	value     []float32
	expiresAt time.Time
}

func NewMemoryCache(maxSize int, ttl time.Duration) (*MemoryCache, error) {
	if maxSize <= 0 {
		maxSize = 1024
	}
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{cache: cache, ttl: ttl, now: time.Now}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	entry := val.(cacheEntry)
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []float32) {
	entry := cacheEntry{value: value}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.cache.Add(key, entry)
}

// RedisCache shares embeddings between replicas. Vectors are stored as
// little-endian float32 blobs.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(redisURL, prefix string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	vector, err := decodeVector(data)
	if err != nil {
		return nil, false
	}
	return vector, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []float32) {
	c.client.Set(ctx, c.prefix+key, encodeVector(value), c.ttl)
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]float32, bool) { return nil, false }

func (NoopCache) Set(context.Context, string, []float32) {}

var errBlobLength = errors.New("embedding blob length is not a multiple of 4")

func encodeVector(v []float32) []byte {
	data := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	return data
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, errBlobLength
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v, nil
}
