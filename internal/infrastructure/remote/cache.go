package remote

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReadCache keeps last-known-good payloads of idempotent reads so the client
// can serve them in cached-read fallback mode when both endpoints are down.
type ReadCache interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool)
	Set(ctx context.Context, key string, payload json.RawMessage)
}

const defaultCacheTTL = 15 * time.Minute

type memoryCacheEntry struct {
	payload   json.RawMessage
	expiresAt time.Time
}

// MemoryReadCache is the in-process default when no Redis address is
// configured.
type MemoryReadCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryCacheEntry
}

func NewMemoryReadCache(ttl time.Duration) *MemoryReadCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryReadCache{ttl: ttl, entries: make(map[string]memoryCacheEntry)}
}

func (c *MemoryReadCache) Get(_ context.Context, key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

func (c *MemoryReadCache) Set(_ context.Context, key string, payload json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryCacheEntry{payload: payload, expiresAt: time.Now().Add(c.ttl)}
}

// RedisReadCache shares last-known-good payloads across dashboard instances.
type RedisReadCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisReadCache(addr string, ttl time.Duration) *RedisReadCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisReadCache{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		prefix: "brcargo:readcache:",
	}
}

func (c *RedisReadCache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[remote][cache] redis get failed key=%s err=%v", key, err)
		return nil, false
	}
	return val, true
}

func (c *RedisReadCache) Set(ctx context.Context, key string, payload json.RawMessage) {
	if err := c.rdb.Set(ctx, c.prefix+key, []byte(payload), c.ttl).Err(); err != nil {
		log.Printf("[remote][cache] redis set failed key=%s err=%v", key, err)
	}
}
