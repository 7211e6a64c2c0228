package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Wizi44/PNodes/config"
)

// CacheMode indicates which cache backend is active.
type CacheMode string

const (
	CacheModeRedis    CacheMode = "redis"
	CacheModeInMemory CacheMode = "in-memory"
)

type cacheItem struct {
	data      []byte
	expiresAt time.Time
}

// CacheService caches the latest derived payloads for the HTTP surface.
// Redis when reachable, in-memory fallback otherwise; either way readers
// get the last published cycle without touching the engine's lock.
type CacheService struct {
	cfg *config.Config

	redis       *redis.Client
	redisCtx    context.Context
	redisCancel context.CancelFunc
	mode        CacheMode
	modeMutex   sync.RWMutex

	memory sync.Map // key -> cacheItem
}

func NewCacheService(cfg *config.Config) *CacheService {
	ctx, cancel := context.WithCancel(context.Background())

	cs := &CacheService{
		cfg:         cfg,
		redisCtx:    ctx,
		redisCancel: cancel,
		mode:        CacheModeInMemory,
	}

	if cfg.Redis.Enabled {
		cs.connectRedis()
	}

	return cs
}

func (cs *CacheService) connectRedis() {
	cs.redis = redis.NewClient(&redis.Options{
		Addr:         cs.cfg.Redis.Address,
		Password:     cs.cfg.Redis.Password,
		DB:           cs.cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := cs.redis.Ping(ctx).Result(); err != nil {
		log.Printf("Redis connection failed, using in-memory cache: %v", err)
		cs.setMode(CacheModeInMemory)
		return
	}

	log.Printf("Redis connected at %s", cs.cfg.Redis.Address)
	cs.setMode(CacheModeRedis)
}

func (cs *CacheService) setMode(mode CacheMode) {
	cs.modeMutex.Lock()
	defer cs.modeMutex.Unlock()
	cs.mode = mode
}

// Mode reports the active backend.
func (cs *CacheService) Mode() CacheMode {
	cs.modeMutex.RLock()
	defer cs.modeMutex.RUnlock()
	return cs.mode
}

// Set stores a JSON-encoded payload under key with the configured TTL.
func (cs *CacheService) Set(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Cache marshal failed for %s: %v", key, err)
		return
	}

	ttl := cs.cfg.CacheTTLDuration()
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	if cs.Mode() == CacheModeRedis {
		ctx, cancel := context.WithTimeout(cs.redisCtx, 3*time.Second)
		defer cancel()
		if err := cs.redis.Set(ctx, key, data, ttl).Err(); err != nil {
			log.Printf("Redis SET failed for %s, falling back to memory: %v", key, err)
			cs.setMode(CacheModeInMemory)
		} else {
			return
		}
	}

	cs.memory.Store(key, cacheItem{data: data, expiresAt: time.Now().Add(ttl)})
}

// Get loads a cached payload into out. Returns false on miss or expiry.
func (cs *CacheService) Get(key string, out interface{}) bool {
	if cs.Mode() == CacheModeRedis {
		ctx, cancel := context.WithTimeout(cs.redisCtx, 3*time.Second)
		defer cancel()
		data, err := cs.redis.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(data, out) == nil
		}
		if err != redis.Nil {
			log.Printf("Redis GET failed for %s: %v", key, err)
		}
	}

	val, ok := cs.memory.Load(key)
	if !ok {
		return false
	}
	item := val.(cacheItem)
	if time.Now().After(item.expiresAt) {
		cs.memory.Delete(key)
		return false
	}
	return json.Unmarshal(item.data, out) == nil
}

// Clear drops all cached payloads.
func (cs *CacheService) Clear() {
	if cs.Mode() == CacheModeRedis {
		ctx, cancel := context.WithTimeout(cs.redisCtx, 3*time.Second)
		defer cancel()
		if err := cs.redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Redis FLUSHDB failed: %v", err)
		}
	}
	cs.memory.Range(func(key, _ interface{}) bool {
		cs.memory.Delete(key)
		return true
	})
}

func (cs *CacheService) Stop() {
	cs.redisCancel()
	if cs.redis != nil {
		if err := cs.redis.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}
}
