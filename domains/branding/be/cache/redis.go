package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
)

// ErrCacheMiss is returned by KVStore when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// KeyPrefix namespaces branding entries in the shared store.
const KeyPrefix = "rastro:branding:"

// KVStore is the string store behind the shared cache, replaceable in tests.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisKVStore implements KVStore with go-redis.
type RedisKVStore struct {
	client *redis.Client
}

// NewRedisKVStore wraps an existing client.
func NewRedisKVStore(client *redis.Client) *RedisKVStore {
	return &RedisKVStore{client: client}
}

func (r *RedisKVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Shared caches composed branding as JSON in a KVStore. Store errors degrade to misses.
type Shared struct {
	kv     KVStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewShared constructs a shared cache.
func NewShared(kv KVStore, ttl time.Duration, logger *zap.Logger) *Shared {
	if kv == nil {
		panic("kv store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shared{kv: kv, ttl: ttl, logger: logger}
}

func (s *Shared) Get(ctx context.Context, key string) (service.Config, bool) {
	raw, err := s.kv.Get(ctx, KeyPrefix+key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("branding cache read failed", zap.String("key", key), zap.Error(err))
		}
		return service.Config{}, false
	}
	var cfg service.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.logger.Warn("branding cache entry corrupt", zap.String("key", key), zap.Error(err))
		return service.Config{}, false
	}
	return cfg, true
}

func (s *Shared) Set(ctx context.Context, key string, cfg service.Config) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, KeyPrefix+key, string(raw), s.ttl); err != nil {
		s.logger.Warn("branding cache write failed", zap.String("key", key), zap.Error(err))
	}
}
