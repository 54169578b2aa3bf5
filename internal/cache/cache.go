package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoldenRodger5/isaac-mineo-sub001/config"
)

// Store is the key-value contract the pipeline depends on. Every operation is
// advisory: when the backing store is down implementations return the zero
// value instead of an error, and callers fall through to the live path.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration)
	Increment(ctx context.Context, key string, ttl time.Duration) int64
	HealthCheck(ctx context.Context) bool
}

// RedisStore implements Store over a shared Redis client. A failed Connect
// flips the store into unavailable mode rather than erroring; Connect may be
// retried and is idempotent once connected.
type RedisStore struct {
	cfg    config.RedisConfig
	logger *log.Logger

	mu        sync.RWMutex
	client    *redis.Client
	connected bool
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		cfg:    cfg,
		logger: log.New(log.Writer(), "[CACHE] ", log.LstdFlags),
	}
}

// Connect dials Redis and pings it. On failure the store stays usable in
// degraded mode: reads miss, writes and increments are no-ops.
func (s *RedisStore) Connect(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port),
		Password:    s.cfg.Password,
		DB:          s.cfg.DB,
		DialTimeout: s.cfg.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		s.logger.Printf("redis unavailable, continuing without cache: %v", err)
		_ = client.Close()
		s.client = nil
		s.connected = false
		return
	}
	s.client = client
	s.connected = true
	s.logger.Printf("connected to redis at %s:%s", s.cfg.Host, s.cfg.Port)
}

func (s *RedisStore) conn() *redis.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected {
		return nil
	}
	return s.client
}

// Get returns the value and true on a hit. Misses and transport errors look
// identical to callers.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	client := s.conn()
	if client == nil {
		return "", false
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Printf("get %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

// SetWithTTL writes a value, refreshing its TTL. Errors are logged and dropped.
func (s *RedisStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) {
	client := s.conn()
	if client == nil {
		return
	}
	if err := client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Printf("set %s: %v", key, err)
	}
}

// Increment atomically bumps a counter, creating it at 1 with the given TTL.
// The TTL is set only when the key is created, so the window is anchored at
// the first request rather than rolling. Returns 0 when the store is down,
// which deliberately makes rate limiting permissive.
func (s *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration) int64 {
	client := s.conn()
	if client == nil {
		return 0
	}
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Printf("incr %s: %v", key, err)
		return 0
	}
	if count == 1 {
		if err := client.Expire(ctx, key, ttl).Err(); err != nil {
			s.logger.Printf("expire %s: %v", key, err)
		}
	}
	return count
}

// HealthCheck pings the store for the status endpoint.
func (s *RedisStore) HealthCheck(ctx context.Context) bool {
	client := s.conn()
	if client == nil {
		return false
	}
	return client.Ping(ctx).Err() == nil
}
