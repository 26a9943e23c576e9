package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache stores rendered report payloads by key.
// Get reports a miss with found=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// maxExtensions caps how many reads may push an entry's expiry forward.
const maxExtensions = 6

type entry struct {
	value       []byte
	expiration  time.Time
	accessCount int
	originalTTL time.Duration
}

// Memory is an in-process cache whose entries slide their expiry on read,
// up to a fixed number of extensions.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*entry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false, nil
	}

	now := m.now()
	if now.After(e.expiration) {
		delete(m.entries, key)
		log.Debug().Str("key", key).Msg("Cache entry expired")
		return nil, false, nil
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	if e.accessCount < maxExtensions {
		e.expiration = now.Add(e.originalTTL)
		e.accessCount++
		log.Trace().Str("key", key).Int("count", e.accessCount).Msg("Extended cache TTL")
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = &entry{
		value:       append([]byte(nil), value...),
		expiration:  m.now().Add(ttl),
		originalTTL: ttl,
		accessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
	return nil
}

// Redis shares cached payloads between dashboard instances.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to the server at url (redis://...) and checks it answers.
func NewRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
