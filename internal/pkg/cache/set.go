package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrNotFound = errors.New("cache: key not found")

// NewSet returns a msgpack encoded key space in redis. A nil client gives a
// Set that never hits, so callers work the same with or without redis.
func NewSet[T any](client *redis.Client, prefix string) *Set[T] {
	return &Set[T]{
		client: client,
		prefix: prefix + ":",
	}
}

type Set[T any] struct {
	// m is a mutex for MutexGetSet for concurrent prevention
	m sync.Mutex

	client *redis.Client
	prefix string
}

func (c *Set[T]) key(key string) string {
	return c.prefix + key
}

func (c *Set[T]) Enabled() bool {
	return c.client != nil
}

func (c *Set[T]) Get(ctx context.Context, key string) (T, error) {
	var dest T
	if c.client == nil {
		return dest, ErrNotFound
	}
	key = c.key(key)
	resp, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return dest, ErrNotFound
		}
		log.Error().Err(err).Str("key", key).Msg("failed to get value from redis")
		return dest, err
	}
	if err := msgpack.Unmarshal(resp, &dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal value from msgpack from redis")
		return dest, err
	}
	return dest, nil
}

func (c *Set[T]) Set(ctx context.Context, key string, value T, expire time.Duration) error {
	if c.client == nil {
		return nil
	}
	key = c.key(key)
	if l := log.Trace(); l.Enabled() {
		l.Str("key", key).Msg("setting value to redis")
	}
	b, err := msgpack.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal value with msgpack")
		return err
	}
	if err := c.client.Set(ctx, key, b, expire).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set value to redis")
		return err
	}
	return nil
}

// MutexGetSet returns the cached value for key, or computes it with valueFunc
// (at most once at a time per Set) and caches it. The boolean reports whether
// the value was computed.
func (c *Set[T]) MutexGetSet(ctx context.Context, key string, valueFunc func() (T, error), expire time.Duration) (T, bool, error) {
	v, err := c.Get(ctx, key)
	if err == nil {
		return v, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		log.Warn().Err(err).Str("key", key).Msg("cache unavailable in MutexGetSet, computing value")
	}

	c.m.Lock()
	defer c.m.Unlock()
	if v, err := c.Get(ctx, key); err == nil {
		return v, false, nil
	}

	v, err = valueFunc()
	if err != nil {
		return v, true, err
	}
	// a failed write only costs a recompute later
	_ = c.Set(ctx, key, v, expire)
	return v, true, nil
}

func (c *Set[T]) Delete(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}
	key = c.key(key)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete value from redis")
		return err
	}
	return nil
}
