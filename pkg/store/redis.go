package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. Payloads live under one key per artifact; an index
// set tracks which keys exist so listings don't need SCAN.
const (
	redisKeyPrefix = "clipper:artifact:"
	redisIndexKey  = "clipper:artifacts"
)

// RedisStore keeps artifacts in Redis. Expiration is delegated to Redis
// TTLs, so expired entries vanish without any cleanup pass. Suitable for
// multi-instance deployments that share one cache.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on top of an existing Redis client.
// The store takes ownership of the client; Close closes it.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// dialRedis connects to the Redis instance named by a redis:// URL and
// verifies the connection before handing it to NewRedisStore.
func dialRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func (s *RedisStore) makeKey(key string) string {
	return redisKeyPrefix + key
}

// Get retrieves the payload stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.makeKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(fmt.Errorf("redis get %s: %w", key, err))
	}
	return data, true, nil
}

// Set stores data under key and records it in the index set.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	rkey := s.makeKey(key)
	if err := s.client.Set(ctx, rkey, data, ttl).Err(); err != nil {
		return Retryable(fmt.Errorf("redis set %s: %w", key, err))
	}
	if err := s.client.SAdd(ctx, redisIndexKey, rkey).Err(); err != nil {
		return Retryable(fmt.Errorf("redis index %s: %w", key, err))
	}
	return nil
}

// Delete removes the entry for key and its index membership.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	rkey := s.makeKey(key)
	if err := s.client.Del(ctx, rkey).Err(); err != nil {
		return Retryable(fmt.Errorf("redis del %s: %w", key, err))
	}
	if err := s.client.SRem(ctx, redisIndexKey, rkey).Err(); err != nil {
		return Retryable(fmt.Errorf("redis unindex %s: %w", key, err))
	}
	return nil
}

// Keys returns the live keys in lexicographic order. Index members whose
// payload key has since expired are skipped.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, Retryable(fmt.Errorf("redis list: %w", err))
	}
	if len(members) == 0 {
		return nil, nil
	}
	values, err := s.client.MGet(ctx, members...).Result()
	if err != nil {
		return nil, Retryable(fmt.Errorf("redis list: %w", err))
	}
	keys := make([]string, 0, len(members))
	for i, val := range values {
		if val == nil {
			continue
		}
		keys = append(keys, strings.TrimPrefix(members[i], redisKeyPrefix))
	}
	slices.Sort(keys)
	return keys, nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store and Lister.
var (
	_ Store  = (*RedisStore)(nil)
	_ Lister = (*RedisStore)(nil)
)
