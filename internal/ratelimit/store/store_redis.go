package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"veria/internal/ratelimit/models"
)

// RedisStore is a Redis-backed fixed-window counter shared by every proxy
// instance. The window starts at the first request: INCR creates the key and
// EXPIRE NX arms its TTL once, so windows are whole seconds.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore constructs a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

// Allow counts one request against key and reports whether it fits the limit.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit counter %s: %w", key, err)
	}

	now := s.now()
	ttl := pttl.Val()
	if ttl <= 0 {
		ttl = window
	}
	return models.NewResult(int(incr.Val()), limit, now.Add(ttl), now), nil
}

// Reset clears the counter for a key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
