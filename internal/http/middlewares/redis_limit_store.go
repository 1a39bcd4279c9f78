package middlewares

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimitStore shares the fixed window across API replicas.
type RedisLimitStore struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimitStore(rdb redis.Cmdable, limit int, window time.Duration) *RedisLimitStore {
	return &RedisLimitStore{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: "mealhub:ratelimit:",
	}
}

func (s *RedisLimitStore) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := s.prefix + key

	count, err := s.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}

	// the first hit opens the window
	if count == 1 {
		if err := s.rdb.Expire(ctx, k, s.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count <= int64(s.limit) {
		return true, 0, nil
	}

	ttl, err := s.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		ttl = s.window
	}
	return false, ttl, nil
}
