package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "relay:dispatched:"

// Claims outlive any realistic client retry window; after that the key may
// expire without risking a duplicate send.
const redisClaimTTL = 7 * 24 * time.Hour

// RedisStore claims keys with SETNX, so dispatch stays at-most-once across
// process restarts and replicas.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, redisKeyPrefix+key, 1, redisClaimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
