package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "order:idem:"

// IdempotencyStore implements repository.IdempotencyStore using Redis SETNX.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a Redis-backed idempotency store.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Reserve claims the key for orderID. The first caller wins; later callers get
// the winning order ID back with created=false.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, orderID string, ttl time.Duration) (string, bool, error) {
	redisKey := idempotencyKeyPrefix + key

	ok, err := s.client.SetNX(ctx, redisKey, orderID, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return orderID, true, nil
	}

	existing, err := s.client.Get(ctx, redisKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Key expired between SETNX and GET; claim it fresh.
			return orderID, true, nil
		}
		return "", false, fmt.Errorf("read idempotency key: %w", err)
	}

	return existing, false, nil
}

// Release frees the key after a failed insert. Deleting a key that is already
// gone is not an error.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
