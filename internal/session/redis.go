package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "console:session:"

// RedisStore keeps tokens in Redis so every console replica sees them.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func key(sellerID string) string {
	return keyPrefix + sellerID
}

// Put stores token; ttl <= 0 keeps it until deleted.
func (s *RedisStore) Put(ctx context.Context, sellerID, token string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key(sellerID), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sellerID string) (string, error) {
	token, err := s.client.Get(ctx, key(sellerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("redis get session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Delete(ctx context.Context, sellerID string) error {
	if err := s.client.Del(ctx, key(sellerID)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
