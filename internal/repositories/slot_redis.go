package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSlotStore keeps the snapshot under a single Redis key.
type RedisSlotStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisSlotStore creates a new instance of RedisSlotStore.
// An empty key falls back to DefaultSlot.
func NewRedisSlotStore(client redis.UniversalClient, key string) *RedisSlotStore {
	if key == "" {
		key = DefaultSlot
	}
	return &RedisSlotStore{
		client: client,
		key:    key,
	}
}

// Load fetches the snapshot.
func (s *RedisSlotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to get slot %s: %w", s.key, err)
	}
	return data, nil
}

// Save stores the snapshot without expiry.
func (s *RedisSlotStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set slot %s: %w", s.key, err)
	}
	return nil
}
