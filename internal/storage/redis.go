package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSlot keeps a slot as a single Redis string key.
type RedisSlot struct {
	client *redis.Client
	key    string
	owned  bool
}

// NewRedisSlot wraps an existing client. Close does not close the client.
func NewRedisSlot(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

// OpenRedisSlot connects using a redis:// URL and verifies the connection.
func OpenRedisSlot(ctx context.Context, redisURL, key string) (*RedisSlot, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisSlot{client: client, key: key, owned: true}, nil
}

// Sibling returns a slot for another key sharing this slot's client.
func (s *RedisSlot) Sibling(key string) *RedisSlot {
	return &RedisSlot{client: s.client, key: key}
}

// Key returns the slot key.
func (s *RedisSlot) Key() string { return s.key }

// Read fetches the key.
func (s *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", s.key, err)
	}
	return data, nil
}

// Write sets the key without expiry.
func (s *RedisSlot) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", s.key, err)
	}
	return nil
}

// Close releases the client if this slot opened it.
func (s *RedisSlot) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}
