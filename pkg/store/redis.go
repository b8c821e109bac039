package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps scores in Redis with server-side expiration. It is the
// backend for multi-instance deployments, where any instance must be able
// to serve a generate request for an upload taken by another.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection. The ping
// retries with backoff: an orchestrated startup often races the Redis
// container.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := retryConnect(ctx, func() error {
		return transient(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "handflow:score:"}, nil
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

// Get retrieves a score. Redis expires entries itself; the explicit check
// covers clock skew between the writing and reading instance.
func (s *RedisStore) Get(ctx context.Context, id string) (*Score, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sc Score
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse stored score: %w", err)
	}
	if sc.IsExpired() {
		_ = s.client.Del(ctx, s.key(id)).Err()
		return nil, ErrExpired
	}
	return &sc, nil
}

// Set stores a score with its remaining TTL.
func (s *RedisStore) Set(ctx context.Context, sc *Score) error {
	ttl := time.Until(sc.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sc.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a score.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Cleanup is a no-op: Redis expires entries server-side.
func (s *RedisStore) Cleanup(ctx context.Context) error {
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
