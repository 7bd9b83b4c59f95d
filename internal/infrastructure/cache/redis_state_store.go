package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/ports"

	"github.com/redis/go-redis/v9"
)

const defaultStateKeyPrefix = "oauth:state:"

// RedisStateStore implements StateStore using Redis so several instances can share state
type RedisStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateStore connects to the Redis instance described by a redis:// URL
func NewRedisStateStore(ctx context.Context, redisURL string) (*RedisStateStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStateStoreWithClient(client, defaultStateKeyPrefix), nil
}

// NewRedisStateStoreWithClient wraps an existing client
func NewRedisStateStoreWithClient(client *redis.Client, keyPrefix string) *RedisStateStore {
	if keyPrefix == "" {
		keyPrefix = defaultStateKeyPrefix
	}
	return &RedisStateStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Save stores the session with ttl as the key expiry
func (s *RedisStateStore) Save(ctx context.Context, session *domain.OAuthSession, ttl time.Duration) error {
	stored := *session
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.ExpiresAt = stored.CreatedAt.Add(ttl)

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode oauth session: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+stored.State, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

// Consume atomically reads and deletes the session (GETDEL)
func (s *RedisStateStore) Consume(ctx context.Context, state string) (*domain.OAuthSession, error) {
	payload, err := s.client.GetDel(ctx, s.keyPrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume oauth state: %w", err)
	}

	var session domain.OAuthSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode oauth session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, nil
	}
	return &session, nil
}

// Close closes the Redis client
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

var _ ports.StateStore = (*RedisStateStore)(nil)
