package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when nothing is cached under a key
var ErrMiss = errors.New("cache miss")

const (
	tokenPrefix = "flightsearch:token:"
	keyPrefix   = "flightsearch:key:"
)

// RedisClientInterface defines the Redis operations used by the cache
type RedisClientInterface interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Close() error
}

// Cache stores raw search payloads for the lifetime of a results view.
// A payload lives under its token; the derived search key points at the token.
type Cache struct {
	client RedisClientInterface
	ttl    time.Duration
}

// New connects to Redis at addr
func New(addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, ttl), nil
}

// NewWithClient wraps an existing client (useful for testing)
func NewWithClient(client RedisClientInterface, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Store saves payload under token and points the derived key at it
func (c *Cache) Store(ctx context.Context, key, token string, payload *models.SearchPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal search payload: %w", err)
	}
	if err := c.client.Set(ctx, tokenPrefix+token, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store search payload: %w", err)
	}
	if key == "" {
		return nil
	}
	if err := c.client.Set(ctx, keyPrefix+key, token, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store search key: %w", err)
	}
	return nil
}

// Payload returns the payload stored under token
func (c *Cache) Payload(ctx context.Context, token string) (*models.SearchPayload, error) {
	data, err := c.client.Get(ctx, tokenPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get search payload: %w", err)
	}

	var payload models.SearchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search payload: %w", err)
	}
	return &payload, nil
}

// Token returns the token last stored for a derived search key
func (c *Cache) Token(ctx context.Context, key string) (string, error) {
	token, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get search key: %w", err)
	}
	return token, nil
}

