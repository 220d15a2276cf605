// Package cache provides the shipment attempt guard implementations: Redis
// for distributed deployments and an in-memory map for single instances and
// tests.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linenloft/backend/internal/domain/shipping"
)

// RedisAttemptGuard implements shipping.AttemptGuard on Redis, suitable for
// deployments where multiple instances fulfill orders concurrently.
type RedisAttemptGuard struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisAttemptGuard creates a Redis-based attempt guard
func NewRedisAttemptGuard(cfg RedisConfig) (*RedisAttemptGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAttemptGuard{
		client:    client,
		keyPrefix: "shipping:attempt:",
	}, nil
}

// NewRedisAttemptGuardWithClient creates a guard with an existing Redis
// client, useful for testing or when sharing a client across components.
func NewRedisAttemptGuardWithClient(client *redis.Client, keyPrefix string) *RedisAttemptGuard {
	if keyPrefix == "" {
		keyPrefix = "shipping:attempt:"
	}
	return &RedisAttemptGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Begin claims the order number with SETNX so the claim is atomic across
// instances. The TTL bounds how long a crashed attempt holds its claim.
func (g *RedisAttemptGuard) Begin(ctx context.Context, orderNumber string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.keyPrefix+orderNumber, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim shipment attempt: %w", err)
	}
	return ok, nil
}

// Release drops the claim for the order number
func (g *RedisAttemptGuard) Release(ctx context.Context, orderNumber string) error {
	if err := g.client.Del(ctx, g.keyPrefix+orderNumber).Err(); err != nil {
		return fmt.Errorf("failed to release shipment attempt: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisAttemptGuard) Close() error {
	return g.client.Close()
}

// Ensure RedisAttemptGuard implements AttemptGuard
var _ shipping.AttemptGuard = (*RedisAttemptGuard)(nil)
