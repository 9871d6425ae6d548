package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "rf:revoked:"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Exists(context.Context, ...string) *redis.IntCmd
}

type (
	// Revoker remembers logged-out tokens until they would have expired anyway.
	Revoker interface {
		Revoke(ctx context.Context, token string, expiresAt time.Time) error
		IsRevoked(ctx context.Context, token string) (bool, error)
	}

	redisRevoker struct {
		store cmdable
	}

	noopRevoker struct{}
)

// NewRedisRevoker connects to url and verifies connectivity.
func NewRedisRevoker(ctx context.Context, url string) (Revoker, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &redisRevoker{store: raw}, nil
}

// NewNoopRevoker is used when no redis is configured: logout only clears the
// client cookie.
func NewNoopRevoker() Revoker {
	return noopRevoker{}
}

func (r *redisRevoker) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.store.Set(ctx, key(token), "1", ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.store.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (noopRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (noopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedPrefix + hex.EncodeToString(sum[:])
}
