package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	values map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, _ any, expiration time.Duration) *redis.StatusCmd {
	m.values[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.values[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisRevoker(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	revoker := &redisRevoker{store: mock}

	revoked, err := revoker.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "token-a", time.Now().Add(time.Hour)))

	revoked, err = revoker.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)

	ttl := mock.values[key("token-a")]
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestRedisRevokerSkipsExpiredTokens(t *testing.T) {
	mock := newMockCmdable()
	revoker := &redisRevoker{store: mock}

	require.NoError(t, revoker.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.Empty(t, mock.values)
}

func TestKeyDoesNotContainToken(t *testing.T) {
	k := key("secret-token")
	assert.NotContains(t, k, "secret-token")
	assert.Equal(t, revokedPrefix, k[:len(revokedPrefix)])
}

func TestNoopRevoker(t *testing.T) {
	revoker := NewNoopRevoker()
	require.NoError(t, revoker.Revoke(context.Background(), "t", time.Now().Add(time.Hour)))
	revoked, err := revoker.IsRevoked(context.Background(), "t")
	require.NoError(t, err)
	assert.False(t, revoked)
}
