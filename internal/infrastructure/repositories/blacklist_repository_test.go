package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hoangit2k2/lovepink/internal/infrastructure/repositories"
)

func TestBlacklistRepository_RevokeUntilExpiry(t *testing.T) {
	client, mr := newTestClient(t)
	repo := repositories.NewBlacklistRedisRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "hash1", time.Now().Add(time.Minute)))

	revoked, err := repo.IsRevoked(ctx, "hash1")
	require.NoError(t, err)
	require.True(t, revoked)

	// After the token's own expiry the entry is gone; the JWT check takes
	// over from there.
	mr.FastForward(2 * time.Minute)
	revoked, err = repo.IsRevoked(ctx, "hash1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestBlacklistRepository_ExpiredTokenNotStored(t *testing.T) {
	client, _ := newTestClient(t)
	repo := repositories.NewBlacklistRedisRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "hash1", time.Now().Add(-time.Minute)))

	revoked, err := repo.IsRevoked(ctx, "hash1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestBlacklistRepository_UnknownHashIsNotRevoked(t *testing.T) {
	client, _ := newTestClient(t)
	repo := repositories.NewBlacklistRedisRepository(client)

	revoked, err := repo.IsRevoked(context.Background(), "unknown")
	require.NoError(t, err)
	require.False(t, revoked)
}
