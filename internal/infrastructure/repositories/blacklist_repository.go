package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

const blacklistPrefix = "lovepink:revoked_token"

// BlacklistRedisRepository stores revoked access-token hashes until their
// natural expiry, so logout takes effect before the JWT itself runs out.
type BlacklistRedisRepository struct {
	client *redis.Client
}

var _ ports.SessionBlacklist = (*BlacklistRedisRepository)(nil)

func NewBlacklistRedisRepository(client *redis.Client) *BlacklistRedisRepository {
	return &BlacklistRedisRepository{client: client}
}

func (r *BlacklistRedisRepository) key(tokenHash string) string {
	return fmt.Sprintf("%s:%s", blacklistPrefix, tokenHash)
}

func (r *BlacklistRedisRepository) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	if err := r.client.Set(ctx, r.key(tokenHash), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *BlacklistRedisRepository) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	_, err := r.client.Get(ctx, r.key(tokenHash)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return true, nil
}
