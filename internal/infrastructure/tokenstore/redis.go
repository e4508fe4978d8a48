package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/hoangit2k2/lovepink/internal/core/domain/token"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

const (
	// verificationTokenPrefix prefixes Redis keys for verification tokens.
	// It's a static prefix and not a credential; silence gosec G101 here.
	verificationTokenPrefix = "lovepink:verification_token" //nolint:gosec
)

// consumeScript performs the read-check-mark sequence server-side so that
// two racing validators cannot both succeed. The consumed token stays in
// place until its TTL runs out, which is what lets the losing racer observe
// the replay instead of a bare miss.
var consumeScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then return 'missing' end
local t = cjson.decode(v)
if t.consumed then return 'consumed' end
if t.code ~= ARGV[1] then return 'mismatch' end
t.consumed = true
redis.call('SET', KEYS[1], cjson.encode(t), 'KEEPTTL')
return 'ok'
`)

// RedisStore is a TokenStore backed by Redis, for deployments where
// recovery must survive process restarts and span replicas. Expiry rides on
// the key TTL, so an expired entry reports token.ErrNotFound.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

var _ ports.TokenStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, logger *logrus.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) key(handle string) string {
	return fmt.Sprintf("%s:%s", verificationTokenPrefix, handle)
}

func (s *RedisStore) Put(ctx context.Context, t *token.VerificationToken) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal verification token: %w", err)
	}

	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("verification token already expired")
	}

	// SET replaces any prior token for the handle, enforcing the
	// at-most-one-live-token invariant.
	if err := s.client.Set(ctx, s.key(t.Handle), b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification token in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, handle string) (*token.VerificationToken, error) {
	b, err := s.client.Get(ctx, s.key(handle)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, token.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get verification token from redis: %w", err)
	}

	var t token.VerificationToken
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification token: %w", err)
	}
	return &t, nil
}

func (s *RedisStore) Consume(ctx context.Context, handle, code string) error {
	res, err := consumeScript.Run(ctx, s.client, []string{s.key(handle)}, code).Result()
	if err != nil {
		return fmt.Errorf("failed to consume verification token: %w", err)
	}

	switch res {
	case "ok":
		return nil
	case "missing":
		return token.ErrNotFound
	case "consumed":
		return token.ErrAlreadyConsumed
	case "mismatch":
		return token.ErrCodeMismatch
	default:
		return fmt.Errorf("unexpected consume result %v", res)
	}
}

func (s *RedisStore) Delete(ctx context.Context, handle string) error {
	if err := s.client.Del(ctx, s.key(handle)).Err(); err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}
	return nil
}
