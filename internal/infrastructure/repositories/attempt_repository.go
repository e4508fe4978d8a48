package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

// AttemptRedisRepository implements attempt counter storage with Redis.
type AttemptRedisRepository struct {
	r redis.Cmdable
}

var _ ports.AttemptRepository = (*AttemptRedisRepository)(nil)

func NewAttemptRedisRepository(r redis.Cmdable) *AttemptRedisRepository {
	return &AttemptRedisRepository{r: r}
}

// IncrementWindow increments the per-key counter for a fixed window.
func (repo *AttemptRedisRepository) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(window)
	redisKey := fmt.Sprintf("%s:%s:%d", keyPrefix, key, windowStart.Unix())
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}
