package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	impl "github.com/hoangit2k2/lovepink/internal/application/services"
)

type attemptRepoMock struct {
	incrementFn func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *attemptRepoMock) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	return m.incrementFn(ctx, key, window, keyPrefix, ttl)
}

func TestAttemptLimiter_CountsDownThenDenies(t *testing.T) {
	count := 0
	windowStart := time.Now().Truncate(time.Minute)
	repo := &attemptRepoMock{incrementFn: func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		count++
		return count, windowStart, nil
	}}

	limiter := impl.NewAttemptLimiterService(repo, &impl.AttemptLimiterConfig{AttemptsPerWindow: 3, Window: time.Minute}, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, reset, err := limiter.Allow(ctx, "h1")
		require.NoError(t, err)
		require.True(t, allowed)
		require.Equal(t, 3-(i+1), remaining)
		require.Equal(t, windowStart.Add(time.Minute), reset)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "h1")
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, 0, remaining)
}

func TestAttemptLimiter_TTLOutlivesWindow(t *testing.T) {
	var seenTTL time.Duration
	repo := &attemptRepoMock{incrementFn: func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		seenTTL = ttl
		return 1, time.Now().Truncate(window), nil
	}}

	limiter := impl.NewAttemptLimiterService(repo, &impl.AttemptLimiterConfig{AttemptsPerWindow: 5, Window: time.Minute}, testLogger())

	_, _, _, err := limiter.Allow(context.Background(), "h1")
	require.NoError(t, err)
	require.Greater(t, seenTTL, time.Minute)
}
