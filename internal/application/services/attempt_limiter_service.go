package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

// AttemptLimiterService implements per-handle fixed-window attempt limiting
// on top of an atomic counter repository.
type AttemptLimiterService struct {
	repo      ports.AttemptRepository
	limit     int
	window    time.Duration
	keyPrefix string
	logger    *logrus.Logger
}

// AttemptLimiterConfig groups configuration parameters for the limiter.
type AttemptLimiterConfig struct {
	AttemptsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

var _ ports.AttemptLimiter = (*AttemptLimiterService)(nil)

func NewAttemptLimiterService(repo ports.AttemptRepository, cfg *AttemptLimiterConfig, logger *logrus.Logger) *AttemptLimiterService {
	// Apply defaults
	limit := 5
	w := time.Minute
	kp := "ratelimit:recovery"
	if cfg != nil {
		if cfg.AttemptsPerWindow > 0 {
			limit = cfg.AttemptsPerWindow
		}
		if cfg.Window > 0 {
			w = cfg.Window
		}
		if cfg.KeyPrefix != "" {
			kp = cfg.KeyPrefix
		}
	}
	return &AttemptLimiterService{repo: repo, limit: limit, window: w, keyPrefix: kp, logger: logger}
}

func (s *AttemptLimiterService) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	// Counter TTL outlives the window slightly so a reset boundary cannot
	// leak extra attempts.
	ttl := s.window + 5*time.Second
	count, windowStart, err := s.repo.IncrementWindow(ctx, key, s.window, s.keyPrefix, ttl)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	reset := windowStart.Add(s.window)
	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= s.limit, remaining, reset, nil
}
