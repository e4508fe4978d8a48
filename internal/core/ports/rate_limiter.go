package ports

import (
	"context"
	"time"
)

// AttemptRepository provides atomic counter storage for attempt limiting.
// It abstracts storage (e.g., Redis). Implementations must be concurrency-safe.
type AttemptRepository interface {
	// IncrementWindow atomically increments the attempt counter for key in
	// the current fixed window and ensures the key expires after ttl.
	// Returns the updated count and the window start time.
	IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// AttemptLimiter bounds how often a recovery code may be presented for one
// handle, so a mismatched code cannot be brute-forced within the token TTL.
type AttemptLimiter interface {
	// Allow consumes one attempt for key and reports whether it is permitted.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, reset time.Time, err error)
}
