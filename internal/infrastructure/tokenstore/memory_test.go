package tokenstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hoangit2k2/lovepink/internal/core/domain/token"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/tokenstore"
)

func newToken(handle, code string, ttl time.Duration) *token.VerificationToken {
	now := time.Now()
	return &token.VerificationToken{
		Handle:    handle,
		Code:      code,
		Recipient: "user@example.com",
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newToken("h1", "LP-AAAA1111", time.Minute)))

	got, err := store.Get(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, "LP-AAAA1111", got.Code)
	require.Equal(t, "user@example.com", got.Recipient)
	require.True(t, got.IsLive())

	require.NoError(t, store.Consume(ctx, "h1", "LP-AAAA1111"))

	// The consumed entry stays readable until expiry but is spent.
	got, err = store.Get(ctx, "h1")
	require.NoError(t, err)
	require.True(t, got.Consumed)

	err = store.Consume(ctx, "h1", "LP-AAAA1111")
	require.ErrorIs(t, err, token.ErrAlreadyConsumed)
}

func TestMemoryStore_PutReplacesPrior(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newToken("h1", "LP-FIRST111", time.Minute)))
	require.NoError(t, store.Put(ctx, newToken("h1", "LP-SECOND22", time.Minute)))

	err := store.Consume(ctx, "h1", "LP-FIRST111")
	require.ErrorIs(t, err, token.ErrCodeMismatch)

	require.NoError(t, store.Consume(ctx, "h1", "LP-SECOND22"))
}

func TestMemoryStore_MismatchLeavesTokenLive(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newToken("h1", "LP-RIGHT111", time.Minute)))

	err := store.Consume(ctx, "h1", "LP-WRONG111")
	require.ErrorIs(t, err, token.ErrCodeMismatch)

	// The right code still works after a failed guess.
	require.NoError(t, store.Consume(ctx, "h1", "LP-RIGHT111"))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newToken("h1", "LP-AAAA1111", 20*time.Millisecond)))
	time.Sleep(50 * time.Millisecond)

	err := store.Consume(ctx, "h1", "LP-AAAA1111")
	require.ErrorIs(t, err, token.ErrExpired)

	// The expired entry was evicted on access.
	_, err = store.Get(ctx, "h1")
	require.ErrorIs(t, err, token.ErrNotFound)
}

func TestMemoryStore_UnknownHandle(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)
	ctx := context.Background()

	_, err := store.Get(ctx, "nope")
	require.ErrorIs(t, err, token.ErrNotFound)

	err = store.Consume(ctx, "nope", "LP-AAAA1111")
	require.ErrorIs(t, err, token.ErrNotFound)

	// Deleting an absent handle is not an error.
	require.NoError(t, store.Delete(ctx, "nope"))
}

func TestMemoryStore_ConcurrentConsume_ExactlyOneWinner(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newToken("h1", "LP-AAAA1111", time.Minute)))

	const racers = 16
	var wg sync.WaitGroup
	results := make([]error, racers)
	start := make(chan struct{})

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = store.Consume(ctx, "h1", "LP-AAAA1111")
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, token.ErrAlreadyConsumed)
		}
	}
	require.Equal(t, 1, winners)
}

func TestMemoryStore_JanitorEvictsExpired(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Put(ctx, newToken("h1", "LP-AAAA1111", 10*time.Millisecond)))
	store.StartJanitor(ctx, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		_, err := store.Get(context.Background(), "h1")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}
