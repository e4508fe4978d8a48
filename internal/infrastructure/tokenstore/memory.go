package tokenstore

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hoangit2k2/lovepink/internal/core/domain/token"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

const shardCount = 32

// MemoryStore is an in-process TokenStore sharded by handle so that
// unrelated recovery flows never contend on one lock. The shard mutex is
// held across the whole check in Consume, which makes read-check-mark a
// single atomic step: of two racing callers with the correct code, exactly
// one marks the token consumed.
type MemoryStore struct {
	shards [shardCount]*shard
	logger *logrus.Logger
}

type shard struct {
	mu     sync.Mutex
	tokens map[string]*token.VerificationToken
}

var _ ports.TokenStore = (*MemoryStore)(nil)

func NewMemoryStore(logger *logrus.Logger) *MemoryStore {
	s := &MemoryStore{logger: logger}
	for i := range s.shards {
		s.shards[i] = &shard{tokens: make(map[string]*token.VerificationToken)}
	}
	return s
}

func (s *MemoryStore) shardFor(handle string) *shard {
	h := fnv.New32a()
	h.Write([]byte(handle))
	return s.shards[h.Sum32()%shardCount]
}

// Put stores t, replacing any prior token for the same handle. The replaced
// token is simply dropped; a code from a superseded issuance never validates.
func (s *MemoryStore) Put(_ context.Context, t *token.VerificationToken) error {
	sh := s.shardFor(t.Handle)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	cp := *t
	sh.tokens[t.Handle] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, handle string) (*token.VerificationToken, error) {
	sh := s.shardFor(handle)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	t, ok := sh.tokens[handle]
	if !ok {
		return nil, token.ErrNotFound
	}
	if t.IsExpired() {
		delete(sh.tokens, handle)
		return nil, token.ErrExpired
	}
	cp := *t
	return &cp, nil
}

// Consume checks code against the stored token and marks it consumed under
// the shard lock. Expired entries are evicted eagerly on this path; a
// mismatch leaves the token live so the caller may retry until expiry.
func (s *MemoryStore) Consume(_ context.Context, handle, code string) error {
	sh := s.shardFor(handle)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	t, ok := sh.tokens[handle]
	if !ok {
		return token.ErrNotFound
	}
	if t.IsExpired() {
		delete(sh.tokens, handle)
		return token.ErrExpired
	}
	if t.Consumed {
		return token.ErrAlreadyConsumed
	}
	if t.Code != code {
		return token.ErrCodeMismatch
	}
	t.Consumed = true
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, handle string) error {
	sh := s.shardFor(handle)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	delete(sh.tokens, handle)
	return nil
}

// StartJanitor sweeps expired entries until ctx is done. Expiry is already
// enforced lazily at access time; the sweep only keeps memory bounded when
// codes are issued and never presented.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				evicted := s.sweep()
				if evicted > 0 && s.logger != nil {
					s.logger.WithFields(logrus.Fields{"evicted": evicted}).Debug("token janitor: evicted expired tokens")
				}
			}
		}
	}()
}

func (s *MemoryStore) sweep() int {
	evicted := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for handle, t := range sh.tokens {
			if t.IsExpired() {
				delete(sh.tokens, handle)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	return evicted
}
