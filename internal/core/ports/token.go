package ports

import (
	"context"

	"github.com/hoangit2k2/lovepink/internal/core/domain/token"
)

// TokenStore holds live verification tokens keyed by handle.
// Implementations may use process memory or Redis; either way they own the
// token exclusively and must be safe under arbitrary interleaving of Put,
// Get and Consume for the same handle.
type TokenStore interface {
	// Put stores t, replacing any live token for the same handle.
	Put(ctx context.Context, t *token.VerificationToken) error
	// Get returns the stored token or token.ErrNotFound.
	Get(ctx context.Context, handle string) (*token.VerificationToken, error)
	// Consume atomically checks code against the stored token and marks it
	// consumed. The read-check-mark sequence is a single operation: when two
	// callers race with the correct code, exactly one succeeds and the other
	// gets token.ErrAlreadyConsumed. A mismatch leaves the token live.
	Consume(ctx context.Context, handle, code string) error
	// Delete removes the token for handle; absence is not an error.
	Delete(ctx context.Context, handle string) error
}

// TokenService issues and validates verification codes.
type TokenService interface {
	// Issue mints a code bound to handle, stores it and delivers it to
	// recipient. Issuance fails (and leaves no live token behind) when
	// delivery fails.
	Issue(ctx context.Context, handle, recipient string) (*token.VerificationToken, error)
	// IssueGrant stores a code bound to handle without delivering it
	// anywhere; the code is handed back to the caller directly. Used for
	// the session-scoped reset grant after a recovery code checks out.
	IssueGrant(ctx context.Context, handle, recipient string) (*token.VerificationToken, error)
	// Validate consumes the presented code for handle and returns the
	// consumed token.
	Validate(ctx context.Context, handle, presented string) (*token.VerificationToken, error)
}
