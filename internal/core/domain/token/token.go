package token

import (
	"errors"
	"time"
)

// Validation failures are sentinel errors so callers can branch with
// errors.Is while the HTTP edge collapses them into one generic message.
var (
	ErrNotFound        = errors.New("verification token not found")
	ErrExpired         = errors.New("verification token expired")
	ErrAlreadyConsumed = errors.New("verification token already consumed")
	ErrCodeMismatch    = errors.New("verification code mismatch")
)

// VerificationToken is a short-lived, single-use code bound to an opaque
// client handle. The handle correlates requests; only the code is secret.
type VerificationToken struct {
	Handle    string    `json:"handle"`
	Code      string    `json:"code"`
	Recipient string    `json:"recipient"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
}

// IsExpired reports whether the token's lifetime has elapsed.
func (t *VerificationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsLive reports whether the token can still be consumed.
func (t *VerificationToken) IsLive() bool {
	return !t.Consumed && !t.IsExpired()
}
