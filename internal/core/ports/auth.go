package ports

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
)

// Claims are the JWT claims carried by an access token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService defines the interface for the authentication handoff.
type AuthService interface {
	Login(ctx context.Context, req *account.LoginRequest) (*account.TokenPair, error)
	Logout(ctx context.Context, tokenStr string) error
	ValidateToken(ctx context.Context, tokenStr string) (*Claims, error)
}

// SessionBlacklist stores revoked access tokens until their natural expiry.
type SessionBlacklist interface {
	Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}
