package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	config "github.com/hoangit2k2/lovepink/configs"
	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

// AuthService implements the authentication handoff: credential check on
// login, HS256 access tokens, and a redis-backed blacklist for logout.
type AuthService struct {
	repo      ports.AccountRepository
	blacklist ports.SessionBlacklist
	jwtConfig *config.JWTConfig
	logger    *logrus.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(repo ports.AccountRepository, blacklist ports.SessionBlacklist, jwtConfig *config.JWTConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		blacklist: blacklist,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (s *AuthService) Login(ctx context.Context, req *account.LoginRequest) (*account.TokenPair, error) {
	foundAccount, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundAccount.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	expiresAt := time.Now().Add(s.jwtConfig.AccessTokenTTL)
	claims := &ports.Claims{
		Username: foundAccount.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   foundAccount.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"username": foundAccount.Username}).Info("login succeeded")
	}
	return &account.TokenPair{AccessToken: tokenStr, ExpiresAt: expiresAt}, nil
}

// Logout blacklists the presented token until its natural expiry; a revoked
// token that would already be rejected by the expiry check is not stored.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	claims, err := s.ValidateToken(ctx, tokenStr)
	if err != nil {
		return nil // already unusable
	}

	expiresAt := claims.ExpiresAt.Time
	if err := s.blacklist.Revoke(ctx, s.tokenHash(tokenStr), expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"username": claims.Username}).Info("logout")
	}
	return nil
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenStr string) (*ports.Claims, error) {
	claims := &ports.Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, s.tokenHash(tokenStr))
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("token revoked")
		}
	}

	return claims, nil
}

func (s *AuthService) tokenHash(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return hex.EncodeToString(sum[:])
}
