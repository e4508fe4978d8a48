package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
	"github.com/hoangit2k2/lovepink/internal/core/domain/token"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

// ErrDelivery wraps mail transport failures so the workflow can map them to
// a bounded user-facing outcome.
var ErrDelivery = fmt.Errorf("failed to deliver verification code")

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenServiceConfig groups the verification-token lifecycle parameters.
type TokenServiceConfig struct {
	CodePrefix      string
	CodeLength      int
	CodeTTL         time.Duration
	GrantTTL        time.Duration
	DeliveryTimeout time.Duration
}

// TokenService issues and validates short-lived single-use codes.
type TokenService struct {
	store  ports.TokenStore
	mailer ports.MailSender
	cfg    TokenServiceConfig
	logger *logrus.Logger
}

var _ ports.TokenService = (*TokenService)(nil)

func NewTokenService(store ports.TokenStore, mailer ports.MailSender, cfg TokenServiceConfig, logger *logrus.Logger) *TokenService {
	if cfg.CodeLength < 6 {
		cfg.CodeLength = 6
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = time.Minute
	}
	if cfg.GrantTTL <= 0 {
		cfg.GrantTTL = 10 * time.Minute
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}
	return &TokenService{store: store, mailer: mailer, cfg: cfg, logger: logger}
}

// generateCode draws uniformly from the uppercase-alphanumeric alphabet
// using crypto/rand, so codes are not predictable from timing or priors.
func (s *TokenService) generateCode() (string, error) {
	buf := make([]byte, s.cfg.CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return s.cfg.CodePrefix + string(buf), nil
}

// Issue mints a code for handle, stores it and mails it to recipient.
// Storing first and rolling back on delivery failure keeps the invariant
// that no live token exists whose code was never delivered.
func (s *TokenService) Issue(ctx context.Context, handle, recipient string) (*token.VerificationToken, error) {
	t, err := s.mint(ctx, handle, recipient, s.cfg.CodeTTL)
	if err != nil {
		return nil, err
	}

	deliverCtx, cancel := context.WithTimeout(ctx, s.cfg.DeliveryTimeout)
	defer cancel()

	if err := s.mailer.SendVerificationCode(deliverCtx, recipient, t.Code); err != nil {
		if delErr := s.store.Delete(ctx, handle); delErr != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"handle": handle}).WithError(delErr).Error("failed to roll back undeliverable token")
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"handle": handle, "recipient": recipient}).WithError(err).Warn("verification code delivery failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"handle": handle, "expires_at": t.ExpiresAt}).Info("verification code issued")
	}
	return t, nil
}

// IssueGrant stores a session-scoped code for handle without any delivery
// side effect; the caller hands the code straight back to the client.
func (s *TokenService) IssueGrant(ctx context.Context, handle, recipient string) (*token.VerificationToken, error) {
	return s.mint(ctx, handle, recipient, s.cfg.GrantTTL)
}

func (s *TokenService) mint(ctx context.Context, handle, recipient string, ttl time.Duration) (*token.VerificationToken, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: missing handle", account.ErrInvalidInput)
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &token.VerificationToken{
		Handle:    handle,
		Code:      code,
		Recipient: recipient,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	// Put replaces any live token for the handle: reissuing invalidates
	// the prior code.
	if err := s.store.Put(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}
	return t, nil
}

// Validate consumes the presented code. A missing code is an input error,
// never a crash; everything else defers to the store's atomic consume.
func (s *TokenService) Validate(ctx context.Context, handle, presented string) (*token.VerificationToken, error) {
	if handle == "" || presented == "" {
		return nil, fmt.Errorf("%w: missing handle or code", account.ErrInvalidInput)
	}
	if err := s.store.Consume(ctx, handle, presented); err != nil {
		return nil, err
	}
	// The consumed entry stays in the store until expiry, so the winner can
	// still read the recipient it was bound to.
	return s.store.Get(ctx, handle)
}
