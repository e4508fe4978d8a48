package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
	"github.com/hoangit2k2/lovepink/internal/utils"
)

// ErrTooManyAttempts is returned when code presentation for a handle
// exceeds the attempt budget inside one window.
var ErrTooManyAttempts = errors.New("too many verification attempts")

// SecurityService orchestrates registration, recovery, password change and
// profile update. The token lifecycle itself lives in TokenService; this
// layer sequences the state transitions and talks to the collaborators.
type SecurityService struct {
	repo    ports.AccountRepository
	tokens  ports.TokenService
	files   ports.FileStore
	limiter ports.AttemptLimiter
	logger  *logrus.Logger
}

var _ ports.SecurityService = (*SecurityService)(nil)

func NewSecurityService(repo ports.AccountRepository, tokens ports.TokenService, files ports.FileStore, limiter ports.AttemptLimiter, logger *logrus.Logger) *SecurityService {
	return &SecurityService{
		repo:    repo,
		tokens:  tokens,
		files:   files,
		limiter: limiter,
		logger:  logger,
	}
}

// Register validates the form, hashes the credential and persists the
// account, then stores the avatar if one was uploaded.
func (s *SecurityService) Register(ctx context.Context, req *account.RegisterRequest, avatar *ports.AvatarUpload) (*account.Account, error) {
	if req == nil || req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", account.ErrInvalidInput)
	}
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", account.ErrInvalidInput, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newAccount := &account.Account{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if avatar != nil && avatar.Size > 0 {
		newAccount.Image = utils.DeriveAvatarFilename(req.Username, avatar.Filename)
	}

	if err := s.repo.Create(ctx, newAccount); err != nil {
		return nil, err
	}

	if avatar != nil && avatar.Size > 0 {
		if err := s.files.Store(ctx, newAccount.Image, avatar.Content); err != nil {
			s.logger.WithFields(logrus.Fields{"username": req.Username, "image": newAccount.Image}).WithError(err).Error("failed to store avatar image")
			return nil, fmt.Errorf("failed to store avatar image: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{"username": newAccount.Username}).Info("account registered")
	return newAccount, nil
}

// StartRecovery mints a fresh handle and mails a verification code to
// address. The address is deliberately not checked against the account
// table first: the acknowledgment is identical for known and unknown
// addresses, so the endpoint cannot be used to enumerate accounts. An
// unknown address simply dead-ends later, at CompleteRecovery.
func (s *SecurityService) StartRecovery(ctx context.Context, address string) (string, error) {
	if address == "" {
		return "", fmt.Errorf("%w: address is required", account.ErrInvalidInput)
	}

	handle := uuid.NewString()
	if _, err := s.tokens.Issue(ctx, handle, address); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{"handle": handle}).Info("recovery started")
	return handle, nil
}

// VerifyRecoveryCode consumes the emailed code and exchanges it for a
// single-use reset grant. Attempts are rate-limited per handle so a
// mismatched code cannot be brute-forced within the token lifetime.
func (s *SecurityService) VerifyRecoveryCode(ctx context.Context, handle, code string) (string, error) {
	if handle == "" || code == "" {
		return "", fmt.Errorf("%w: handle and code are required", account.ErrInvalidInput)
	}

	if s.limiter != nil {
		allowed, _, _, err := s.limiter.Allow(ctx, handle)
		if err != nil {
			// A broken limiter should not grant unlimited attempts.
			s.logger.WithFields(logrus.Fields{"handle": handle}).WithError(err).Error("attempt limiter failure")
			return "", ErrTooManyAttempts
		}
		if !allowed {
			s.logger.WithFields(logrus.Fields{"handle": handle}).Warn("recovery attempt budget exhausted")
			return "", ErrTooManyAttempts
		}
	}

	consumed, err := s.tokens.Validate(ctx, handle, code)
	if err != nil {
		return "", err
	}

	// The grant supersedes the consumed code under the same handle and
	// carries the recovery address forward to CompleteRecovery.
	grant, err := s.tokens.IssueGrant(ctx, handle, consumed.Recipient)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset grant: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"handle": handle}).Info("recovery code verified")
	return grant.Code, nil
}

// CompleteRecovery consumes the reset grant and persists the new credential.
// The grant is single-use: repeating this call requires a full new recovery
// cycle.
func (s *SecurityService) CompleteRecovery(ctx context.Context, handle, grant, newPassword, confirmPassword string) error {
	if handle == "" || grant == "" {
		return fmt.Errorf("%w: handle and grant are required", account.ErrInvalidInput)
	}
	if newPassword != confirmPassword {
		return account.ErrConfirmationMismatch
	}
	if err := utils.ValidatePasswordStrength(newPassword); err != nil {
		return fmt.Errorf("%w: %v", account.ErrInvalidInput, err)
	}

	consumed, err := s.tokens.Validate(ctx, handle, grant)
	if err != nil {
		return err
	}

	acct, err := s.repo.GetByEmail(ctx, consumed.Recipient)
	if err != nil {
		// Recovery was started for an address with no account behind it.
		return account.ErrNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	acct.PasswordHash = string(hashedPassword)
	acct.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, acct); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"username": acct.Username}).Info("password recovered")
	return nil
}

// ChangePassword is the authenticated password change: the caller proves
// knowledge of the old credential instead of holding a reset grant.
func (s *SecurityService) ChangePassword(ctx context.Context, username string, req *account.ChangePasswordRequest) error {
	if req == nil || req.OldPassword == "" || req.NewPassword == "" {
		return fmt.Errorf("%w: old and new password are required", account.ErrInvalidInput)
	}
	if req.NewPassword != req.ConfirmPassword {
		return account.ErrConfirmationMismatch
	}
	if err := utils.ValidatePasswordStrength(req.NewPassword); err != nil {
		return fmt.Errorf("%w: %v", account.ErrInvalidInput, err)
	}

	acct, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("%w: old password does not match", account.ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	acct.PasswordHash = string(hashedPassword)
	acct.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, acct); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"username": username}).Info("password changed")
	return nil
}

// UpdateProfile applies the provided fields and swaps the avatar when a new
// one arrives. Deleting the previous image is best-effort: a stale file is
// recoverable by out-of-band cleanup, failing the whole update is not.
func (s *SecurityService) UpdateProfile(ctx context.Context, username string, req *account.UpdateProfileRequest, avatar *ports.AvatarUpload) (*account.Account, error) {
	acct, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req != nil {
		if req.Email != nil {
			acct.Email = *req.Email
		}
		if req.FullName != nil {
			acct.FullName = *req.FullName
		}
		if req.Phone != nil {
			acct.Phone = *req.Phone
		}
	}

	if avatar != nil && avatar.Size > 0 {
		if acct.Image != "" {
			if err := s.files.Delete(ctx, acct.Image); err != nil {
				s.logger.WithFields(logrus.Fields{"username": username, "image": acct.Image}).WithError(err).Warn("failed to delete previous avatar image")
			}
		}
		acct.Image = utils.DeriveAvatarFilename(username, avatar.Filename)
		if err := s.files.Store(ctx, acct.Image, avatar.Content); err != nil {
			return nil, fmt.Errorf("failed to store avatar image: %w", err)
		}
	}

	acct.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"username": username}).Info("profile updated")
	return acct, nil
}

// Profile returns the account backing the about-me page.
func (s *SecurityService) Profile(ctx context.Context, username string) (*account.Account, error) {
	return s.repo.GetByUsername(ctx, username)
}
