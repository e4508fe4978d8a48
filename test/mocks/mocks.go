package mocks

import (
	"context"
	"io"
	"time"

	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
	"github.com/hoangit2k2/lovepink/internal/core/domain/token"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

// AccountRepositoryMock is a lightweight mock for AccountRepository
type AccountRepositoryMock struct {
	CreateFn        func(ctx context.Context, a *account.Account) error
	GetByUsernameFn func(ctx context.Context, username string) (*account.Account, error)
	GetByEmailFn    func(ctx context.Context, email string) (*account.Account, error)
	UpdateFn        func(ctx context.Context, a *account.Account) error
	DeleteFn        func(ctx context.Context, username string) error
}

func (m *AccountRepositoryMock) Create(ctx context.Context, a *account.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}
func (m *AccountRepositoryMock) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, account.ErrNotFound
}
func (m *AccountRepositoryMock) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, account.ErrNotFound
}
func (m *AccountRepositoryMock) Update(ctx context.Context, a *account.Account) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, a)
	}
	return nil
}
func (m *AccountRepositoryMock) Delete(ctx context.Context, username string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, username)
	}
	return nil
}

// TokenStoreMock is a lightweight mock for TokenStore
type TokenStoreMock struct {
	PutFn     func(ctx context.Context, t *token.VerificationToken) error
	GetFn     func(ctx context.Context, handle string) (*token.VerificationToken, error)
	ConsumeFn func(ctx context.Context, handle, code string) error
	DeleteFn  func(ctx context.Context, handle string) error
}

func (m *TokenStoreMock) Put(ctx context.Context, t *token.VerificationToken) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, t)
	}
	return nil
}
func (m *TokenStoreMock) Get(ctx context.Context, handle string) (*token.VerificationToken, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, handle)
	}
	return nil, token.ErrNotFound
}
func (m *TokenStoreMock) Consume(ctx context.Context, handle, code string) error {
	if m.ConsumeFn != nil {
		return m.ConsumeFn(ctx, handle, code)
	}
	return nil
}
func (m *TokenStoreMock) Delete(ctx context.Context, handle string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, handle)
	}
	return nil
}

// TokenServiceMock is a lightweight mock for TokenService
type TokenServiceMock struct {
	IssueFn      func(ctx context.Context, handle, recipient string) (*token.VerificationToken, error)
	IssueGrantFn func(ctx context.Context, handle, recipient string) (*token.VerificationToken, error)
	ValidateFn   func(ctx context.Context, handle, presented string) (*token.VerificationToken, error)
}

func (m *TokenServiceMock) Issue(ctx context.Context, handle, recipient string) (*token.VerificationToken, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, handle, recipient)
	}
	return &token.VerificationToken{Handle: handle, Recipient: recipient}, nil
}
func (m *TokenServiceMock) IssueGrant(ctx context.Context, handle, recipient string) (*token.VerificationToken, error) {
	if m.IssueGrantFn != nil {
		return m.IssueGrantFn(ctx, handle, recipient)
	}
	return &token.VerificationToken{Handle: handle, Recipient: recipient}, nil
}
func (m *TokenServiceMock) Validate(ctx context.Context, handle, presented string) (*token.VerificationToken, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, handle, presented)
	}
	return nil, token.ErrNotFound
}

// SecurityServiceMock is a lightweight mock for SecurityService
type SecurityServiceMock struct {
	RegisterFn           func(ctx context.Context, req *account.RegisterRequest, avatar *ports.AvatarUpload) (*account.Account, error)
	StartRecoveryFn      func(ctx context.Context, address string) (string, error)
	VerifyRecoveryCodeFn func(ctx context.Context, handle, code string) (string, error)
	CompleteRecoveryFn   func(ctx context.Context, handle, grant, newPassword, confirmPassword string) error
	ChangePasswordFn     func(ctx context.Context, username string, req *account.ChangePasswordRequest) error
	UpdateProfileFn      func(ctx context.Context, username string, req *account.UpdateProfileRequest, avatar *ports.AvatarUpload) (*account.Account, error)
	ProfileFn            func(ctx context.Context, username string) (*account.Account, error)
}

func (m *SecurityServiceMock) Register(ctx context.Context, req *account.RegisterRequest, avatar *ports.AvatarUpload) (*account.Account, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req, avatar)
	}
	return &account.Account{Username: req.Username, Email: req.Email}, nil
}
func (m *SecurityServiceMock) StartRecovery(ctx context.Context, address string) (string, error) {
	if m.StartRecoveryFn != nil {
		return m.StartRecoveryFn(ctx, address)
	}
	return "handle", nil
}
func (m *SecurityServiceMock) VerifyRecoveryCode(ctx context.Context, handle, code string) (string, error) {
	if m.VerifyRecoveryCodeFn != nil {
		return m.VerifyRecoveryCodeFn(ctx, handle, code)
	}
	return "grant", nil
}
func (m *SecurityServiceMock) CompleteRecovery(ctx context.Context, handle, grant, newPassword, confirmPassword string) error {
	if m.CompleteRecoveryFn != nil {
		return m.CompleteRecoveryFn(ctx, handle, grant, newPassword, confirmPassword)
	}
	return nil
}
func (m *SecurityServiceMock) ChangePassword(ctx context.Context, username string, req *account.ChangePasswordRequest) error {
	if m.ChangePasswordFn != nil {
		return m.ChangePasswordFn(ctx, username, req)
	}
	return nil
}
func (m *SecurityServiceMock) UpdateProfile(ctx context.Context, username string, req *account.UpdateProfileRequest, avatar *ports.AvatarUpload) (*account.Account, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, username, req, avatar)
	}
	return &account.Account{Username: username}, nil
}
func (m *SecurityServiceMock) Profile(ctx context.Context, username string) (*account.Account, error) {
	if m.ProfileFn != nil {
		return m.ProfileFn(ctx, username)
	}
	return &account.Account{Username: username}, nil
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	LoginFn         func(ctx context.Context, req *account.LoginRequest) (*account.TokenPair, error)
	LogoutFn        func(ctx context.Context, tokenStr string) error
	ValidateTokenFn func(ctx context.Context, tokenStr string) (*ports.Claims, error)
}

func (m *AuthServiceMock) Login(ctx context.Context, req *account.LoginRequest) (*account.TokenPair, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return &account.TokenPair{AccessToken: "access-x", ExpiresAt: time.Now().Add(time.Hour)}, nil
}
func (m *AuthServiceMock) Logout(ctx context.Context, tokenStr string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, tokenStr)
	}
	return nil
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, tokenStr string) (*ports.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenStr)
	}
	return &ports.Claims{Username: "alice"}, nil
}

// MailSenderMock is a lightweight mock for MailSender
type MailSenderMock struct {
	SendVerificationCodeFn func(ctx context.Context, recipient, code string) error
}

func (m *MailSenderMock) SendVerificationCode(ctx context.Context, recipient, code string) error {
	if m.SendVerificationCodeFn != nil {
		return m.SendVerificationCodeFn(ctx, recipient, code)
	}
	return nil
}

// FileStoreMock is a lightweight mock for FileStore
type FileStoreMock struct {
	StoreFn  func(ctx context.Context, name string, content io.Reader) error
	DeleteFn func(ctx context.Context, name string) error
}

func (m *FileStoreMock) Store(ctx context.Context, name string, content io.Reader) error {
	if m.StoreFn != nil {
		return m.StoreFn(ctx, name, content)
	}
	return nil
}
func (m *FileStoreMock) Delete(ctx context.Context, name string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, name)
	}
	return nil
}

// AttemptLimiterMock is a lightweight mock for AttemptLimiter
type AttemptLimiterMock struct {
	AllowFn func(ctx context.Context, key string) (bool, int, time.Time, error)
}

func (m *AttemptLimiterMock) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, key)
	}
	return true, 1, time.Now().Add(time.Minute), nil
}

// SessionBlacklistMock is a lightweight mock for SessionBlacklist
type SessionBlacklistMock struct {
	RevokeFn    func(ctx context.Context, tokenHash string, expiresAt time.Time) error
	IsRevokedFn func(ctx context.Context, tokenHash string) (bool, error)
}

func (m *SessionBlacklistMock) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, tokenHash, expiresAt)
	}
	return nil
}
func (m *SessionBlacklistMock) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, tokenHash)
	}
	return false, nil
}
