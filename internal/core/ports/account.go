package ports

import (
	"context"
	"io"

	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
)

// AccountRepository defines the interface for account persistence.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	GetByUsername(ctx context.Context, username string) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	Update(ctx context.Context, a *account.Account) error
	Delete(ctx context.Context, username string) error
}

// AvatarUpload carries an uploaded image through the service layer without
// binding it to the HTTP multipart types.
type AvatarUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// SecurityService orchestrates the account-security workflows: registration,
// recovery via emailed code, password change and profile update.
type SecurityService interface {
	Register(ctx context.Context, req *account.RegisterRequest, avatar *AvatarUpload) (*account.Account, error)

	// StartRecovery mints a fresh handle and mails a code to address. The
	// acknowledgment is identical whether or not address maps to an account.
	StartRecovery(ctx context.Context, address string) (handle string, err error)
	// VerifyRecoveryCode consumes the emailed code and returns a single-use
	// reset grant representing the verified state.
	VerifyRecoveryCode(ctx context.Context, handle, code string) (grant string, err error)
	// CompleteRecovery consumes the grant and persists the new credential.
	CompleteRecovery(ctx context.Context, handle, grant, newPassword, confirmPassword string) error

	ChangePassword(ctx context.Context, username string, req *account.ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, username string, req *account.UpdateProfileRequest, avatar *AvatarUpload) (*account.Account, error)
	Profile(ctx context.Context, username string) (*account.Account, error)
}
