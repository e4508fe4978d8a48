package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConflict             = errors.New("username already exists")
	ErrNotFound             = errors.New("account not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrConfirmationMismatch = errors.New("password confirmation does not match")
)

// Account is the persisted identity the security workflows operate on.
// PasswordHash is a bcrypt hash; the plaintext credential never leaves the
// service layer.
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Phone        string    `json:"phone" db:"phone"`
	Image        string    `json:"image" db:"image"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
	FullName string `json:"full_name" form:"full_name" validate:"required"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,min=6,max=20"`
}

// UpdateProfileRequest updates profile fields; nil means leave unchanged.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
}

// ChangePasswordRequest is the authenticated password-change form.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest is the credential pair presented at the auth handoff.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is returned on successful login.
type TokenPair struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
