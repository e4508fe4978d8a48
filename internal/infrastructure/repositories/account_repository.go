package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/db"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// AccountRepository implements the account repository interface on Postgres.
type AccountRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates a new account repository
func NewAccountRepository(database *db.Database, logger *logrus.Logger) *AccountRepository {
	return &AccountRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new account; a duplicate username or email maps to
// account.ErrConflict.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, full_name, phone, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, a.FullName, a.Phone, a.Image)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"username": a.Username}).Debug("db: duplicate account")
			}
			return account.ErrConflict
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"username": a.Username}).WithError(err).Error("db: failed to create account")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"username": a.Username}).Info("db: account created")
	}

	return nil
}

// GetByUsername retrieves an account by username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	var a account.Account
	query := `
		SELECT id, username, email, password_hash, full_name, phone, image, created_at, updated_at
		FROM accounts
		WHERE username = $1`

	err := r.db.DB.GetContext(ctx, &a, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"username": username}).Debug("db: account not found by username")
			}
			return nil, account.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"username": username}).WithError(err).Error("db: failed to get account by username")
		}
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}

	return &a, nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	var a account.Account
	query := `
		SELECT id, username, email, password_hash, full_name, phone, image, created_at, updated_at
		FROM accounts
		WHERE email = $1`

	err := r.db.DB.GetContext(ctx, &a, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": email}).Debug("db: account not found by email")
			}
			return nil, account.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to get account by email")
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return &a, nil
}

// Update updates an existing account
func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET email = $2, password_hash = $3, full_name = $4, phone = $5, image = $6, updated_at = $7
		WHERE username = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		a.Username, a.Email, a.PasswordHash, a.FullName, a.Phone, a.Image, a.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"username": a.Username}).WithError(err).Error("db: failed to update account")
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"username": a.Username}).Debug("db: update affected 0 rows - account not found")
		}
		return account.ErrNotFound
	}

	return nil
}

// Delete deletes an account by username
func (r *AccountRepository) Delete(ctx context.Context, username string) error {
	query := `DELETE FROM accounts WHERE username = $1`

	result, err := r.db.DB.ExecContext(ctx, query, username)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"username": username}).WithError(err).Error("db: failed to delete account")
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return account.ErrNotFound
	}

	return nil
}
