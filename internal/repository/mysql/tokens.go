package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

// RefreshTokenRepository implements CRUD operations for refresh tokens over DBTX.
type RefreshTokenRepository struct {
	db DBTX
}

// NewRefreshTokenRepository constructs a repository bound to the given DBTX.
func NewRefreshTokenRepository(db DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create inserts a refresh token. A nil ExpiresAt stores a token without a lifetime.
func (r *RefreshTokenRepository) Create(ctx context.Context, t *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, t.UserID, t.Token, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	if t.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	return nil
}

// Find returns the refresh token row for the given token string.
func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*model.RefreshToken, error) {
	return r.find(ctx, `SELECT id, user_id, token, created_at, expires_at FROM refresh_tokens WHERE token = ?`, token)
}

// FindForUpdate locks and returns the refresh token row.
func (r *RefreshTokenRepository) FindForUpdate(ctx context.Context, token string) (*model.RefreshToken, error) {
	return r.find(ctx, `SELECT id, user_id, token, created_at, expires_at FROM refresh_tokens WHERE token = ? FOR UPDATE`, token)
}

func (r *RefreshTokenRepository) find(ctx context.Context, query, token string) (*model.RefreshToken, error) {
	t := &model.RefreshToken{}
	if err := sqlx.GetContext(ctx, r.db, t, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTokenNotFound
		}
		return nil, fmt.Errorf("select refresh token: %w", err)
	}
	return t, nil
}

// Delete removes a refresh token by its token string.
func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// Consume deletes a refresh token that must still exist.
func (r *RefreshTokenRepository) Consume(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("consume refresh token: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrTokenNotFound
	}
	return nil
}

// PasswordResetRepository handles password reset token persistence.
type PasswordResetRepository struct {
	db DBTX
}

// NewPasswordResetRepository constructs a repository bound to the given DBTX.
func NewPasswordResetRepository(db DBTX) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create inserts an unused reset token.
func (r *PasswordResetRepository) Create(ctx context.Context, pr *model.PasswordReset) error {
	query := `INSERT INTO password_resets (user_id, token, expires_at, used) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, pr.UserID, pr.Token, pr.ExpiresAt, pr.Used)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	if pr.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	return nil
}

// GetForUpdate locks and returns the reset token row.
func (r *PasswordResetRepository) GetForUpdate(ctx context.Context, token string) (*model.PasswordReset, error) {
	query := `SELECT id, user_id, token, expires_at, used, created_at
		FROM password_resets WHERE token = ? FOR UPDATE`

	pr := &model.PasswordReset{}
	if err := sqlx.GetContext(ctx, r.db, pr, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTokenNotFound
		}
		return nil, fmt.Errorf("select password reset: %w", err)
	}
	return pr, nil
}

// MarkUsed flags a reset token as consumed.
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE password_resets SET used = TRUE WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}
	return nil
}
