package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/libraryhub/libraryhub-go/internal/crypto"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

// DefaultResetTokenTTL is how long a password reset token stays redeemable.
const DefaultResetTokenTTL = time.Hour

// CredentialService hashes passwords and manages single-use reset tokens.
type CredentialService struct {
	store    repository.Store
	scheme   crypto.Scheme
	resetTTL time.Duration
	now      func() time.Time
}

// NewCredentialService creates a new CredentialService. A zero resetTTL uses DefaultResetTokenTTL.
func NewCredentialService(store repository.Store, scheme crypto.Scheme, resetTTL time.Duration) *CredentialService {
	if resetTTL <= 0 {
		resetTTL = DefaultResetTokenTTL
	}
	if scheme == "" {
		scheme = crypto.SchemePBKDF2SHA256
	}
	return &CredentialService{
		store:    store,
		scheme:   scheme,
		resetTTL: resetTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Hash derives a salted digest of password.
func (s *CredentialService) Hash(password string) (string, error) {
	return crypto.HashPasswordWith(s.scheme, password)
}

// Verify reports whether password matches digest. Malformed digests never match.
func (s *CredentialService) Verify(password, digest string) bool {
	return crypto.VerifyPassword(password, digest)
}

// IssueResetToken stores a fresh unused reset token for userID.
func (s *CredentialService) IssueResetToken(ctx context.Context, userID int64) (model.PasswordReset, error) {
	pr := model.PasswordReset{
		UserID:    userID,
		Token:     crypto.NewOpaqueToken(),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.store.PasswordResets().Create(ctx, &pr); err != nil {
		return model.PasswordReset{}, fmt.Errorf("store reset token: %w", err)
	}
	return pr, nil
}

// ConsumeResetToken sets a new password using a reset token. The token row stays
// locked from the validity checks until it is marked used, so it redeems at most once.
// A used token reports ErrResetTokenUsed even when it has also expired.
func (s *CredentialService) ConsumeResetToken(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrResetFieldsRequired
	}
	if !crypto.IsOpaqueToken(token) {
		return ErrInvalidResetToken
	}

	hash, err := s.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		pr, err := tx.PasswordResets().GetForUpdate(ctx, token)
		if err != nil {
			if errors.Is(err, repository.ErrTokenNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		if pr.Used {
			return ErrResetTokenUsed
		}
		if !s.now().Before(pr.ExpiresAt) {
			return ErrResetTokenExpired
		}

		if err := tx.Users().UpdatePassword(ctx, pr.UserID, hash); err != nil {
			return err
		}
		return tx.PasswordResets().MarkUsed(ctx, pr.ID)
	})
}
