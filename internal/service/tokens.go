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

// TokenConfig configures access and refresh token issuance.
// A zero RefreshTTL issues refresh tokens without a lifetime, and with Rotate unset
// a refresh token may be redeemed any number of times.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Rotate     bool
}

// TokenService issues and verifies access tokens and manages refresh tokens.
type TokenService struct {
	store repository.Store
	cfg   TokenConfig
	now   func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(store repository.Store, cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 60 * time.Minute
	}
	return &TokenService{
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// IssueAccessToken signs a short-lived access token for userID.
func (s *TokenService) IssueAccessToken(userID int64) (string, error) {
	return crypto.GenerateTokenAt(userID, s.cfg.Secret, s.now(), s.cfg.AccessTTL)
}

// VerifyAccessToken returns the user an access token was issued to.
// Any decode, signature or expiry failure yields ok == false.
func (s *TokenService) VerifyAccessToken(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	claims, err := crypto.ValidateToken(token, s.cfg.Secret)
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}

// IssueRefreshToken persists a new opaque refresh token for userID.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID int64) (string, error) {
	return s.issueRefresh(ctx, s.store.RefreshTokens(), userID)
}

func (s *TokenService) issueRefresh(ctx context.Context, repo repository.RefreshTokenRepository, userID int64) (string, error) {
	t := model.RefreshToken{UserID: userID, Token: crypto.NewOpaqueToken()}
	if s.cfg.RefreshTTL > 0 {
		exp := s.now().Add(s.cfg.RefreshTTL)
		t.ExpiresAt = &exp
	}
	if err := repo.Create(ctx, &t); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return t.Token, nil
}

// Redeem exchanges a refresh token for its user id and the refresh token the caller
// should keep using. Unless rotation is enabled that is the presented token itself.
func (s *TokenService) Redeem(ctx context.Context, token string) (int64, string, error) {
	if !crypto.IsOpaqueToken(token) {
		return 0, "", ErrInvalidRefreshToken
	}

	if !s.cfg.Rotate {
		t, err := s.store.RefreshTokens().Find(ctx, token)
		if err != nil {
			return 0, "", refreshLookupError(err)
		}
		if t.Expired(s.now()) {
			_ = s.store.RefreshTokens().Delete(ctx, token)
			return 0, "", ErrInvalidRefreshToken
		}
		return t.UserID, token, nil
	}

	var userID int64
	var next string
	var expired bool
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		t, err := tx.RefreshTokens().FindForUpdate(ctx, token)
		if err != nil {
			return refreshLookupError(err)
		}
		if err := tx.RefreshTokens().Consume(ctx, token); err != nil {
			return refreshLookupError(err)
		}
		if t.Expired(s.now()) {
			expired = true
			return nil
		}
		userID = t.UserID
		next, err = s.issueRefresh(ctx, tx.RefreshTokens(), t.UserID)
		return err
	})
	if err != nil {
		return 0, "", err
	}
	if expired {
		return 0, "", ErrInvalidRefreshToken
	}
	return userID, next, nil
}

func refreshLookupError(err error) error {
	if errors.Is(err, repository.ErrTokenNotFound) {
		return ErrInvalidRefreshToken
	}
	return err
}

// Revoke deletes a refresh token. Revoking an unknown token succeeds.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.RefreshTokens().Delete(ctx, token)
}
