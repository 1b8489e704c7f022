package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

// AuthService handles registration, login and the password reset flow.
type AuthService struct {
	store       repository.Store
	creds       *CredentialService
	tokens      *TokenService
	exposeReset bool

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. When exposeReset is set, ForgotPassword
// returns the reset token to the caller instead of only recording it.
func NewAuthService(store repository.Store, creds *CredentialService, tokens *TokenService, exposeReset bool) *AuthService {
	return &AuthService{
		store:       store,
		creds:       creds,
		tokens:      tokens,
		exposeReset: exposeReset,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return model.RegisterResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.RegisterResponse{}, ErrPasswordRequired
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.FullName)
	}

	hash, err := s.creds.Hash(req.Password)
	if err != nil {
		return model.RegisterResponse{}, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       model.UserStatusActive,
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.RegisterResponse{}, ErrEmailTaken
		}
		return model.RegisterResponse{}, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return model.RegisterResponse{UserID: user.ID}, nil
}

// Login authenticates a user and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return model.LoginResponse{}, err
	}

	access, refresh, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		IsAdmin:      user.IsAdmin,
	}, nil
}

// AdminLogin is Login restricted to administrators. A valid non-admin account
// fails exactly like a wrong password.
func (s *AuthService) AdminLogin(ctx context.Context, req model.LoginRequest) (model.AdminLoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return model.AdminLoginResponse{}, err
	}
	if !user.IsAdmin {
		return model.AdminLoginResponse{}, ErrInvalidCredentials
	}

	access, refresh, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return model.AdminLoginResponse{}, err
	}

	return model.AdminLoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		AdminID:      user.ID,
		Role:         "admin",
	}, nil
}

func (s *AuthService) authenticate(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Spend the same hashing time as a real check.
			s.creds.Verify(req.Password, s.dummy())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" || !s.creds.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.creds.Hash("not-a-real-password")
		if err != nil {
			slog.Warn("dummy hash failed", "error", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *AuthService) issuePair(ctx context.Context, userID int64) (string, string, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, req model.RefreshRequest) (model.RefreshResponse, error) {
	if req.RefreshToken == "" {
		return model.RefreshResponse{}, ErrRefreshTokenRequired
	}

	userID, refresh, err := s.tokens.Redeem(ctx, req.RefreshToken)
	if err != nil {
		return model.RefreshResponse{}, err
	}

	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return model.RefreshResponse{}, fmt.Errorf("sign access token: %w", err)
	}

	return model.RefreshResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       userID,
	}, nil
}

// Logout revokes the given refresh token, if any.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// ForgotPassword records a reset token for the account behind req.Email.
// An unknown email is not an error, so callers cannot probe for accounts.
// The token is returned only when the service was built with exposeReset;
// otherwise the result is nil.
func (s *AuthService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (*model.ForgotPasswordResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	pr, err := s.creds.IssueResetToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("password reset requested", "user_id", user.ID)
	if !s.exposeReset {
		return nil, nil
	}
	return &model.ForgotPasswordResponse{ResetToken: pr.Token, ExpiresAt: pr.ExpiresAt}, nil
}

// ResetPassword sets a new password using a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	return s.creds.ConsumeResetToken(ctx, req.Token, req.NewPassword)
}
