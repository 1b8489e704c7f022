package service

import (
	"context"
	"errors"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

// UserService handles profile and account administration.
type UserService struct {
	store  repository.Store
	ledger *LedgerService
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store, ledger *LedgerService) *UserService {
	return &UserService{store: store, ledger: ledger}
}

func (s *UserService) get(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Profile returns the user without credentials.
func (s *UserService) Profile(ctx context.Context, userID int64) (model.UserResponse, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return u.ToResponse(), nil
}

// UpdateProfile changes the caller's own name, phone and address.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req model.ProfileUpdateRequest) error {
	patch := model.UserPatch{Name: req.Name, Phone: req.Phone, Address: req.Address}
	return s.update(ctx, userID, patch)
}

// AdminUpdate changes a user's account status and subscription flag.
func (s *UserService) AdminUpdate(ctx context.Context, userID int64, req model.AdminUserUpdateRequest) error {
	if req.Status != nil && !req.Status.Valid() {
		return ErrInvalidStatus
	}
	patch := model.UserPatch{Status: req.Status, IsSubscriber: req.IsSubscriber}
	return s.update(ctx, userID, patch)
}

func (s *UserService) update(ctx context.Context, userID int64, patch model.UserPatch) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return tx.Users().Update(ctx, userID, patch)
	})
}

// Stats returns the user's borrowing counts and membership date.
func (s *UserService) Stats(ctx context.Context, userID int64) (model.UserStatsResponse, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return model.UserStatsResponse{}, err
	}
	stats, err := s.ledger.StatsForUser(ctx, userID)
	if err != nil {
		return model.UserStatsResponse{}, err
	}
	return model.UserStatsResponse{BorrowingStats: stats, MemberSince: u.CreatedAt}, nil
}

// IsAdmin reports whether userID holds the administrator role.
// An unknown user is not an administrator.
func (s *UserService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin, nil
}
