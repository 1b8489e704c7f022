package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

// DefaultLoanPeriod is the time between borrowing a book and its due date.
const DefaultLoanPeriod = 14 * 24 * time.Hour

// LedgerService records borrowings and keeps book availability in step with them.
//
// Borrow and Return each run in one transaction that locks the book row first
// and the borrowing row second, so concurrent callers serialize per book.
type LedgerService struct {
	store      repository.Store
	loanPeriod time.Duration
	now        func() time.Time
}

// NewLedgerService creates a new LedgerService. A zero loanPeriod uses DefaultLoanPeriod.
func NewLedgerService(store repository.Store, loanPeriod time.Duration) *LedgerService {
	if loanPeriod <= 0 {
		loanPeriod = DefaultLoanPeriod
	}
	return &LedgerService{
		store:      store,
		loanPeriod: loanPeriod,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Borrow lends one copy of bookID to userID.
func (s *LedgerService) Borrow(ctx context.Context, userID, bookID int64) (model.BorrowResponse, error) {
	if bookID <= 0 {
		return model.BorrowResponse{}, ErrBookIDRequired
	}

	now := s.now().Truncate(time.Second)
	b := model.Borrowing{
		UserID:     userID,
		BookID:     bookID,
		Status:     model.BorrowingStatusBorrowed,
		BorrowedAt: now,
		DueAt:      now.Add(s.loanPeriod),
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		book, err := tx.Books().GetForUpdate(ctx, bookID)
		if err != nil {
			if errors.Is(err, repository.ErrBookNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		// A caller already holding the book hears so even when it was the last copy.
		if _, err := tx.Borrowings().FindActive(ctx, userID, bookID); err == nil {
			return ErrAlreadyBorrowed
		} else if !errors.Is(err, repository.ErrBorrowingNotFound) {
			return err
		}

		if book.AvailableCopies <= 0 {
			return ErrNoCopiesAvailable
		}

		if err := tx.Borrowings().Create(ctx, &b); err != nil {
			if errors.Is(err, repository.ErrDuplicateBorrowing) {
				return ErrAlreadyBorrowed
			}
			return err
		}

		ok, err := tx.Books().DecrementAvailable(ctx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoCopiesAvailable
		}
		return nil
	})
	if err != nil {
		return model.BorrowResponse{}, err
	}

	slog.Info("book borrowed", "user_id", userID, "book_id", bookID, "borrowing_id", b.ID)
	return model.BorrowResponse{
		BorrowingID: b.ID,
		BookID:      bookID,
		BorrowedAt:  b.BorrowedAt,
		DueAt:       b.DueAt,
	}, nil
}

// Return closes userID's active borrowing of bookID and puts the copy back.
// A borrowing whose book has since been deleted can still be returned.
func (s *LedgerService) Return(ctx context.Context, userID, bookID int64) (model.ReturnResponse, error) {
	if bookID <= 0 {
		return model.ReturnResponse{}, ErrBookIDRequired
	}

	now := s.now().Truncate(time.Second)

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		bookExists := true
		if _, err := tx.Books().GetForUpdate(ctx, bookID); err != nil {
			if !errors.Is(err, repository.ErrBookNotFound) {
				return err
			}
			bookExists = false
		}

		active, err := tx.Borrowings().FindActive(ctx, userID, bookID)
		if err != nil {
			if errors.Is(err, repository.ErrBorrowingNotFound) {
				return ErrNoActiveBorrowing
			}
			return err
		}

		if err := tx.Borrowings().MarkReturned(ctx, active.ID, now); err != nil {
			if errors.Is(err, repository.ErrBorrowingNotFound) {
				return ErrNoActiveBorrowing
			}
			return err
		}

		if !bookExists {
			return nil
		}
		ok, err := tx.Books().IncrementAvailable(ctx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			// An admin edit already put the counter at total_copies.
			slog.Warn("availability already at total on return", "book_id", bookID, "borrowing_id", active.ID)
		}
		return nil
	})
	if err != nil {
		return model.ReturnResponse{}, err
	}

	slog.Info("book returned", "user_id", userID, "book_id", bookID)
	return model.ReturnResponse{ReturnedAt: now}, nil
}

// ListForUser returns userID's borrowings and counts. The requester must be the
// user themself or an administrator.
func (s *LedgerService) ListForUser(ctx context.Context, requesterID, userID int64) (model.BorrowingsResponse, error) {
	if requesterID != userID {
		requester, err := s.store.Users().GetByID(ctx, requesterID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return model.BorrowingsResponse{}, ErrForbidden
			}
			return model.BorrowingsResponse{}, err
		}
		if !requester.IsAdmin {
			return model.BorrowingsResponse{}, ErrForbidden
		}
	}

	rows, err := s.store.Borrowings().ListByUser(ctx, userID)
	if err != nil {
		return model.BorrowingsResponse{}, err
	}
	if rows == nil {
		rows = []model.BorrowingDetail{}
	}

	stats, err := s.StatsForUser(ctx, userID)
	if err != nil {
		return model.BorrowingsResponse{}, err
	}

	return model.BorrowingsResponse{Borrowings: rows, Stats: stats}, nil
}

// StatsForUser counts userID's borrowings by status.
func (s *LedgerService) StatsForUser(ctx context.Context, userID int64) (model.BorrowingStats, error) {
	stats, err := s.store.Borrowings().StatsByUser(ctx, userID)
	if err != nil {
		return model.BorrowingStats{}, err
	}
	stats.TotalBorrowed = stats.CurrentBorrowed + stats.TotalReturned
	return stats, nil
}
