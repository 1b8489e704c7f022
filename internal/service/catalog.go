package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

// CatalogService handles book catalog business logic.
type CatalogService struct {
	store repository.Store
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

// List returns the books matching filter as seen by viewerID (0 for an anonymous caller).
// Subscribers see a display price of zero.
func (s *CatalogService) List(ctx context.Context, filter model.BookFilter, viewerID int64) ([]model.BookView, error) {
	books, err := s.store.Books().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	subscriber := s.isSubscriber(ctx, viewerID)

	views := make([]model.BookView, 0, len(books))
	for _, b := range books {
		views = append(views, model.NewBookView(b, subscriber))
	}
	return views, nil
}

// isSubscriber treats any lookup failure as a non-subscriber; pricing never fails a listing.
func (s *CatalogService) isSubscriber(ctx context.Context, userID int64) bool {
	if userID <= 0 {
		return false
	}
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.Warn("subscriber lookup failed", "user_id", userID, "error", err)
		}
		return false
	}
	return u.IsSubscriber
}

// Get returns a single book.
func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.store.Books().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

// View returns a single book as seen by viewerID, priced the same way as List.
func (s *CatalogService) View(ctx context.Context, id, viewerID int64) (model.BookView, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return model.BookView{}, err
	}
	return model.NewBookView(*b, s.isSubscriber(ctx, viewerID)), nil
}

// Create adds a book to the catalog. total_copies defaults to 1 and
// available_copies defaults to total_copies.
func (s *CatalogService) Create(ctx context.Context, req model.CreateBookRequest) (model.CreateBookResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.CreateBookResponse{}, ErrTitleRequired
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		return model.CreateBookResponse{}, ErrAuthorRequired
	}

	total := 1
	if req.TotalCopies != nil {
		total = *req.TotalCopies
	}
	if total < 1 {
		return model.CreateBookResponse{}, ErrInvalidTotalCopies
	}

	available := total
	if req.AvailableCopies != nil {
		available = *req.AvailableCopies
	}
	if available < 0 || available > total {
		return model.CreateBookResponse{}, ErrInvalidCopies
	}

	book := &model.Book{
		Title:           title,
		Author:          author,
		Category:        strings.TrimSpace(req.Category),
		Price:           req.Price,
		Description:     req.Description,
		TotalCopies:     total,
		AvailableCopies: available,
		Rating:          req.Rating,
		Reviews:         req.Reviews,
		ImageURL:        req.ImageURL,
		HasPDF:          req.HasPDF,
	}

	if err := s.store.Books().Create(ctx, book); err != nil {
		return model.CreateBookResponse{}, err
	}

	slog.Info("book created", "book_id", book.ID)
	return model.CreateBookResponse{BookID: book.ID}, nil
}

// Update applies patch to an existing book. Setting available_copies directly
// bypasses the borrowing ledger; it is only checked against [0, total_copies].
func (s *CatalogService) Update(ctx context.Context, id int64, patch model.BookPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return ErrTitleRequired
	}
	if patch.Author != nil && strings.TrimSpace(*patch.Author) == "" {
		return ErrAuthorRequired
	}

	return s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		book, err := tx.Books().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrBookNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		if patch.AvailableCopies != nil {
			if n := *patch.AvailableCopies; n < 0 || n > book.TotalCopies {
				return ErrInvalidCopies
			}
		}

		return tx.Books().Update(ctx, id, patch)
	})
}

// Delete removes a book. Deleting a missing book succeeds; a book with copies
// still on loan is refused with ErrBookInUse.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		if _, err := tx.Books().GetForUpdate(ctx, id); err != nil {
			if errors.Is(err, repository.ErrBookNotFound) {
				return nil
			}
			return err
		}

		n, err := tx.Borrowings().CountActiveByBook(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrBookInUse
		}

		return tx.Books().Delete(ctx, id)
	})
}

// Categories returns the distinct non-empty book categories.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.store.Books().Categories(ctx)
}
