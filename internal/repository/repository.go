// Package repository declares the persistence contracts shared by the MySQL
// and in-memory stores.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/libraryhub/libraryhub-go/internal/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrBookNotFound       = errors.New("book not found")
	ErrBorrowingNotFound  = errors.New("borrowing not found")
	ErrDuplicateBorrowing = errors.New("book already borrowed by user")
	ErrTokenNotFound      = errors.New("token not found")
)

// UserRepository persists library members.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Update(ctx context.Context, id int64, patch model.UserPatch) error
}

// BookRepository persists catalog entries and their availability counters.
type BookRepository interface {
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	// GetForUpdate reads a book and locks its row until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*model.Book, error)
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, id int64, patch model.BookPatch) error
	// Delete removes a book. Deleting a missing book is not an error.
	Delete(ctx context.Context, id int64) error
	// DecrementAvailable takes one copy, reporting false when none was available.
	DecrementAvailable(ctx context.Context, id int64) (bool, error)
	// IncrementAvailable puts one copy back, reporting false when the counter was already at total.
	IncrementAvailable(ctx context.Context, id int64) (bool, error)
	Categories(ctx context.Context) ([]string, error)
}

// BorrowingRepository persists the borrowing ledger.
type BorrowingRepository interface {
	// FindActive returns the locked active borrowing of a (user, book) pair.
	FindActive(ctx context.Context, userID, bookID int64) (*model.Borrowing, error)
	Create(ctx context.Context, b *model.Borrowing) error
	MarkReturned(ctx context.Context, id int64, at time.Time) error
	ListByUser(ctx context.Context, userID int64) ([]model.BorrowingDetail, error)
	StatsByUser(ctx context.Context, userID int64) (model.BorrowingStats, error)
	CountActiveByBook(ctx context.Context, bookID int64) (int, error)
}

// RefreshTokenRepository persists opaque refresh tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, t *model.RefreshToken) error
	Find(ctx context.Context, token string) (*model.RefreshToken, error)
	// FindForUpdate reads a token and locks its row until the enclosing transaction ends.
	FindForUpdate(ctx context.Context, token string) (*model.RefreshToken, error)
	// Delete removes a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
	// Consume removes a token and reports ErrTokenNotFound when no row was removed.
	Consume(ctx context.Context, token string) error
}

// PasswordResetRepository persists single-use password reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, r *model.PasswordReset) error
	// GetForUpdate reads a reset token and locks its row until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, token string) (*model.PasswordReset, error)
	MarkUsed(ctx context.Context, id int64) error
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories interface {
	Users() UserRepository
	Books() BookRepository
	Borrowings() BorrowingRepository
	RefreshTokens() RefreshTokenRepository
	PasswordResets() PasswordResetRepository
}

// TxFunc is a unit of work run against repositories bound to one transaction.
type TxFunc func(ctx context.Context, tx Repositories) error

// Store is a transactional store. Its own Repositories run each call on its own.
type Store interface {
	Repositories
	// WithTx runs fn in a transaction, committing when fn returns nil and rolling back
	// on error or panic.
	WithTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close() error
}
