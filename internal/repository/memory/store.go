// Package memory implements the repository contracts in process memory.
//
// Transactions are serializable: WithTx holds the store lock for the whole
// unit of work and runs it against a copy of the data, which replaces the
// live data only on commit.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type dataset struct {
	users         map[int64]model.User
	books         map[int64]model.Book
	borrowings    map[int64]model.Borrowing
	refreshTokens map[string]model.RefreshToken
	resets        map[string]model.PasswordReset

	lastUserID      int64
	lastBookID      int64
	lastBorrowingID int64
	lastTokenID     int64
	lastResetID     int64
}

func newDataset() *dataset {
	return &dataset{
		users:         make(map[int64]model.User),
		books:         make(map[int64]model.Book),
		borrowings:    make(map[int64]model.Borrowing),
		refreshTokens: make(map[string]model.RefreshToken),
		resets:        make(map[string]model.PasswordReset),
	}
}

// clone copies the maps. Values hold only pointers to time.Time, which are never mutated in place.
func (d *dataset) clone() *dataset {
	c := *d
	c.users = maps.Clone(d.users)
	c.books = maps.Clone(d.books)
	c.borrowings = maps.Clone(d.borrowings)
	c.refreshTokens = maps.Clone(d.refreshTokens)
	c.resets = maps.Clone(d.resets)
	return &c
}

// Store is the in-memory repository.Store.
type Store struct {
	mu   sync.Mutex
	data *dataset
	now  func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		data: newDataset(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// view runs repository calls either one at a time against the live data or,
// inside a transaction, against the transaction's copy.
type view struct {
	s  *Store
	tx *dataset
}

func (v view) do(fn func(d *dataset) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

func (v view) Users() repository.UserRepository {
	return userRepo{v}
}

func (v view) Books() repository.BookRepository {
	return bookRepo{v}
}

func (v view) Borrowings() repository.BorrowingRepository {
	return borrowingRepo{v}
}

func (v view) RefreshTokens() repository.RefreshTokenRepository {
	return refreshTokenRepo{v}
}

func (v view) PasswordResets() repository.PasswordResetRepository {
	return passwordResetRepo{v}
}

func (s *Store) Users() repository.UserRepository {
	return view{s: s}.Users()
}

func (s *Store) Books() repository.BookRepository {
	return view{s: s}.Books()
}

func (s *Store) Borrowings() repository.BorrowingRepository {
	return view{s: s}.Borrowings()
}

func (s *Store) RefreshTokens() repository.RefreshTokenRepository {
	return view{s: s}.RefreshTokens()
}

func (s *Store) PasswordResets() repository.PasswordResetRepository {
	return view{s: s}.PasswordResets()
}

// WithTx runs fn with exclusive access to the store. Changes become visible
// only if fn returns nil; a panic discards them and is rethrown.
func (s *Store) WithTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, view{s: s, tx: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
