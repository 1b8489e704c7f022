package mysql

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// repos vends repositories bound to one DBTX.
type repos struct {
	db DBTX
}

func (r repos) Users() repository.UserRepository {
	return NewUserRepository(r.db)
}

func (r repos) Books() repository.BookRepository {
	return NewBookRepository(r.db)
}

func (r repos) Borrowings() repository.BorrowingRepository {
	return NewBorrowingRepository(r.db)
}

func (r repos) RefreshTokens() repository.RefreshTokenRepository {
	return NewRefreshTokenRepository(r.db)
}

func (r repos) PasswordResets() repository.PasswordResetRepository {
	return NewPasswordResetRepository(r.db)
}

// Store is the MySQL-backed repository.Store.
type Store struct {
	repos
	db     *sqlx.DB
	txOpts *sql.TxOptions
}

// NewStore wraps an open pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		repos:  repos{db: db},
		db:     db,
		txOpts: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
	}
}

// WithTx runs fn against repositories bound to a single READ COMMITTED transaction.
// Units of work lock the rows they change with FOR UPDATE and must not take gap
// locks on the borrowings index.
func (s *Store) WithTx(ctx context.Context, fn repository.TxFunc) error {
	return WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, repos{db: tx})
	})
}

// Ping checks the pool can reach the server.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}
