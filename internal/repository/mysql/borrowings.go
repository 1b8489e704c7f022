package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

const borrowingColumns = `id, user_id, book_id, status, borrowed_at, due_at, returned_at`

// BorrowingRepository handles borrowing ledger persistence operations.
type BorrowingRepository struct {
	db DBTX
}

// NewBorrowingRepository creates a new BorrowingRepository.
func NewBorrowingRepository(db DBTX) *BorrowingRepository {
	return &BorrowingRepository{db: db}
}

// FindActive locks and returns the active borrowing of userID on bookID.
func (r *BorrowingRepository) FindActive(ctx context.Context, userID, bookID int64) (*model.Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings
		WHERE user_id = ? AND book_id = ? AND status = 'borrowed'
		LIMIT 1 FOR UPDATE`

	b := &model.Borrowing{}
	if err := sqlx.GetContext(ctx, r.db, b, query, userID, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrBorrowingNotFound
		}
		return nil, fmt.Errorf("select active borrowing: %w", err)
	}
	return b, nil
}

// Create inserts an active borrowing. A second active row for the same pair
// violates uq_borrowings_active and is reported as ErrDuplicateBorrowing.
func (r *BorrowingRepository) Create(ctx context.Context, b *model.Borrowing) error {
	if b.Status == "" {
		b.Status = model.BorrowingStatusBorrowed
	}

	query := `INSERT INTO borrowings (user_id, book_id, status, borrowed_at, due_at)
		VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, b.UserID, b.BookID, b.Status, b.BorrowedAt, b.DueAt)
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateBorrowing
		}
		return fmt.Errorf("insert borrowing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	b.ID = id
	return nil
}

// MarkReturned closes an active borrowing.
func (r *BorrowingRepository) MarkReturned(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE borrowings SET status = 'returned', returned_at = ?
		WHERE id = ? AND status = 'borrowed'`

	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("update borrowing: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrBorrowingNotFound
	}
	return nil
}

// ListByUser returns a user's borrowings, newest first, with the book details.
// Borrowings of deleted books keep empty book fields.
func (r *BorrowingRepository) ListByUser(ctx context.Context, userID int64) ([]model.BorrowingDetail, error) {
	query := `SELECT br.id, br.user_id, br.book_id, br.status, br.borrowed_at, br.due_at, br.returned_at,
			COALESCE(bk.title, '') AS title,
			COALESCE(bk.author, '') AS author,
			COALESCE(bk.image_url, '') AS image_url
		FROM borrowings br
		LEFT JOIN books bk ON bk.id = br.book_id
		WHERE br.user_id = ?
		ORDER BY br.borrowed_at DESC, br.id DESC`

	rows := []model.BorrowingDetail{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select borrowings: %w", err)
	}
	return rows, nil
}

// StatsByUser counts a user's borrowings by status.
func (r *BorrowingRepository) StatsByUser(ctx context.Context, userID int64) (model.BorrowingStats, error) {
	query := `SELECT
			COALESCE(SUM(status = 'borrowed'), 0) AS current_borrowed,
			COALESCE(SUM(status = 'returned'), 0) AS total_returned,
			COUNT(*) AS total_borrowed
		FROM borrowings WHERE user_id = ?`

	var stats model.BorrowingStats
	if err := sqlx.GetContext(ctx, r.db, &stats, query, userID); err != nil {
		return model.BorrowingStats{}, fmt.Errorf("select borrowing stats: %w", err)
	}
	return stats, nil
}

// CountActiveByBook counts the copies of a book currently out on loan.
func (r *BorrowingRepository) CountActiveByBook(ctx context.Context, bookID int64) (int, error) {
	query := `SELECT COUNT(*) FROM borrowings WHERE book_id = ? AND status = 'borrowed'`

	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, query, bookID); err != nil {
		return 0, fmt.Errorf("count active borrowings: %w", err)
	}
	return n, nil
}
