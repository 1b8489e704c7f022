package memory

import (
	"context"
	"slices"
	"time"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

type borrowingRepo struct {
	v view
}

func activeBorrowing(d *dataset, userID, bookID int64) (model.Borrowing, bool) {
	for _, b := range d.borrowings {
		if b.UserID == userID && b.BookID == bookID && b.Status == model.BorrowingStatusBorrowed {
			return b, true
		}
	}
	return model.Borrowing{}, false
}

func (r borrowingRepo) FindActive(_ context.Context, userID, bookID int64) (*model.Borrowing, error) {
	var found *model.Borrowing
	err := r.v.do(func(d *dataset) error {
		b, ok := activeBorrowing(d, userID, bookID)
		if !ok {
			return repository.ErrBorrowingNotFound
		}
		found = &b
		return nil
	})
	return found, err
}

func (r borrowingRepo) Create(_ context.Context, b *model.Borrowing) error {
	return r.v.do(func(d *dataset) error {
		if _, ok := activeBorrowing(d, b.UserID, b.BookID); ok {
			return repository.ErrDuplicateBorrowing
		}
		if b.Status == "" {
			b.Status = model.BorrowingStatusBorrowed
		}
		d.lastBorrowingID++
		b.ID = d.lastBorrowingID
		d.borrowings[b.ID] = *b
		return nil
	})
}

func (r borrowingRepo) MarkReturned(_ context.Context, id int64, at time.Time) error {
	return r.v.do(func(d *dataset) error {
		b, ok := d.borrowings[id]
		if !ok || b.Status != model.BorrowingStatusBorrowed {
			return repository.ErrBorrowingNotFound
		}
		b.Status = model.BorrowingStatusReturned
		b.ReturnedAt = &at
		d.borrowings[id] = b
		return nil
	})
}

func (r borrowingRepo) ListByUser(_ context.Context, userID int64) ([]model.BorrowingDetail, error) {
	rows := []model.BorrowingDetail{}
	err := r.v.do(func(d *dataset) error {
		for _, b := range d.borrowings {
			if b.UserID != userID {
				continue
			}
			row := model.BorrowingDetail{Borrowing: b}
			if book, ok := d.books[b.BookID]; ok {
				row.Title = book.Title
				row.Author = book.Author
				row.ImageURL = book.ImageURL
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b model.BorrowingDetail) int {
		if c := b.BorrowedAt.Compare(a.BorrowedAt); c != 0 {
			return c
		}
		return cmpInt64(b.ID, a.ID)
	})
	return rows, nil
}

func (r borrowingRepo) StatsByUser(_ context.Context, userID int64) (model.BorrowingStats, error) {
	var stats model.BorrowingStats
	err := r.v.do(func(d *dataset) error {
		for _, b := range d.borrowings {
			if b.UserID != userID {
				continue
			}
			stats.TotalBorrowed++
			switch b.Status {
			case model.BorrowingStatusBorrowed:
				stats.CurrentBorrowed++
			case model.BorrowingStatusReturned:
				stats.TotalReturned++
			}
		}
		return nil
	})
	return stats, err
}

func (r borrowingRepo) CountActiveByBook(_ context.Context, bookID int64) (int, error) {
	n := 0
	err := r.v.do(func(d *dataset) error {
		for _, b := range d.borrowings {
			if b.BookID == bookID && b.Status == model.BorrowingStatusBorrowed {
				n++
			}
		}
		return nil
	})
	return n, err
}
