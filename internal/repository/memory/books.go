package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

type bookRepo struct {
	v view
}

func (r bookRepo) List(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	f := filter.Normalize()
	search := strings.ToLower(f.Search)

	books := []model.Book{}
	err := r.v.do(func(d *dataset) error {
		for _, b := range d.books {
			if search != "" &&
				!strings.Contains(strings.ToLower(b.Title), search) &&
				!strings.Contains(strings.ToLower(b.Author), search) {
				continue
			}
			if f.Category != "" && !strings.EqualFold(b.Category, f.Category) {
				continue
			}
			books = append(books, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(books, bookOrder(f.Sort))
	if len(books) > f.Limit {
		books = books[:f.Limit]
	}
	return books, nil
}

func bookOrder(sort model.BookSort) func(a, b model.Book) int {
	byIDDesc := func(a, b model.Book) int { return cmpInt64(b.ID, a.ID) }
	switch sort {
	case model.BookSortNewest:
		return func(a, b model.Book) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return byIDDesc(a, b)
		}
	case model.BookSortRating:
		return func(a, b model.Book) int {
			if c := b.Rating - a.Rating; c != 0 {
				return c
			}
			return byIDDesc(a, b)
		}
	case model.BookSortTitleAZ:
		return func(a, b model.Book) int {
			if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
				return c
			}
			return cmpInt64(a.ID, b.ID)
		}
	}
	return byIDDesc
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r bookRepo) GetByID(_ context.Context, id int64) (*model.Book, error) {
	var found *model.Book
	err := r.v.do(func(d *dataset) error {
		b, ok := d.books[id]
		if !ok {
			return repository.ErrBookNotFound
		}
		found = &b
		return nil
	})
	return found, err
}

// GetForUpdate needs no row lock: a transaction already holds the whole store.
func (r bookRepo) GetForUpdate(ctx context.Context, id int64) (*model.Book, error) {
	return r.GetByID(ctx, id)
}

func (r bookRepo) Create(_ context.Context, book *model.Book) error {
	return r.v.do(func(d *dataset) error {
		d.lastBookID++
		book.ID = d.lastBookID
		book.CreatedAt = r.v.s.now()
		d.books[book.ID] = *book
		return nil
	})
}

func (r bookRepo) Update(_ context.Context, id int64, patch model.BookPatch) error {
	if patch.Empty() {
		return nil
	}
	return r.v.do(func(d *dataset) error {
		b, ok := d.books[id]
		if !ok {
			return nil
		}
		patch.Apply(&b)
		d.books[id] = b
		return nil
	})
}

func (r bookRepo) Delete(_ context.Context, id int64) error {
	return r.v.do(func(d *dataset) error {
		delete(d.books, id)
		return nil
	})
}

func (r bookRepo) DecrementAvailable(_ context.Context, id int64) (bool, error) {
	changed := false
	err := r.v.do(func(d *dataset) error {
		b, ok := d.books[id]
		if !ok || b.AvailableCopies <= 0 {
			return nil
		}
		b.AvailableCopies--
		d.books[id] = b
		changed = true
		return nil
	})
	return changed, err
}

func (r bookRepo) IncrementAvailable(_ context.Context, id int64) (bool, error) {
	changed := false
	err := r.v.do(func(d *dataset) error {
		b, ok := d.books[id]
		if !ok || b.AvailableCopies >= b.TotalCopies {
			return nil
		}
		b.AvailableCopies++
		d.books[id] = b
		changed = true
		return nil
	})
	return changed, err
}

func (r bookRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	err := r.v.do(func(d *dataset) error {
		for _, b := range d.books {
			if b.Category != "" {
				seen[b.Category] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	slices.Sort(categories)
	return categories, nil
}
