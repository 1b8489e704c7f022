package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

const bookColumns = `id, title, author, category, price, description, total_copies, available_copies, rating, reviews, image_url, has_pdf, created_at`

var bookSelect = []any{
	"id", "title", "author", "category", "price", "description", "total_copies",
	"available_copies", "rating", "reviews", "image_url", "has_pdf", "created_at",
}

// BookRepository handles catalog persistence operations.
type BookRepository struct {
	db DBTX
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{db: db}
}

// List returns books matching filter in the requested order.
func (r *BookRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	query, args, err := listBooksQuery(filter.Normalize())
	if err != nil {
		return nil, fmt.Errorf("build book list: %w", err)
	}

	books := []model.Book{}
	if err := sqlx.SelectContext(ctx, r.db, &books, query, args...); err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}
	return books, nil
}

func listBooksQuery(f model.BookFilter) (string, []any, error) {
	ds := dialect.From("books").Prepared(true).Select(bookSelect...)

	if f.Search != "" {
		// ILIKE renders as plain LIKE in the MySQL dialect; LIKE renders as LIKE BINARY.
		pattern := "%" + escapeLike(f.Search) + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
		))
	}
	if f.Category != "" {
		ds = ds.Where(goqu.C("category").Eq(f.Category))
	}

	ds = ds.Order(bookOrder(f.Sort)...).Limit(uint(f.Limit))
	return ds.ToSQL()
}

func bookOrder(sort model.BookSort) []exp.OrderedExpression {
	switch sort {
	case model.BookSortNewest:
		return []exp.OrderedExpression{goqu.C("created_at").Desc(), goqu.C("id").Desc()}
	case model.BookSortRating:
		return []exp.OrderedExpression{goqu.C("rating").Desc(), goqu.C("id").Desc()}
	case model.BookSortTitleAZ:
		return []exp.OrderedExpression{goqu.C("title").Asc(), goqu.C("id").Asc()}
	}
	return []exp.OrderedExpression{goqu.C("id").Desc()}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// GetByID retrieves a book by its ID.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	return r.get(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
}

// GetForUpdate retrieves a book and holds its row lock for the rest of the transaction.
func (r *BookRepository) GetForUpdate(ctx context.Context, id int64) (*model.Book, error) {
	return r.get(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ? FOR UPDATE`, id)
}

func (r *BookRepository) get(ctx context.Context, query string, id int64) (*model.Book, error) {
	book := &model.Book{}
	if err := sqlx.GetContext(ctx, r.db, book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrBookNotFound
		}
		return nil, fmt.Errorf("select book: %w", err)
	}
	return book, nil
}

// Create inserts a new book and sets the generated ID on the book struct.
func (r *BookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `INSERT INTO books
		(title, author, category, price, description, total_copies, available_copies, rating, reviews, image_url, has_pdf)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		book.Title, book.Author, book.Category, book.Price, book.Description,
		book.TotalCopies, book.AvailableCopies, book.Rating, book.Reviews,
		book.ImageURL, book.HasPDF,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	book.ID = id
	return nil
}

// Update applies the present fields of patch to the book.
func (r *BookRepository) Update(ctx context.Context, id int64, patch model.BookPatch) error {
	rec := bookPatchRecord(patch)
	if len(rec) == 0 {
		return nil
	}

	query, args, err := dialect.Update("books").Prepared(true).
		Set(rec).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build book update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func bookPatchRecord(p model.BookPatch) goqu.Record {
	rec := goqu.Record{}
	if p.Title != nil {
		rec["title"] = *p.Title
	}
	if p.Author != nil {
		rec["author"] = *p.Author
	}
	if p.Category != nil {
		rec["category"] = *p.Category
	}
	if p.Price != nil {
		rec["price"] = *p.Price
	}
	if p.Description != nil {
		rec["description"] = *p.Description
	}
	if p.AvailableCopies != nil {
		rec["available_copies"] = *p.AvailableCopies
	}
	if p.Rating != nil {
		rec["rating"] = *p.Rating
	}
	if p.Reviews != nil {
		rec["reviews"] = *p.Reviews
	}
	if p.ImageURL != nil {
		rec["image_url"] = *p.ImageURL
	}
	if p.HasPDF != nil {
		rec["has_pdf"] = *p.HasPDF
	}
	return rec
}

// Delete removes a book. Deleting a missing book succeeds.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// DecrementAvailable takes one copy off the shelf if any is left.
func (r *BookRepository) DecrementAvailable(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE books SET available_copies = available_copies - 1
		WHERE id = ? AND available_copies > 0`
	return r.adjust(ctx, query, id)
}

// IncrementAvailable puts one copy back unless the counter is already at total.
func (r *BookRepository) IncrementAvailable(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE books SET available_copies = available_copies + 1
		WHERE id = ? AND available_copies < total_copies`
	return r.adjust(ctx, query, id)
}

func (r *BookRepository) adjust(ctx context.Context, query string, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("adjust availability: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Categories returns the distinct non-empty categories in alphabetical order.
func (r *BookRepository) Categories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM books WHERE category <> '' ORDER BY category`

	categories := []string{}
	if err := sqlx.SelectContext(ctx, r.db, &categories, query); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return categories, nil
}
