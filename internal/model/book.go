package model

import (
	"strings"
	"time"
)

const (
	// DefaultBookLimit is the number of books listed when no limit is given.
	DefaultBookLimit = 100
	// MaxBookLimit caps a caller-supplied limit.
	MaxBookLimit = 500

	AvailabilityAvailable  = "Available"
	AvailabilityComingSoon = "Coming Soon"
)

// BookSort selects the ordering of a catalog listing.
type BookSort string

const (
	BookSortDefault BookSort = "default"
	BookSortNewest  BookSort = "newest"
	BookSortRating  BookSort = "rating"
	BookSortTitleAZ BookSort = "title_az"
)

// ParseBookSort maps a query value onto a BookSort. Unknown values fall back to the default order.
func ParseBookSort(s string) BookSort {
	switch BookSort(strings.ToLower(strings.TrimSpace(s))) {
	case BookSortNewest:
		return BookSortNewest
	case BookSortRating:
		return BookSortRating
	case BookSortTitleAZ:
		return BookSortTitleAZ
	}
	return BookSortDefault
}

// Book represents a catalog entry in the database.
type Book struct {
	ID              int64     `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Author          string    `db:"author" json:"author"`
	Category        string    `db:"category" json:"category"`
	Price           float64   `db:"price" json:"price"`
	Description     string    `db:"description" json:"description"`
	TotalCopies     int       `db:"total_copies" json:"total_copies"`
	AvailableCopies int       `db:"available_copies" json:"available_copies"`
	Rating          int       `db:"rating" json:"rating"`
	Reviews         int       `db:"reviews" json:"reviews"`
	ImageURL        string    `db:"image_url" json:"image_url"`
	HasPDF          bool      `db:"has_pdf" json:"has_pdf"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// BookFilter narrows a catalog listing.
type BookFilter struct {
	Search   string
	Category string
	Sort     BookSort
	Limit    int
}

// Normalize applies the listing defaults: "all" means any category and the limit is clamped.
func (f BookFilter) Normalize() BookFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)
	if strings.EqualFold(f.Category, "all") {
		f.Category = ""
	}
	if f.Sort == "" {
		f.Sort = BookSortDefault
	}
	if f.Limit <= 0 {
		f.Limit = DefaultBookLimit
	}
	if f.Limit > MaxBookLimit {
		f.Limit = MaxBookLimit
	}
	return f
}

// BookPatch holds the optional fields of a book update. A nil field is left untouched.
// total_copies is not patchable.
type BookPatch struct {
	Title           *string  `json:"title"`
	Author          *string  `json:"author"`
	Category        *string  `json:"category"`
	Price           *float64 `json:"price"`
	Description     *string  `json:"description"`
	AvailableCopies *int     `json:"available_copies"`
	Rating          *int     `json:"rating"`
	Reviews         *int     `json:"reviews"`
	ImageURL        *string  `json:"image_url"`
	HasPDF          *bool    `json:"has_pdf"`
}

// Empty reports whether the patch changes nothing.
func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Category == nil && p.Price == nil &&
		p.Description == nil && p.AvailableCopies == nil && p.Rating == nil &&
		p.Reviews == nil && p.ImageURL == nil && p.HasPDF == nil
}

// Apply copies the present fields of p onto b.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.AvailableCopies != nil {
		b.AvailableCopies = *p.AvailableCopies
	}
	if p.Rating != nil {
		b.Rating = *p.Rating
	}
	if p.Reviews != nil {
		b.Reviews = *p.Reviews
	}
	if p.ImageURL != nil {
		b.ImageURL = *p.ImageURL
	}
	if p.HasPDF != nil {
		b.HasPDF = *p.HasPDF
	}
}

// CreateBookRequest represents a new catalog entry.
type CreateBookRequest struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	Description     string  `json:"description"`
	TotalCopies     *int    `json:"total_copies"`
	AvailableCopies *int    `json:"available_copies"`
	Rating          int     `json:"rating"`
	Reviews         int     `json:"reviews"`
	ImageURL        string  `json:"image_url"`
	HasPDF          bool    `json:"has_pdf"`
}

// CreateBookResponse is returned after a book is created.
type CreateBookResponse struct {
	BookID int64 `json:"book_id"`
}

// BookView is a book as shown to one caller. DisplayPrice and Availability are derived per request.
type BookView struct {
	Book
	DisplayPrice float64 `json:"display_price"`
	Availability string  `json:"availability"`
}

// NewBookView derives the per-request fields of b for a caller who is or is not a subscriber.
func NewBookView(b Book, subscriber bool) BookView {
	v := BookView{Book: b, DisplayPrice: b.Price, Availability: AvailabilityComingSoon}
	if subscriber {
		v.DisplayPrice = 0
	}
	if b.HasPDF {
		v.Availability = AvailabilityAvailable
	}
	return v
}

// BookListResponse wraps a catalog listing.
type BookListResponse struct {
	Books []BookView `json:"books"`
}

// CategoriesResponse lists the distinct catalog categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
