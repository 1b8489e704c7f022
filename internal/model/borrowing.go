package model

import "time"

// BorrowingStatus is the state of one borrowing record.
type BorrowingStatus string

const (
	BorrowingStatusBorrowed BorrowingStatus = "borrowed"
	BorrowingStatusReturned BorrowingStatus = "returned"
)

// Borrowing links one user holding one copy of one book.
type Borrowing struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"user_id"`
	BookID     int64           `db:"book_id" json:"book_id"`
	Status     BorrowingStatus `db:"status" json:"status"`
	BorrowedAt time.Time       `db:"borrowed_at" json:"borrowed_at"`
	DueAt      time.Time       `db:"due_at" json:"due_at"`
	ReturnedAt *time.Time      `db:"returned_at" json:"returned_at"`
}

// BorrowingDetail is a borrowing joined with the book it refers to.
type BorrowingDetail struct {
	Borrowing
	Title    string `db:"title" json:"title"`
	Author   string `db:"author" json:"author"`
	ImageURL string `db:"image_url" json:"image_url"`
}

// BorrowingStats counts a user's borrowings by status.
type BorrowingStats struct {
	CurrentBorrowed int `db:"current_borrowed" json:"current_borrowed"`
	TotalReturned   int `db:"total_returned" json:"total_returned"`
	TotalBorrowed   int `db:"total_borrowed" json:"total_borrowed"`
}

// BorrowRequest is the body of the borrow and return endpoints.
type BorrowRequest struct {
	BookID int64 `json:"book_id"`
}

// BorrowResponse is returned after a successful borrow.
type BorrowResponse struct {
	BorrowingID int64     `json:"borrowing_id"`
	BookID      int64     `json:"book_id"`
	BorrowedAt  time.Time `json:"borrowed_at"`
	DueAt       time.Time `json:"due_at"`
}

// ReturnResponse is returned after a successful return.
type ReturnResponse struct {
	ReturnedAt time.Time `json:"returned_at"`
}

// BorrowingsResponse lists a user's borrowings with their counts.
type BorrowingsResponse struct {
	Borrowings []BorrowingDetail `json:"borrowings"`
	Stats      BorrowingStats    `json:"stats"`
}
