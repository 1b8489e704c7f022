package service

import "errors"

// ValidationError reports caller input that is missing or malformed.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalid(msg string) error {
	return &ValidationError{msg: msg}
}

var (
	ErrEmailRequired        = invalid("email is required")
	ErrPasswordRequired     = invalid("password is required")
	ErrRefreshTokenRequired = invalid("refresh_token is required")
	ErrResetFieldsRequired  = invalid("token and new_password are required")
	ErrBookIDRequired       = invalid("book_id is required")
	ErrTitleRequired        = invalid("title is required")
	ErrAuthorRequired       = invalid("author is required")
	ErrInvalidTotalCopies   = invalid("total_copies must be at least 1")
	ErrInvalidCopies        = invalid("available_copies must be between 0 and total_copies")
	ErrInvalidStatus        = invalid("status must be one of active, suspended, inactive")
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrForbidden           = errors.New("forbidden")
	ErrUserNotFound        = errors.New("user not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrBookInUse           = errors.New("book has active borrowings")

	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrAlreadyBorrowed   = errors.New("you already have this book borrowed")
	ErrNoActiveBorrowing = errors.New("no active borrowing found")

	ErrInvalidResetToken = errors.New("invalid token")
	ErrResetTokenUsed    = errors.New("token already used")
	ErrResetTokenExpired = errors.New("token expired")
)
