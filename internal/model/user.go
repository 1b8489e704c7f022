package model

import "time"

// UserStatus is the account state of a library member.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusInactive  UserStatus = "inactive"
)

// Valid reports whether s is one of the known account states.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusInactive:
		return true
	}
	return false
}

// User represents a user in the database.
type User struct {
	ID           int64      `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Phone        string     `db:"phone"`
	Address      string     `db:"address"`
	Status       UserStatus `db:"status"`
	IsAdmin      bool       `db:"is_admin"`
	IsSubscriber bool       `db:"is_subscriber"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// UserPatch holds the profile and administrative fields that may be changed on a user.
// A nil field is left untouched.
type UserPatch struct {
	Name         *string
	Phone        *string
	Address      *string
	Status       *UserStatus
	IsSubscriber *bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Address == nil && p.Status == nil && p.IsSubscriber == nil
}

// RegisterRequest represents a user registration request.
// The original web client sends "fullname"; both spellings are accepted.
type RegisterRequest struct {
	Name     string `json:"name"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the token pair issued at login.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
	IsAdmin      bool   `json:"is_admin"`
}

// AdminLoginResponse carries the token pair issued at admin login.
type AdminLoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AdminID      int64  `json:"admin_id"`
	Role         string `json:"role"`
}

// RefreshRequest carries an opaque refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is returned by the refresh-token endpoint.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordResponse discloses the reset token. Only sent in development mode.
type ForgotPasswordResponse struct {
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ProfileUpdateRequest is the self-service profile update body.
type ProfileUpdateRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// AdminUserUpdateRequest is the admin-only user update body.
type AdminUserUpdateRequest struct {
	Status       *UserStatus `json:"status"`
	IsSubscriber *bool       `json:"is_subscriber"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	Status       UserStatus `json:"status"`
	IsAdmin      bool       `json:"is_admin"`
	IsSubscriber bool       `json:"is_subscriber"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserStatsResponse is the current user's borrowing counts and membership date.
type UserStatsResponse struct {
	BorrowingStats
	MemberSince time.Time `json:"member_since"`
}

// ToResponse strips credentials from u.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		Status:       u.Status,
		IsAdmin:      u.IsAdmin,
		IsSubscriber: u.IsSubscriber,
		CreatedAt:    u.CreatedAt,
	}
}
