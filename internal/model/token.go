package model

import "time"

// RefreshToken is an opaque long-lived credential persisted server-side.
// ExpiresAt is nil when refresh tokens are configured without a lifetime.
type RefreshToken struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	Token     string     `db:"token"`
	CreatedAt time.Time  `db:"created_at"`
	ExpiresAt *time.Time `db:"expires_at"`
}

// Expired reports whether the token has a lifetime that ended before now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// PasswordReset is a single-use password reset token.
type PasswordReset struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}
