package crypto

import "github.com/google/uuid"

// NewOpaqueToken returns a random version 4 UUID string (122 random bits)
// for use as a refresh or password reset token.
func NewOpaqueToken() string {
	return uuid.NewString()
}

// IsOpaqueToken reports whether s has the shape of a token from NewOpaqueToken.
func IsOpaqueToken(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && u.Version() == 4
}
