package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered customer account. An account starts out
// unverified and becomes usable once the emailed verification code is
// confirmed.
type User struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Email               string    `json:"email" db:"email"`
	Username            string    `json:"username" db:"username"`
	PasswordHash        string    `json:"-" db:"password_hash"`
	Role                string    `json:"role" db:"role"`
	IsVerified          bool      `json:"is_verified" db:"is_verified"`
	VerificationCode    string    `json:"-" db:"verification_code"`
	VerificationExpires time.Time `json:"-" db:"verification_expires"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken is a long-lived credential used to mint new access tokens.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}
