package domain

import (
	"errors"
	"time"
)

// ErrCodeInvalid is deliberately unspecific: wrong code, expired code and
// already-used code all look the same to the caller.
var ErrCodeInvalid = errors.New("invalid or expired code")

type AuthCode struct {
	ID        string
	UserID    string
	Code      string // 6 digits, zero-padded
	ExpiresAt time.Time
	UsedAt    *time.Time // nil means unused
	CreatedAt time.Time
}
