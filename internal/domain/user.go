package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

type User struct {
	ID         string
	Name       string
	Email      string
	Settings   map[string]any
	ArchivedAt *time.Time // nil means active
	CreatedAt  time.Time
}
