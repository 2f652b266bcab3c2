package user

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrNoPassword        = errors.New("account has no password; sign in with Google")
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
	PasswordHash *string   `json:"-"` // Nullable for OAuth-only users
	GoogleID     *string   `json:"-"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateUserParams struct {
	Username     string
	Email        string
	Name         string
	PasswordHash *string
	GoogleID     *string
	AvatarURL    *string
}

type UpdateUserParams struct {
	Email        *string
	Name         *string
	AvatarURL    *string
	PasswordHash *string
}
