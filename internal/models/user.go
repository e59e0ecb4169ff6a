package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique numeric identifier for the user.
	ID int64 `json:"id"`

	// Name is the display name shown in groups, expenses and activity.
	Name string `json:"name"`

	// Email is the user's email address (unique). Used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix millisecond timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix millisecond timestamp of the last update.
	UpdatedAt int64 `json:"updatedAt"`
}

// NewUser creates a user with creation timestamps set.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UnixMilli()
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Member is a user reference resolved to a display name, as returned by
// the split API (paidBy, splitBetween, group members).
type Member struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
}
