// Package user defines the users that own accounts and the access policy
// applied to every account-scoped operation.
package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/utils"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = errors.New("user not found")
)

// Role is the capability level of a user.
type Role string

const (
	// RoleUser is the default role; access is limited to owned accounts.
	RoleUser Role = "user"
	// RoleAdmin grants access to every account.
	RoleAdmin Role = "admin"
)

// User represents an actor in the system.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// NewUser creates a new User with a hashed password and current timestamps.
func NewUser(username, email, password string) (*User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if !utils.IsEmail(email) {
		return nil, errors.New("invalid email address")
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewUserFromData creates a User from raw data (used for DB hydration).
func NewUserFromData(
	id uuid.UUID,
	username, email, password string,
	role Role,
	created, updated time.Time,
) *User {
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		Password:  password,
		Role:      role,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// HasAccessTo reports whether the user may view or operate on the account:
// the owner always has access, and admins have access to every account.
func (u *User) HasAccessTo(a *account.Account) bool {
	if u == nil || a == nil {
		return false
	}
	return u.Role == RoleAdmin || a.Owner == u.ID
}
