// Package user implements the user store on GORM.
package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ximedes/conto/infra"
	"github.com/ximedes/conto/pkg/domain/user"
	"github.com/ximedes/conto/pkg/repository"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// New creates a user repository bound to the given session.
func New(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	row := infra.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*user.User, error) {
	var row infra.User
	if err := r.db.WithContext(ctx).First(&row, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.NewUserFromData(
		row.ID,
		row.Username,
		row.Email,
		row.Password,
		user.Role(row.Role),
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}
