// Package user provides user signup.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ximedes/conto/pkg/config"
	"github.com/ximedes/conto/pkg/domain/user"
	"github.com/ximedes/conto/pkg/repository"
)

// Service provides user registration.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user Service from the shared dependency bundle.
func New(deps config.Deps) *Service {
	return &Service{uow: deps.Uow, logger: deps.Logger}
}

// CreateUser registers a new user with a hashed password.
func (s *Service) CreateUser(
	ctx context.Context,
	username, email, password string,
) (u *user.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if existing, err := users.GetByUsername(ctx, username); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("username %q is already taken", username)
		}
		u, err = user.NewUser(username, email, password)
		if err != nil {
			return err
		}
		return users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "userID", u.ID, "username", u.Username)
	return u, nil
}
