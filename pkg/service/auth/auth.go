// Package auth provides login, JWT issuing, and actor resolution from a
// verified token.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ximedes/conto/pkg/config"
	"github.com/ximedes/conto/pkg/domain"
	"github.com/ximedes/conto/pkg/domain/user"
	"github.com/ximedes/conto/pkg/repository"
	"github.com/ximedes/conto/pkg/utils"
)

// Service authenticates users and resolves the acting user from a token.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// New creates an auth Service from the shared dependency bundle.
func New(deps config.Deps) *Service {
	return &Service{uow: deps.Uow, cfg: deps.Config.Jwt, logger: deps.Logger}
}

// Login verifies the credentials and returns a signed JWT for the user.
// Invalid credentials return domain.ErrUnauthorized without revealing which
// part was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (token string, err error) {
	var u *user.User
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return "", err
	}
	if u == nil || !utils.CheckPasswordHash(password, u.Password) {
		return "", domain.ErrUnauthorized
	}
	return s.GenerateToken(u)
}

// GenerateToken signs a JWT carrying the user ID and expiry.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"exp":     time.Now().Add(s.cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// CurrentUser loads the acting user named by a verified token.
func (s *Service) CurrentUser(ctx context.Context, token *jwt.Token) (*user.User, error) {
	userID, err := userIDFromToken(token)
	if err != nil {
		return nil, err
	}
	var u *user.User
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.Get(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func userIDFromToken(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: unexpected claims type", domain.ErrUnauthorized)
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing user_id claim", domain.ErrUnauthorized)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user_id claim", domain.ErrUnauthorized)
	}
	return id, nil
}
