package common

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ximedes/conto/pkg/domain"
	"github.com/ximedes/conto/pkg/domain/user"
	authsvc "github.com/ximedes/conto/pkg/service/auth"
)

// Actor resolves the acting user from the verified JWT stored by the auth
// middleware.
func Actor(c *fiber.Ctx, authSvc *authsvc.Service) (*user.User, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return authSvc.CurrentUser(c.Context(), token)
}
