// Package middleware provides the JWT guard applied to every account-scoped
// route.
package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/ximedes/conto/pkg/config"
	"github.com/ximedes/conto/webapi/common"
)

// JwtProtected returns the middleware that verifies the bearer token and
// stores it in c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Bad Request", err.Error())
	}
	return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid or expired JWT")
}
