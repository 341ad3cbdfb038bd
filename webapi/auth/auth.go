// Package auth exposes login.
package auth

import (
	"github.com/gofiber/fiber/v2"
	authsvc "github.com/ximedes/conto/pkg/service/auth"
	"github.com/ximedes/conto/webapi/common"
)

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed JWT.
type LoginResponse struct {
	Token string `json:"token"`
}

// Routes registers POST /auth/login.
func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/login", Login(authSvc))
}

// Login returns the handler verifying credentials and issuing a JWT.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		token, err := authSvc.Login(c.Context(), input.Username, input.Password)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "invalid credentials")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Logged in", LoginResponse{Token: token})
	}
}
