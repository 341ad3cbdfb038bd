// Package user exposes user signup.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	usersvc "github.com/ximedes/conto/pkg/service/user"
	"github.com/ximedes/conto/webapi/common"
)

// CreateUserRequest is the payload for POST /user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Routes registers POST /user.
func Routes(app *fiber.App, userSvc *usersvc.Service) {
	app.Post("/user", CreateUser(userSvc))
}

// CreateUser returns the handler registering a new user.
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateUserRequest](c)
		if input == nil {
			return err
		}
		u, err := userSvc.CreateUser(c.Context(), input.Username, input.Email, input.Password)
		if err != nil {
			log.Errorf("Failed to create user: %v", err)
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Failed to create user", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User created", u)
	}
}
