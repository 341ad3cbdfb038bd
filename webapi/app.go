// Package webapi assembles the Fiber application from the service layer.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ximedes/conto/pkg/config"
	accountsvc "github.com/ximedes/conto/pkg/service/account"
	authsvc "github.com/ximedes/conto/pkg/service/auth"
	transfersvc "github.com/ximedes/conto/pkg/service/transfer"
	usersvc "github.com/ximedes/conto/pkg/service/user"
	"github.com/ximedes/conto/webapi/account"
	"github.com/ximedes/conto/webapi/auth"
	"github.com/ximedes/conto/webapi/common"
	"github.com/ximedes/conto/webapi/transfer"
	"github.com/ximedes/conto/webapi/user"
)

// Services bundles the service layer consumed by the HTTP surface.
type Services struct {
	Account  *accountsvc.Service
	Transfer *transfersvc.Service
	Auth     *authsvc.Service
	User     *usersvc.Service
}

// SetupApp creates the Fiber app with all routes and middleware registered.
func SetupApp(svcs Services, cfg *config.App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "conto",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Conto is up")
	})

	user.Routes(app, svcs.User)
	auth.Routes(app, svcs.Auth)
	account.Routes(app, svcs.Account, svcs.Transfer, svcs.Auth, cfg)
	transfer.Routes(app, svcs.Transfer, svcs.Auth, cfg)

	return app
}
