// Package transfer exposes the transfer creation route.
package transfer

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/ximedes/conto/pkg/config"
	"github.com/ximedes/conto/pkg/middleware"
	authsvc "github.com/ximedes/conto/pkg/service/auth"
	transfersvc "github.com/ximedes/conto/pkg/service/transfer"
	"github.com/ximedes/conto/webapi/common"
)

// Routes registers POST /transfer.
func Routes(app *fiber.App, transferSvc *transfersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/transfer", middleware.JwtProtected(cfg.Jwt), CreateTransfer(transferSvc, authSvc))
}

// CreateTransfer returns the handler attempting a transfer between two
// accounts on behalf of the current user.
func CreateTransfer(transferSvc *transfersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateTransferRequest](c)
		if input == nil {
			return err
		}
		debitID, err := uuid.Parse(input.DebitAccountID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid debit account ID", err.Error())
		}
		creditID, err := uuid.Parse(input.CreditAccountID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid credit account ID", err.Error())
		}
		t, err := transferSvc.AttemptTransfer(
			c.Context(), actor, debitID, creditID, input.Amount, input.Description,
		)
		if err != nil {
			log.Errorf("Transfer failed: %v", err)
			return common.ProblemFromError(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer created", t)
	}
}
