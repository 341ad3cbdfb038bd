// Package account exposes the account routes: creation, the redacted listing
// read model, balances, and transfer history.
package account

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/ximedes/conto/pkg/config"
	"github.com/ximedes/conto/pkg/middleware"
	accountsvc "github.com/ximedes/conto/pkg/service/account"
	authsvc "github.com/ximedes/conto/pkg/service/auth"
	transfersvc "github.com/ximedes/conto/pkg/service/transfer"
	"github.com/ximedes/conto/webapi/common"
)

// Routes registers the account endpoints:
//
//   - POST /account                 : create an account for the current user
//   - GET  /account                 : list all accounts, redacted per actor
//   - GET  /account/:id/balance     : current balance of the account
//   - GET  /account/:id/transfers   : ledger history of the account
func Routes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	transferSvc *transfersvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	app.Post("/account", middleware.JwtProtected(cfg.Jwt), CreateAccount(accountSvc, authSvc))
	app.Get("/account", middleware.JwtProtected(cfg.Jwt), ListAccounts(accountSvc, authSvc))
	app.Get("/account/:id/balance", middleware.JwtProtected(cfg.Jwt), GetBalance(transferSvc, authSvc))
	app.Get("/account/:id/transfers", middleware.JwtProtected(cfg.Jwt), GetTransfers(transferSvc, authSvc))
}

// CreateAccount returns the handler creating a new account for the current
// user. The user's first account triggers the signup bonus.
func CreateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.CreateAccount(c.Context(), actor, input.Description, input.MinimumBalance)
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemFromError(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", newAccountResponse(a))
	}
}

// ListAccounts returns the handler listing every account, with balance and
// minimum balance present only on accounts the actor owns.
func ListAccounts(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		views, err := accountSvc.ListAccounts(c.Context(), actor)
		if err != nil {
			log.Errorf("Failed to list accounts: %v", err)
			return common.ProblemFromError(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", views)
	}
}

// GetBalance returns the handler resolving the current balance of an account.
func GetBalance(transferSvc *transfersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
		}
		balance, err := transferSvc.FindBalance(c.Context(), actor, accountID)
		if err != nil {
			return common.ProblemFromError(c, "Failed to get balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance", BalanceResponse{
			AccountID: accountID.String(),
			Balance:   balance,
		})
	}
}

// GetTransfers returns the handler listing the transfer history of an
// account in ledger order.
func GetTransfers(transferSvc *transfersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.Actor(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
		}
		transfers, err := transferSvc.FindTransfersByAccountID(c.Context(), actor, accountID)
		if err != nil {
			return common.ProblemFromError(c, "Failed to list transfers", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfers", transfers)
	}
}
