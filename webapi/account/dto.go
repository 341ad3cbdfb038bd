package account

import (
	"time"

	"github.com/ximedes/conto/pkg/domain/account"
)

// CreateAccountRequest is the payload for POST /account.
type CreateAccountRequest struct {
	Description    string `json:"description" validate:"max=255"`
	MinimumBalance int64  `json:"minimumBalance"`
}

// BalanceResponse is the payload returned by GET /account/:id/balance.
type BalanceResponse struct {
	AccountID string `json:"accountID"`
	Balance   int64  `json:"balance"`
}

// AccountResponse is the payload returned by POST /account. Balance is nil
// while the account's balance is still uncalculated.
type AccountResponse struct {
	AccountID      string    `json:"accountID"`
	Owner          string    `json:"owner"`
	Description    string    `json:"description"`
	MinimumBalance int64     `json:"minimumBalanceAllowed"`
	Balance        *int64    `json:"balance,omitempty"`
	Created        time.Time `json:"created"`
}

func newAccountResponse(a *account.Account) AccountResponse {
	resp := AccountResponse{
		AccountID:      a.ID.String(),
		Owner:          a.Owner.String(),
		Description:    a.Description,
		MinimumBalance: a.MinimumBalance,
		Created:        a.CreatedAt,
	}
	if v, ok := a.Balance.Value(); ok {
		resp.Balance = &v
	}
	return resp
}
