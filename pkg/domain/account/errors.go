package account

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInsufficientFunds is returned when a transfer would push the debit
	// account below its minimum balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransferAmountMustBePositive is returned when a transfer amount is
	// zero or negative.
	ErrTransferAmountMustBePositive = errors.New("transfer amount must be positive")

	// ErrAccountNotAvailable is the sentinel matched by errors.Is for any
	// AccountNotAvailableError.
	ErrAccountNotAvailable = errors.New("account not available")
)

// Side names which account reference of a transfer could not be resolved.
type Side string

const (
	Debit   Side = "DEBIT"
	Credit  Side = "CREDIT"
	Unknown Side = "UNKNOWN"
)

// AccountNotAvailableError reports a referenced account that does not exist,
// naming which side of the transfer it was on.
type AccountNotAvailableError struct {
	Side      Side
	AccountID uuid.UUID
}

func (e *AccountNotAvailableError) Error() string {
	switch e.Side {
	case Debit:
		return fmt.Sprintf("debit account with ID %s not found", e.AccountID)
	case Credit:
		return fmt.Sprintf("credit account with ID %s not found", e.AccountID)
	default:
		return fmt.Sprintf("account with ID %s not found", e.AccountID)
	}
}

func (e *AccountNotAvailableError) Is(target error) bool {
	return target == ErrAccountNotAvailable
}

// NewAccountNotAvailableError creates an AccountNotAvailableError for the
// given side.
func NewAccountNotAvailableError(side Side, accountID uuid.UUID) *AccountNotAvailableError {
	return &AccountNotAvailableError{Side: side, AccountID: accountID}
}
