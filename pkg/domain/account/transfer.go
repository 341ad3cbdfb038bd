package account

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is an immutable movement of funds from the debit account to the
// credit account. Once inserted into the ledger it is never updated or
// deleted.
type Transfer struct {
	ID              uuid.UUID `json:"id"`
	DebitAccountID  uuid.UUID `json:"debitAccountID"`
	CreditAccountID uuid.UUID `json:"creditAccountID"`
	Amount          int64     `json:"amount"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created"`
}

// NewTransfer creates a Transfer with a freshly generated ID.
func NewTransfer(debitAccountID, creditAccountID uuid.UUID, amount int64, description string) (*Transfer, error) {
	if amount <= 0 {
		return nil, ErrTransferAmountMustBePositive
	}
	return &Transfer{
		ID:              uuid.New(),
		DebitAccountID:  debitAccountID,
		CreditAccountID: creditAccountID,
		Amount:          amount,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// NewTransferFromData hydrates a Transfer from the store.
func NewTransferFromData(
	id, debitAccountID, creditAccountID uuid.UUID,
	amount int64,
	description string,
	createdAt time.Time,
) *Transfer {
	return &Transfer{
		ID:              id,
		DebitAccountID:  debitAccountID,
		CreditAccountID: creditAccountID,
		Amount:          amount,
		Description:     description,
		CreatedAt:       createdAt,
	}
}
