package transfer

// CreateTransferRequest is the payload for POST /transfer.
type CreateTransferRequest struct {
	DebitAccountID  string `json:"debitAccountID" validate:"required"`
	CreditAccountID string `json:"creditAccountID" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	Description     string `json:"description" validate:"max=255"`
}
