// Package transfer implements the append-only transfer ledger on GORM.
package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/ximedes/conto/infra"
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/repository"
	"gorm.io/gorm"
)

type transferRepository struct {
	db *gorm.DB
}

// New creates a transfer repository bound to the given session.
func New(db *gorm.DB) repository.TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Insert(ctx context.Context, t *account.Transfer) error {
	row := infra.Transfer{
		ID:              t.ID,
		DebitAccountID:  t.DebitAccountID,
		CreditAccountID: t.CreditAccountID,
		Amount:          t.Amount,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *transferRepository) ListByAccountID(ctx context.Context, id uuid.UUID) ([]*account.Transfer, error) {
	var rows []infra.Transfer
	err := r.db.WithContext(ctx).
		Where("debit_account_id = ? OR credit_account_id = ?", id, id).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]*account.Transfer, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		result = append(result, account.NewTransferFromData(
			row.ID,
			row.DebitAccountID,
			row.CreditAccountID,
			row.Amount,
			row.Description,
			row.CreatedAt,
		))
	}
	return result, nil
}

// SumByAccountID derives the balance from ledger history. The two sums are
// kept separate so a self-transfer nets to zero.
func (r *transferRepository) SumByAccountID(ctx context.Context, id uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&infra.Transfer{}).
		Select(
			"COALESCE(SUM(CASE WHEN credit_account_id = ? THEN amount ELSE 0 END), 0) - "+
				"COALESCE(SUM(CASE WHEN debit_account_id = ? THEN amount ELSE 0 END), 0)",
			id, id,
		).
		Where("debit_account_id = ? OR credit_account_id = ?", id, id).
		Scan(&sum).Error
	return sum, err
}
