// Package account implements the account store on GORM.
package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ximedes/conto/infra"
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// New creates an account repository bound to the given session.
func New(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	row := mapDomainToModel(a)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var row infra.Account
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDomain(&row)
}

func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var row infra.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDomain(&row)
}

func (r *accountRepository) ListAll(ctx context.Context) ([]*account.Account, error) {
	var rows []infra.Account
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*account.Account, 0, len(rows))
	for i := range rows {
		a, err := mapModelToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *accountRepository) CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&infra.Account{}).
		Where("owner = ?", owner).
		Count(&count).Error
	return count, err
}

func (r *accountRepository) SetBalance(ctx context.Context, id uuid.UUID, value int64) error {
	return r.db.WithContext(ctx).
		Model(&infra.Account{}).
		Where("id = ?", id).
		Update("balance", value).Error
}

// ApplyTransferDelta shifts the cached balance. Rows whose balance is NULL
// stay NULL; their balance keeps being derived from the ledger.
func (r *accountRepository) ApplyTransferDelta(ctx context.Context, id uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&infra.Account{}).
		Where("id = ? AND balance IS NOT NULL", id).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}

func (r *accountRepository) Root(ctx context.Context) (*account.Account, error) {
	var row infra.Account
	if err := r.db.WithContext(ctx).First(&row, "root = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDomain(&row)
}

func mapDomainToModel(a *account.Account) infra.Account {
	row := infra.Account{
		ID:             a.ID,
		Owner:          a.Owner,
		Description:    a.Description,
		MinimumBalance: a.MinimumBalance,
		Root:           a.Root,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if v, ok := a.Balance.Value(); ok {
		row.Balance = &v
	}
	return row
}

func mapModelToDomain(row *infra.Account) (*account.Account, error) {
	balance := account.Uncalculated()
	if row.Balance != nil {
		balance = account.Cached(*row.Balance)
	}
	b := account.New().
		WithID(row.ID).
		WithOwner(row.Owner).
		WithDescription(row.Description).
		WithMinimumBalance(row.MinimumBalance).
		WithBalance(balance).
		WithCreatedAt(row.CreatedAt).
		WithUpdatedAt(row.UpdatedAt)
	if row.Root {
		b = b.AsRoot()
	}
	return b.Build()
}
