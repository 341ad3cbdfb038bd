// Package repository defines the persistence contracts consumed by the
// service layer: the account store, the transfer ledger, the user store, and
// the unit of work that binds them to one transaction.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/domain/user"
)

// AccountRepository is the account store. Lookup methods return (nil, nil)
// when no record matches; the caller decides which failure that maps to.
type AccountRepository interface {
	// Create persists a new account.
	Create(ctx context.Context, a *account.Account) error
	// Get returns the account with the given ID.
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// GetForUpdate returns the account with the given ID, row-locked for the
	// remainder of the transaction so concurrent transfers on the same
	// account serialize at the store.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// ListAll returns every account in creation order.
	ListAll(ctx context.Context) ([]*account.Account, error)
	// CountByOwner returns how many accounts the owner has.
	CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error)
	// SetBalance writes a computed balance into the account's cache field.
	SetBalance(ctx context.Context, id uuid.UUID, value int64) error
	// ApplyTransferDelta adds delta to the cached balance. Accounts whose
	// balance is uncalculated are left untouched; their balance keeps being
	// derived from the ledger.
	ApplyTransferDelta(ctx context.Context, id uuid.UUID, delta int64) error
	// Root returns the designated system account.
	Root(ctx context.Context) (*account.Account, error)
}

// TransferRepository is the append-only transfer ledger.
type TransferRepository interface {
	// Insert appends a transfer to the ledger.
	Insert(ctx context.Context, t *account.Transfer) error
	// ListByAccountID returns every transfer where the account is the debit
	// or credit party, in insertion order.
	ListByAccountID(ctx context.Context, id uuid.UUID) ([]*account.Transfer, error)
	// SumByAccountID computes the account balance from ledger history:
	// credits add, debits subtract. An account with no transfers sums to 0.
	SumByAccountID(ctx context.Context, id uuid.UUID) (int64, error)
}

// UserRepository is the user store. Lookups return (nil, nil) when no record
// matches.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}
