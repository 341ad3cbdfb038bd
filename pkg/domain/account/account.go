// Package account holds the core banking entities: accounts with an optional
// cached balance and the immutable transfer records of the ledger.
package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Balance is the account balance field as stored: either a cached value or
// uncalculated. An uncalculated balance must be derived by summing the ledger.
type Balance struct {
	value  int64
	cached bool
}

// Cached returns a balance holding a known value.
func Cached(value int64) Balance {
	return Balance{value: value, cached: true}
}

// Uncalculated returns a balance that has to be derived from the ledger.
func Uncalculated() Balance {
	return Balance{}
}

// Value returns the cached value and whether one is present.
func (b Balance) Value() (int64, bool) {
	return b.value, b.cached
}

// IsCached reports whether the balance holds a cached value.
func (b Balance) IsCached() bool {
	return b.cached
}

// Account represents a balance holder owned by a single user. The balance may
// be cached on the record or left uncalculated; either way it must never fall
// below MinimumBalance after a committed transfer.
type Account struct {
	ID             uuid.UUID
	Owner          uuid.UUID
	Description    string
	MinimumBalance int64
	Balance        Balance
	Root           bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Builder provides a fluent API for constructing Account instances, both for
// new accounts and for hydrating records from the store.
type Builder struct {
	id             uuid.UUID
	owner          uuid.UUID
	description    string
	minimumBalance int64
	balance        Balance
	root           bool
	createdAt      time.Time
	updatedAt      time.Time
}

// New creates a Builder with a fresh ID and an uncalculated balance.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		balance:   Uncalculated(),
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithOwner sets the owning user. Mandatory for non-root accounts.
func (b *Builder) WithOwner(owner uuid.UUID) *Builder {
	b.owner = owner
	return b
}

// WithDescription sets the free-text label.
func (b *Builder) WithDescription(description string) *Builder {
	b.description = description
	return b
}

// WithMinimumBalance sets the floor the balance may never go below.
func (b *Builder) WithMinimumBalance(minimum int64) *Builder {
	b.minimumBalance = minimum
	return b
}

// WithBalance sets a cached balance. This is for hydrating an existing
// account from the store or for test setup; new accounts start uncalculated.
func (b *Builder) WithBalance(balance Balance) *Builder {
	b.balance = balance
	return b
}

// AsRoot marks the account as the designated system account.
func (b *Builder) AsRoot() *Builder {
	b.root = true
	return b
}

// WithCreatedAt sets the creation timestamp, for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp, for hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the invariants and returns the Account. A cached balance
// below the minimum balance is rejected; only root accounts may omit an
// owner.
func (b *Builder) Build() (*Account, error) {
	if b.owner == uuid.Nil && !b.root {
		return nil, errors.New("owner is required")
	}
	if v, ok := b.balance.Value(); ok && v < b.minimumBalance {
		return nil, ErrInsufficientFunds
	}
	return &Account{
		ID:             b.id,
		Owner:          b.owner,
		Description:    b.description,
		MinimumBalance: b.minimumBalance,
		Balance:        b.balance,
		Root:           b.root,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.updatedAt,
	}, nil
}
