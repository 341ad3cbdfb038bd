// Package fixtures provides an in-memory store and unit of work for service
// and handler tests. Do snapshots the store and restores it when the unit
// fails, so rollback behavior can be asserted without a database.
package fixtures

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/domain/user"
	"github.com/ximedes/conto/pkg/repository"
)

// Store is the shared in-memory state behind the fixture repositories.
type Store struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]account.Account
	order     []uuid.UUID
	transfers []account.Transfer
	users     map[uuid.UUID]user.User
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]account.Account),
		users:    make(map[uuid.UUID]user.User),
	}
}

// AddAccount seeds an account.
func (s *Store) AddAccount(a *account.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = *a
	s.order = append(s.order, a.ID)
}

// AddUser seeds a user.
func (s *Store) AddUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
}

// Transfers returns a copy of the ledger in insertion order.
func (s *Store) Transfers() []account.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]account.Transfer, len(s.transfers))
	copy(out, s.transfers)
	return out
}

// Account returns a copy of the stored account record.
func (s *Store) Account(id uuid.UUID) (account.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	return a, ok
}

func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &Store{
		accounts: make(map[uuid.UUID]account.Account, len(s.accounts)),
		users:    make(map[uuid.UUID]user.User, len(s.users)),
	}
	for id, a := range s.accounts {
		snap.accounts[id] = a
	}
	for id, u := range s.users {
		snap.users[id] = u
	}
	snap.order = append([]uuid.UUID(nil), s.order...)
	snap.transfers = append([]account.Transfer(nil), s.transfers...)
	return snap
}

func (s *Store) restore(snap *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.order = snap.order
	s.transfers = snap.transfers
	s.users = snap.users
}

// UnitOfWork is the fixture implementation of repository.UnitOfWork.
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork creates a unit of work over the store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Do runs fn and restores the pre-call state when fn fails.
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	snap := u.store.snapshot()
	if err := fn(u); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// GetRepository resolves a fixture repository by interface type.
func (u *UnitOfWork) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():
		return &accountRepository{store: u.store}, nil
	case reflect.TypeOf((*repository.TransferRepository)(nil)).Elem():
		return &transferRepository{store: u.store}, nil
	case reflect.TypeOf((*repository.UserRepository)(nil)).Elem():
		return &userRepository{store: u.store}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

// AccountRepository returns the fixture account store.
func (u *UnitOfWork) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{store: u.store}, nil
}

// TransferRepository returns the fixture ledger.
func (u *UnitOfWork) TransferRepository() (repository.TransferRepository, error) {
	return &transferRepository{store: u.store}, nil
}

// UserRepository returns the fixture user store.
func (u *UnitOfWork) UserRepository() (repository.UserRepository, error) {
	return &userRepository{store: u.store}, nil
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

type accountRepository struct {
	store *Store
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.accounts[a.ID]; exists {
		return fmt.Errorf("account %s already exists", a.ID)
	}
	r.store.accounts[a.ID] = *a
	r.store.order = append(r.store.order, a.ID)
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := a
	return &cp, nil
}

func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.Get(ctx, id)
}

func (r *accountRepository) ListAll(ctx context.Context) ([]*account.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*account.Account, 0, len(r.store.order))
	for _, id := range r.store.order {
		a := r.store.accounts[id]
		cp := a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *accountRepository) CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, a := range r.store.accounts {
		if a.Owner == owner {
			count++
		}
	}
	return count, nil
}

func (r *accountRepository) SetBalance(ctx context.Context, id uuid.UUID, value int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return fmt.Errorf("account %s does not exist", id)
	}
	a.Balance = account.Cached(value)
	r.store.accounts[id] = a
	return nil
}

func (r *accountRepository) ApplyTransferDelta(ctx context.Context, id uuid.UUID, delta int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return fmt.Errorf("account %s does not exist", id)
	}
	if v, cached := a.Balance.Value(); cached {
		a.Balance = account.Cached(v + delta)
		r.store.accounts[id] = a
	}
	return nil
}

func (r *accountRepository) Root(ctx context.Context) (*account.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range r.store.order {
		if a := r.store.accounts[id]; a.Root {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

type transferRepository struct {
	store *Store
}

func (r *transferRepository) Insert(ctx context.Context, t *account.Transfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transfers = append(r.store.transfers, *t)
	return nil
}

func (r *transferRepository) ListByAccountID(ctx context.Context, id uuid.UUID) ([]*account.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*account.Transfer
	for i := range r.store.transfers {
		t := r.store.transfers[i]
		if t.DebitAccountID == id || t.CreditAccountID == id {
			cp := t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *transferRepository) SumByAccountID(ctx context.Context, id uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sum int64
	for _, t := range r.store.transfers {
		if t.CreditAccountID == id {
			sum += t.Amount
		}
		if t.DebitAccountID == id {
			sum -= t.Amount
		}
	}
	return sum, nil
}

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[u.ID] = *u
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}
