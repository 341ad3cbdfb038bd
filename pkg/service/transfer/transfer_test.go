package transfer_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	infraeventbus "github.com/ximedes/conto/infra/eventbus"
	"github.com/ximedes/conto/internal/fixtures"
	"github.com/ximedes/conto/pkg/config"
	"github.com/ximedes/conto/pkg/domain"
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/domain/events"
	"github.com/ximedes/conto/pkg/domain/user"
	transfersvc "github.com/ximedes/conto/pkg/service/transfer"
)

func testDeps(store *fixtures.Store) config.Deps {
	return config.Deps{
		Uow:      fixtures.NewUnitOfWork(store),
		EventBus: infraeventbus.NewWithMemory(slog.Default()),
		Logger:   slog.Default(),
		Config: &config.App{
			Bonus: &config.Bonus{
				Amount:             100,
				Description:        "Welcome to Conto!",
				RootMinimumBalance: -1_000_000_000_000,
			},
		},
	}
}

func seedUser(t *testing.T, store *fixtures.Store, username string) *user.User {
	t.Helper()
	u := &user.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Role:     user.RoleUser,
	}
	store.AddUser(u)
	return u
}

func seedAccount(t *testing.T, store *fixtures.Store, owner uuid.UUID, balance account.Balance, minimum int64) *account.Account {
	t.Helper()
	a, err := account.New().
		WithOwner(owner).
		WithMinimumBalance(minimum).
		WithBalance(balance).
		Build()
	require.NoError(t, err)
	store.AddAccount(a)
	return a
}

func TestAttemptTransfer_Success(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	b := seedAccount(t, store, bob.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	tr, err := svc.AttemptTransfer(context.Background(), alice, a.ID, b.ID, 50, "rent")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.NotEqual(t, uuid.Nil, tr.ID)
	assert.EqualValues(t, 50, tr.Amount)

	gotA, _ := store.Account(a.ID)
	gotB, _ := store.Account(b.ID)
	balA, _ := gotA.Balance.Value()
	balB, _ := gotB.Balance.Value()
	assert.EqualValues(t, 50, balA)
	assert.EqualValues(t, 50, balB)

	ledger := store.Transfers()
	require.Len(t, ledger, 1)
	assert.Equal(t, tr.ID, ledger[0].ID)
}

func TestAttemptTransfer_InsufficientFunds(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	b := seedAccount(t, store, bob.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	_, err := svc.AttemptTransfer(context.Background(), alice, a.ID, b.ID, 150, "too much")
	require.ErrorIs(t, err, account.ErrInsufficientFunds)

	gotA, _ := store.Account(a.ID)
	gotB, _ := store.Account(b.ID)
	balA, _ := gotA.Balance.Value()
	balB, _ := gotB.Balance.Value()
	assert.EqualValues(t, 100, balA, "failed transfer must not touch the debit account")
	assert.EqualValues(t, 0, balB, "failed transfer must not touch the credit account")
	assert.Empty(t, store.Transfers(), "failed transfer must not reach the ledger")
}

func TestAttemptTransfer_OverdraftWithinMinimum(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	a := seedAccount(t, store, alice.ID, account.Cached(100), -50)
	b := seedAccount(t, store, bob.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	tr, err := svc.AttemptTransfer(context.Background(), alice, a.ID, b.ID, 120, "overdraft")
	require.NoError(t, err)
	assert.EqualValues(t, 120, tr.Amount)

	gotA, _ := store.Account(a.ID)
	gotB, _ := store.Account(b.ID)
	balA, _ := gotA.Balance.Value()
	balB, _ := gotB.Balance.Value()
	assert.EqualValues(t, -20, balA)
	assert.EqualValues(t, 120, balB)
	assert.Len(t, store.Transfers(), 1)
}

func TestAttemptTransfer_DebitAccountNotFound(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	b := seedAccount(t, store, alice.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	_, err := svc.AttemptTransfer(context.Background(), alice, uuid.New(), b.ID, 10, "")
	require.ErrorIs(t, err, account.ErrAccountNotAvailable)
	var notAvailable *account.AccountNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Equal(t, account.Debit, notAvailable.Side)
}

func TestAttemptTransfer_CreditAccountNotFound(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	svc := transfersvc.New(testDeps(store))

	_, err := svc.AttemptTransfer(context.Background(), alice, a.ID, uuid.New(), 10, "")
	require.ErrorIs(t, err, account.ErrAccountNotAvailable)
	var notAvailable *account.AccountNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Equal(t, account.Credit, notAvailable.Side)
	assert.Empty(t, store.Transfers())
}

func TestAttemptTransfer_AccessDenied(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	mallory := seedUser(t, store, "mallory")
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	b := seedAccount(t, store, mallory.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	_, err := svc.AttemptTransfer(context.Background(), mallory, a.ID, b.ID, 10, "")
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	gotA, _ := store.Account(a.ID)
	balA, _ := gotA.Balance.Value()
	assert.EqualValues(t, 100, balA)
}

func TestAttemptTransfer_AdminMayDebitAnyAccount(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	admin := seedUser(t, store, "admin")
	admin.Role = user.RoleAdmin
	store.AddUser(admin)
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	b := seedAccount(t, store, admin.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	_, err := svc.AttemptTransfer(context.Background(), admin, a.ID, b.ID, 10, "correction")
	require.NoError(t, err)
}

func TestAttemptTransfer_RejectsNonPositiveAmount(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	svc := transfersvc.New(testDeps(store))

	for _, amount := range []int64{0, -5} {
		_, err := svc.AttemptTransfer(context.Background(), alice, a.ID, a.ID, amount, "")
		assert.ErrorIs(t, err, account.ErrTransferAmountMustBePositive)
	}
}

func TestAttemptTransfer_SelfTransferAllowed(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	svc := transfersvc.New(testDeps(store))

	tr, err := svc.AttemptTransfer(context.Background(), alice, a.ID, a.ID, 30, "to self")
	require.NoError(t, err)
	assert.Equal(t, tr.DebitAccountID, tr.CreditAccountID)

	gotA, _ := store.Account(a.ID)
	balA, _ := gotA.Balance.Value()
	assert.EqualValues(t, 100, balA, "self-transfer nets to zero")
	assert.Len(t, store.Transfers(), 1)
}

func TestAttemptTransfer_UncalculatedDebitBalance(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	a := seedAccount(t, store, alice.ID, account.Uncalculated(), 0)
	b := seedAccount(t, store, bob.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	// Seed ledger history giving the debit account 80.
	funding := seedAccount(t, store, bob.ID, account.Uncalculated(), -1000)
	seedTransfer(t, store, funding.ID, a.ID, 80)

	tr, err := svc.AttemptTransfer(context.Background(), alice, a.ID, b.ID, 60, "")
	require.NoError(t, err)
	assert.EqualValues(t, 60, tr.Amount)

	gotA, _ := store.Account(a.ID)
	balA, ok := gotA.Balance.Value()
	require.True(t, ok, "resolving an uncalculated balance must cache it")
	assert.EqualValues(t, 20, balA)

	_, err = svc.AttemptTransfer(context.Background(), alice, a.ID, b.ID, 60, "")
	require.ErrorIs(t, err, account.ErrInsufficientFunds)
}

func seedTransfer(t *testing.T, store *fixtures.Store, debit, credit uuid.UUID, amount int64) {
	t.Helper()
	tr, err := account.NewTransfer(debit, credit, amount, "seed")
	require.NoError(t, err)
	uow := fixtures.NewUnitOfWork(store)
	ledger, err := uow.TransferRepository()
	require.NoError(t, err)
	require.NoError(t, ledger.Insert(context.Background(), tr))
}

func TestFindBalance_Cached(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	a := seedAccount(t, store, alice.ID, account.Cached(250), 0)
	svc := transfersvc.New(testDeps(store))

	balance, err := svc.FindBalance(context.Background(), alice, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 250, balance)
}

func TestFindBalance_ComputesAndCaches(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	a := seedAccount(t, store, alice.ID, account.Uncalculated(), 0)
	b := seedAccount(t, store, bob.ID, account.Uncalculated(), -1000)
	seedTransfer(t, store, b.ID, a.ID, 70)
	seedTransfer(t, store, a.ID, b.ID, 30)
	svc := transfersvc.New(testDeps(store))

	balance, err := svc.FindBalance(context.Background(), alice, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 40, balance)

	gotA, _ := store.Account(a.ID)
	cached, ok := gotA.Balance.Value()
	require.True(t, ok, "computed balance must be written back to the cache field")
	assert.EqualValues(t, 40, cached)

	// Cached read and ledger computation must agree.
	computed, err := svc.CalculateBalanceByAccountID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, balance, computed)
}

func TestFindBalance_EmptyAccountResolvesToZero(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	a := seedAccount(t, store, alice.ID, account.Uncalculated(), 0)
	svc := transfersvc.New(testDeps(store))

	balance, err := svc.FindBalance(context.Background(), alice, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, balance)
}

func TestFindBalance_UnknownAccount(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	svc := transfersvc.New(testDeps(store))

	_, err := svc.FindBalance(context.Background(), alice, uuid.New())
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestFindBalance_AccessDenied(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	mallory := seedUser(t, store, "mallory")
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	svc := transfersvc.New(testDeps(store))

	_, err := svc.FindBalance(context.Background(), mallory, a.ID)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestFindBalance_AdminHasAccess(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	admin := seedUser(t, store, "admin")
	admin.Role = user.RoleAdmin
	store.AddUser(admin)
	a := seedAccount(t, store, alice.ID, account.Cached(100), 0)
	svc := transfersvc.New(testDeps(store))

	balance, err := svc.FindBalance(context.Background(), admin, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance)
}

func TestFindTransfersByAccountID(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	a := seedAccount(t, store, alice.ID, account.Cached(1000), 0)
	b := seedAccount(t, store, bob.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	first, err := svc.AttemptTransfer(context.Background(), alice, a.ID, b.ID, 10, "first")
	require.NoError(t, err)
	second, err := svc.AttemptTransfer(context.Background(), alice, a.ID, b.ID, 20, "second")
	require.NoError(t, err)

	transfers, err := svc.FindTransfersByAccountID(context.Background(), alice, a.ID)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, first.ID, transfers[0].ID, "history must be in ledger insertion order")
	assert.Equal(t, second.ID, transfers[1].ID)
}

func TestFindTransfersByAccountID_UnknownAccount(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	svc := transfersvc.New(testDeps(store))

	_, err := svc.FindTransfersByAccountID(context.Background(), alice, uuid.New())
	require.ErrorIs(t, err, account.ErrAccountNotAvailable)
	var notAvailable *account.AccountNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Equal(t, account.Unknown, notAvailable.Side)
}

func TestFindTransfersByAccountID_AccessDenied(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	mallory := seedUser(t, store, "mallory")
	a := seedAccount(t, store, alice.ID, account.Cached(0), 0)
	svc := transfersvc.New(testDeps(store))

	_, err := svc.FindTransfersByAccountID(context.Background(), mallory, a.ID)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestOnFirstAccountCreated_GrantsSignupBonus(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	root, err := account.New().
		AsRoot().
		WithMinimumBalance(-1_000_000_000_000).
		WithBalance(account.Cached(1000)).
		Build()
	require.NoError(t, err)
	store.AddAccount(root)
	a := seedAccount(t, store, alice.ID, account.Uncalculated(), 0)
	svc := transfersvc.New(testDeps(store))

	err = svc.OnFirstAccountCreated(context.Background(), events.FirstAccountCreated{
		Owner:     alice.ID,
		AccountID: a.ID,
	})
	require.NoError(t, err)

	gotRoot, _ := store.Account(root.ID)
	rootBalance, _ := gotRoot.Balance.Value()
	assert.EqualValues(t, 900, rootBalance, "bonus is debited from the root account")

	balance, err := svc.FindBalance(context.Background(), alice, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance, "bonus reaches the new account through the ledger")

	ledger := store.Transfers()
	require.Len(t, ledger, 1)
	assert.Equal(t, root.ID, ledger[0].DebitAccountID)
	assert.Equal(t, a.ID, ledger[0].CreditAccountID)
	assert.EqualValues(t, 100, ledger[0].Amount)
	assert.Equal(t, "Welcome to Conto!", ledger[0].Description)
}

func TestOnFirstAccountCreated_NoRootAccount(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	a := seedAccount(t, store, alice.ID, account.Uncalculated(), 0)
	svc := transfersvc.New(testDeps(store))

	err := svc.OnFirstAccountCreated(context.Background(), events.FirstAccountCreated{
		Owner:     alice.ID,
		AccountID: a.ID,
	})
	require.Error(t, err)
	assert.Empty(t, store.Transfers())
}
