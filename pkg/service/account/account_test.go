package account_test

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
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/domain/events"
	"github.com/ximedes/conto/pkg/domain/user"
	accountsvc "github.com/ximedes/conto/pkg/service/account"
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

func TestCreateAccount_FirstAccountEmitsEvent(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	deps := testDeps(store)
	bus := deps.EventBus.(*infraeventbus.MemoryEventBus)
	svc := accountsvc.New(deps)

	a, err := svc.CreateAccount(context.Background(), alice, "checking", 0)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.False(t, a.Balance.IsCached(), "a new account starts with an uncalculated balance")

	published := bus.Published()
	require.Len(t, published, 1)
	evt, ok := published[0].(events.FirstAccountCreated)
	require.True(t, ok)
	assert.Equal(t, alice.ID, evt.Owner)
	assert.Equal(t, a.ID, evt.AccountID)

	// A second account is not a first account.
	_, err = svc.CreateAccount(context.Background(), alice, "savings", 0)
	require.NoError(t, err)
	assert.Len(t, bus.Published(), 1)
}

func TestCreateAccount_BonusFlow(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	deps := testDeps(store)
	svc := accountsvc.New(deps)
	transferSvc := transfersvc.New(deps)
	transferSvc.RegisterHandlers(deps.EventBus)

	root, err := svc.EnsureRootAccount(context.Background())
	require.NoError(t, err)

	a, err := svc.CreateAccount(context.Background(), alice, "first", 0)
	require.NoError(t, err)

	balance, err := transferSvc.FindBalance(context.Background(), alice, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance, "first account receives the signup bonus")

	gotRoot, _ := store.Account(root.ID)
	rootBalance, _ := gotRoot.Balance.Value()
	assert.EqualValues(t, -100, rootBalance)
}

func TestEnsureRootAccount_Idempotent(t *testing.T) {
	store := fixtures.NewStore()
	svc := accountsvc.New(testDeps(store))

	first, err := svc.EnsureRootAccount(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.Root)

	second, err := svc.EnsureRootAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestListAccounts_RedactsForeignAccounts(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	deps := testDeps(store)
	svc := accountsvc.New(deps)

	mine, err := account.New().
		WithOwner(alice.ID).
		WithDescription("mine").
		WithMinimumBalance(-10).
		WithBalance(account.Cached(75)).
		Build()
	require.NoError(t, err)
	store.AddAccount(mine)

	theirs, err := account.New().
		WithOwner(bob.ID).
		WithDescription("theirs").
		WithBalance(account.Cached(9000)).
		Build()
	require.NoError(t, err)
	store.AddAccount(theirs)

	views, err := svc.ListAccounts(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, views, 2)

	require.NotNil(t, views[0].Balance)
	assert.EqualValues(t, 75, *views[0].Balance)
	require.NotNil(t, views[0].MinimumBalance)
	assert.EqualValues(t, -10, *views[0].MinimumBalance)

	assert.Equal(t, "theirs", views[1].Description)
	assert.Equal(t, bob.ID, views[1].Owner)
	assert.Nil(t, views[1].Balance, "foreign balances are redacted")
	assert.Nil(t, views[1].MinimumBalance, "foreign minimum balances are redacted")
}

func TestListAccounts_ComputesUncalculatedOwnBalance(t *testing.T) {
	store := fixtures.NewStore()
	alice := seedUser(t, store, "alice")
	deps := testDeps(store)
	svc := accountsvc.New(deps)

	mine, err := account.New().
		WithOwner(alice.ID).
		Build()
	require.NoError(t, err)
	store.AddAccount(mine)

	funding, err := account.New().AsRoot().WithMinimumBalance(-1000).WithBalance(account.Cached(0)).Build()
	require.NoError(t, err)
	store.AddAccount(funding)

	uow := fixtures.NewUnitOfWork(store)
	ledger, err := uow.TransferRepository()
	require.NoError(t, err)
	tr, err := account.NewTransfer(funding.ID, mine.ID, 55, "seed")
	require.NoError(t, err)
	require.NoError(t, ledger.Insert(context.Background(), tr))

	views, err := svc.ListAccounts(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].Balance)
	assert.EqualValues(t, 55, *views[0].Balance)

	// Listing computes without write-back; the stored record stays uncalculated.
	got, _ := store.Account(mine.ID)
	assert.False(t, got.Balance.IsCached())
}
