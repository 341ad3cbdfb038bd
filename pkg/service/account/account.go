// Package account provides the account lifecycle operations: creation with
// the first-account signup event, the redacted listing read model, and the
// root account bootstrap.
package account

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ximedes/conto/pkg/config"
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/domain/events"
	"github.com/ximedes/conto/pkg/domain/user"
	"github.com/ximedes/conto/pkg/eventbus"
	"github.com/ximedes/conto/pkg/repository"
)

// Service provides account creation and the listing read model.
type Service struct {
	uow      repository.UnitOfWork
	eventBus eventbus.Bus
	logger   *slog.Logger
	cfg      *config.App
}

// New creates an account Service from the shared dependency bundle.
func New(deps config.Deps) *Service {
	return &Service{
		uow:      deps.Uow,
		eventBus: deps.EventBus,
		logger:   deps.Logger,
		cfg:      deps.Config,
	}
}

// CreateAccount creates a new account for the actor. The very first account
// of a user additionally emits a FirstAccountCreated event after the creation
// has committed, which the signup bonus handler consumes synchronously.
func (s *Service) CreateAccount(
	ctx context.Context,
	actor *user.User,
	description string,
	minimumBalance int64,
) (a *account.Account, err error) {
	var first bool
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		existing, err := accounts.CountByOwner(ctx, actor.ID)
		if err != nil {
			return err
		}
		first = existing == 0
		a, err = account.New().
			WithOwner(actor.ID).
			WithDescription(description).
			WithMinimumBalance(minimumBalance).
			Build()
		if err != nil {
			return err
		}
		return accounts.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", "accountID", a.ID, "owner", actor.ID, "first", first)
	if first {
		if err := s.eventBus.Emit(ctx, events.FirstAccountCreated{
			Owner:     actor.ID,
			AccountID: a.ID,
		}); err != nil {
			s.logger.Error("first account event delivery failed", "accountID", a.ID, "error", err)
		}
	}
	return a, nil
}

// View is the listing read model for a single account. Balance and
// MinimumBalance are nil for accounts the requesting actor does not own.
type View struct {
	AccountID      uuid.UUID `json:"accountID"`
	Owner          uuid.UUID `json:"owner"`
	Description    string    `json:"description"`
	MinimumBalance *int64    `json:"minimumBalanceAllowed,omitempty"`
	Balance        *int64    `json:"balance,omitempty"`
}

// ListAccounts returns every account. Sensitive fields are only populated on
// accounts owned by the actor; for those the balance is the cached value or,
// when uncalculated, the ledger sum (computed without cache write-back).
func (s *Service) ListAccounts(ctx context.Context, actor *user.User) (views []View, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		ledger, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		all, err := accounts.ListAll(ctx)
		if err != nil {
			return err
		}
		views = make([]View, 0, len(all))
		for _, a := range all {
			v := View{
				AccountID:   a.ID,
				Owner:       a.Owner,
				Description: a.Description,
			}
			if a.Owner == actor.ID {
				balance, ok := a.Balance.Value()
				if !ok {
					if balance, err = ledger.SumByAccountID(ctx, a.ID); err != nil {
						return err
					}
				}
				minimum := a.MinimumBalance
				v.Balance = &balance
				v.MinimumBalance = &minimum
			}
			views = append(views, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// EnsureRootAccount creates the designated system account on first startup.
// Its minimum balance is configured low enough that granting a signup bonus
// can never fail the minimum-balance check.
func (s *Service) EnsureRootAccount(ctx context.Context) (root *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		root, err = accounts.Root(ctx)
		if err != nil || root != nil {
			return err
		}
		root, err = account.New().
			AsRoot().
			WithDescription("Conto root account").
			WithMinimumBalance(s.cfg.Bonus.RootMinimumBalance).
			WithBalance(account.Cached(0)).
			Build()
		if err != nil {
			return err
		}
		s.logger.Info("bootstrapping root account", "accountID", root.ID)
		return accounts.Create(ctx, root)
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}
