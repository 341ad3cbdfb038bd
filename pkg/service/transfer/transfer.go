// Package transfer implements the transfer ledger operations: moving funds
// between accounts, resolving balances, listing transfer history, and
// granting the signup bonus.
//
// Every operation runs inside one unit of work, so the balance check, both
// balance mutations, and the ledger insert of a transfer commit or roll back
// together.
package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ximedes/conto/pkg/config"
	"github.com/ximedes/conto/pkg/domain"
	"github.com/ximedes/conto/pkg/domain/account"
	"github.com/ximedes/conto/pkg/domain/events"
	"github.com/ximedes/conto/pkg/domain/user"
	"github.com/ximedes/conto/pkg/eventbus"
	"github.com/ximedes/conto/pkg/repository"
)

// Service provides the transfer and balance operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	bonus  *config.Bonus
}

// New creates a transfer Service from the shared dependency bundle.
func New(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		logger: deps.Logger,
		bonus:  deps.Config.Bonus,
	}
}

// RegisterHandlers subscribes the service's event handlers on the bus.
func (s *Service) RegisterHandlers(bus eventbus.Bus) {
	bus.Register(events.FirstAccountCreated{}.Type(), s.OnFirstAccountCreated)
}

// FindBalance returns the current balance of the account. The cached balance
// is used when present; otherwise the balance is computed from ledger history
// and written back into the cache field so future reads are O(1).
//
// Fails with domain.ErrInvalidArgument for an unknown account and
// domain.ErrAccessDenied when the actor may not view it.
func (s *Service) FindBalance(
	ctx context.Context,
	actor *user.User,
	accountID uuid.UUID,
) (balance int64, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("%w: no account found with ID %s", domain.ErrInvalidArgument, accountID)
		}
		if !actor.HasAccessTo(a) {
			return fmt.Errorf("%w: user %s has no access to account %s", domain.ErrAccessDenied, actor.ID, accountID)
		}
		balance, err = s.resolveBalance(ctx, uow, a)
		return err
	})
	return
}

// CalculateBalanceByAccountID computes the balance purely from ledger
// history, ignoring any cached value. An account with no transfers sums to 0.
func (s *Service) CalculateBalanceByAccountID(
	ctx context.Context,
	accountID uuid.UUID,
) (balance int64, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		ledger, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		balance, err = ledger.SumByAccountID(ctx, accountID)
		return err
	})
	return
}

// resolveBalance returns the account balance inside the current unit of work:
// the cached value when present, otherwise the ledger sum, persisted back
// into the cache field.
func (s *Service) resolveBalance(
	ctx context.Context,
	uow repository.UnitOfWork,
	a *account.Account,
) (int64, error) {
	if v, ok := a.Balance.Value(); ok {
		return v, nil
	}
	ledger, err := uow.TransferRepository()
	if err != nil {
		return 0, err
	}
	balance, err := ledger.SumByAccountID(ctx, a.ID)
	if err != nil {
		return 0, err
	}
	accounts, err := uow.AccountRepository()
	if err != nil {
		return 0, err
	}
	if err = accounts.SetBalance(ctx, a.ID, balance); err != nil {
		return 0, err
	}
	s.logger.Debug("balance cached", "accountID", a.ID, "balance", balance)
	return balance, nil
}

// AttemptTransfer moves amount from the debit account to the credit account
// and appends the transfer to the ledger. The debit row is locked for the
// duration of the transaction so a concurrent transfer cannot interleave with
// the minimum-balance check.
//
// Fails with account.ErrAccountNotAvailable (naming the missing side),
// domain.ErrAccessDenied when the actor may not operate on the debit account,
// account.ErrTransferAmountMustBePositive for non-positive amounts, and
// account.ErrInsufficientFunds when the transfer would breach the debit
// account's minimum balance. On any failure no mutation is applied.
func (s *Service) AttemptTransfer(
	ctx context.Context,
	actor *user.User,
	debitAccountID, creditAccountID uuid.UUID,
	amount int64,
	description string,
) (t *account.Transfer, err error) {
	if amount <= 0 {
		return nil, account.ErrTransferAmountMustBePositive
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		debit, err := accounts.GetForUpdate(ctx, debitAccountID)
		if err != nil {
			return err
		}
		if debit == nil {
			return account.NewAccountNotAvailableError(account.Debit, debitAccountID)
		}
		credit, err := accounts.Get(ctx, creditAccountID)
		if err != nil {
			return err
		}
		if credit == nil {
			return account.NewAccountNotAvailableError(account.Credit, creditAccountID)
		}
		if !actor.HasAccessTo(debit) {
			return fmt.Errorf("%w: user %s has no access to account %s", domain.ErrAccessDenied, actor.ID, debitAccountID)
		}

		debitBalance, err := s.resolveBalance(ctx, uow, debit)
		if err != nil {
			return err
		}
		if debitBalance-amount < debit.MinimumBalance {
			return fmt.Errorf(
				"%w: transferring %d from account %s with balance %d",
				account.ErrInsufficientFunds, amount, debit.ID, debitBalance,
			)
		}

		if err = accounts.ApplyTransferDelta(ctx, debit.ID, -amount); err != nil {
			return err
		}
		if err = accounts.ApplyTransferDelta(ctx, credit.ID, amount); err != nil {
			return err
		}

		t, err = account.NewTransfer(debit.ID, credit.ID, amount, description)
		if err != nil {
			return err
		}
		ledger, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		return ledger.Insert(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("transfer committed",
		"transferID", t.ID,
		"debitAccountID", t.DebitAccountID,
		"creditAccountID", t.CreditAccountID,
		"amount", t.Amount,
	)
	return t, nil
}

// FindTransfersByAccountID returns every transfer where the account is the
// debit or credit party, in ledger insertion order.
func (s *Service) FindTransfersByAccountID(
	ctx context.Context,
	actor *user.User,
	accountID uuid.UUID,
) (transfers []*account.Transfer, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if a == nil {
			return account.NewAccountNotAvailableError(account.Unknown, accountID)
		}
		if !actor.HasAccessTo(a) {
			return fmt.Errorf("%w: user %s has no access to account %s", domain.ErrAccessDenied, actor.ID, accountID)
		}
		ledger, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		transfers, err = ledger.ListByAccountID(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// OnFirstAccountCreated grants the signup bonus: a transfer from the root
// account to the newly created account. Only the root account's cached
// balance is debited; the new account's balance stays uncalculated and picks
// the bonus up from the ledger. The root account is never checked against its
// minimum balance; its floor is configured low enough to always permit the
// grant.
func (s *Service) OnFirstAccountCreated(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.FirstAccountCreated)
	if !ok {
		return fmt.Errorf("unexpected event %T", e)
	}
	s.logger.Info("granting signup bonus",
		"owner", evt.Owner,
		"accountID", evt.AccountID,
		"amount", s.bonus.Amount,
	)
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		root, err := accounts.Root(ctx)
		if err != nil {
			return err
		}
		if root == nil {
			return fmt.Errorf("root account does not exist")
		}
		t, err := account.NewTransfer(root.ID, evt.AccountID, s.bonus.Amount, s.bonus.Description)
		if err != nil {
			return err
		}
		ledger, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		if err = ledger.Insert(ctx, t); err != nil {
			return err
		}
		return accounts.ApplyTransferDelta(ctx, t.DebitAccountID, -t.Amount)
	})
}
