package repository

import (
	"context"
	"reflect"
)

// UnitOfWork is the transaction boundary plus repository access in one
// abstraction. Every repository resolved from a UnitOfWork inside Do shares
// the same DB session, so the mutations of a transfer commit or roll back as
// one unit.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back and the error is returned unchanged.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction session.
	GetRepository(repoType reflect.Type) (any, error)

	// Typed convenience accessors.
	AccountRepository() (AccountRepository, error)
	TransferRepository() (TransferRepository, error)
	UserRepository() (UserRepository, error)
}
