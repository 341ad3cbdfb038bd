// Package repository provides the GORM-backed unit of work binding the
// account, transfer, and user repositories to one transaction.
package repository

import (
	"context"
	"fmt"
	"reflect"

	infraaccount "github.com/ximedes/conto/infra/repository/account"
	infratransfer "github.com/ximedes/conto/infra/repository/transfer"
	infrauser "github.com/ximedes/conto/infra/repository/user"
	"github.com/ximedes/conto/pkg/repository"
	"gorm.io/gorm"
)

// UoW wraps gorm's Transaction so every repository resolved inside Do shares
// the transaction session. Failures roll the whole unit back.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():  func(db *gorm.DB) any { return infraaccount.New(db) },
			reflect.TypeOf((*repository.TransferRepository)(nil)).Elem(): func(db *gorm.DB) any { return infratransfer.New(db) },
			reflect.TypeOf((*repository.UserRepository)(nil)).Elem():     func(db *gorm.DB) any { return infrauser.New(db) },
		},
	}
}

// Do runs fn in a transaction boundary, providing a UoW bound to it.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository returns a repository of the requested interface type bound to
// the current transaction session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

// AccountRepository returns the account store bound to the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.AccountRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.AccountRepository), nil
}

// TransferRepository returns the ledger bound to the current session.
func (u *UoW) TransferRepository() (repository.TransferRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.TransferRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.TransferRepository), nil
}

// UserRepository returns the user store bound to the current session.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.UserRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.UserRepository), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

var _ repository.UnitOfWork = (*UoW)(nil)
