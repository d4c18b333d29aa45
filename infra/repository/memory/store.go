// Package memory is an in-process store implementing the repository contracts.
// Units of work serialize on one mutex and run against a staged copy of the
// state that replaces the committed state only when the work succeeds.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

type state struct {
	accounts   map[uuid.UUID]*account.Account
	ibans      map[string]uuid.UUID
	transfers  []*account.Transfer
	operations []*account.Operation
}

func newState() *state {
	return &state{
		accounts: make(map[uuid.UUID]*account.Account),
		ibans:    make(map[string]uuid.UUID),
	}
}

// clone copies mutable accounts; transfers and operations are append-only and shared.
func (s *state) clone() *state {
	c := &state{
		accounts:   make(map[uuid.UUID]*account.Account, len(s.accounts)),
		ibans:      maps.Clone(s.ibans),
		transfers:  append([]*account.Transfer(nil), s.transfers...),
		operations: append([]*account.Operation(nil), s.operations...),
	}
	for id, a := range s.accounts {
		cp := *a
		c.accounts[id] = &cp
	}
	return c
}

// Store holds the committed state.
type Store struct {
	mu        sync.Mutex
	committed *state
}

// New returns an empty Store.
func New() *Store {
	return &Store{committed: newState()}
}

// UoW returns a UnitOfWork over the store.
func (s *Store) UoW() *UoW {
	return &UoW{store: s}
}

// UoW implements repository.UnitOfWork. A UoW with a staged state is inside a transaction.
type UoW struct {
	store  *Store
	staged *state
}

// Do runs fn against a staged copy and commits it when fn returns nil.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.staged != nil {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	tx := &UoW{store: u.store, staged: u.store.committed.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.committed = tx.staged
	return nil
}

// with runs fn on the staged state inside a transaction, or under the store lock otherwise.
func (u *UoW) with(fn func(s *state) error) error {
	if u.staged != nil {
		return fn(u.staged)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(u.store.committed)
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{uow: u}, nil
}

func (u *UoW) TransferRepository() (repository.TransferRepository, error) {
	return &transferRepository{uow: u}, nil
}

func (u *UoW) OperationRepository() (repository.OperationRepository, error) {
	return &operationRepository{uow: u}, nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
