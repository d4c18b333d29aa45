package memory

import (
	"context"
	"slices"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/google/uuid"
)

type accountRepository struct {
	uow *UoW
}

func copyAccount(a *account.Account) *account.Account {
	cp := *a
	return &cp
}

func (r *accountRepository) Get(_ context.Context, id uuid.UUID) (out *account.Account, err error) {
	err = r.uow.with(func(s *state) error {
		a, ok := s.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyAccount(a)
		return nil
	})
	return
}

func (r *accountRepository) GetByIBAN(_ context.Context, iban string) (out *account.Account, err error) {
	err = r.uow.with(func(s *state) error {
		id, ok := s.ibans[iban]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyAccount(s.accounts[id])
		return nil
	})
	return
}

func (r *accountRepository) ExistsIBAN(_ context.Context, iban string) (exists bool, err error) {
	err = r.uow.with(func(s *state) error {
		_, exists = s.ibans[iban]
		return nil
	})
	return
}

func (r *accountRepository) list(match func(*account.Account) bool) (out []*account.Account, err error) {
	err = r.uow.with(func(s *state) error {
		for _, a := range s.accounts {
			if match(a) {
				out = append(out, copyAccount(a))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *account.Account) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return
}

func (r *accountRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.list(func(a *account.Account) bool { return a.UserID == userID })
}

func (r *accountRepository) ListActiveSavings(_ context.Context) ([]*account.Account, error) {
	return r.list(func(a *account.Account) bool { return a.IsInterestBearing() })
}

func (r *accountRepository) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*account.Account, error) {
	return r.list(func(a *account.Account) bool { return slices.Contains(ids, a.ID) })
}

// LockForUpdate is a plain read: a transaction already holds the store lock.
func (r *accountRepository) LockForUpdate(ctx context.Context, ids ...uuid.UUID) ([]*account.Account, error) {
	out, err := r.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b *account.Account) int { return slices.Compare(a.ID[:], b.ID[:]) })
	return out, nil
}

func (r *accountRepository) Create(_ context.Context, a *account.Account) error {
	return r.uow.with(func(s *state) error {
		if _, ok := s.accounts[a.ID]; ok {
			return domain.ErrAlreadyExists
		}
		if _, ok := s.ibans[a.IBAN]; ok {
			return domain.ErrAlreadyExists
		}
		s.accounts[a.ID] = copyAccount(a)
		s.ibans[a.IBAN] = a.ID
		return nil
	})
}

func (r *accountRepository) Update(_ context.Context, a *account.Account) error {
	return r.uow.with(func(s *state) error {
		stored, ok := s.accounts[a.ID]
		if !ok {
			return domain.ErrNotFound
		}
		stored.Name = a.Name
		stored.Active = a.Active
		stored.UpdatedAt = a.UpdatedAt
		return nil
	})
}

func (r *accountRepository) AdjustBalance(_ context.Context, id uuid.UUID, delta int64, at time.Time) error {
	return r.uow.with(func(s *state) error {
		stored, ok := s.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		next := stored.Balance + delta
		if delta > 0 && next < stored.Balance {
			return money.ErrAmountOverflow
		}
		if next < 0 {
			return account.ErrInsufficientFunds
		}
		stored.Balance = next
		stored.UpdatedAt = at
		return nil
	})
}
