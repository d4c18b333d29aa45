package memory

import (
	"context"
	"slices"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
)

type transferRepository struct {
	uow *UoW
}

func (r *transferRepository) Create(_ context.Context, t *account.Transfer) error {
	return r.uow.with(func(s *state) error {
		for _, existing := range s.transfers {
			if existing.ID == t.ID {
				return domain.ErrAlreadyExists
			}
		}
		cp := *t
		s.transfers = append(s.transfers, &cp)
		return nil
	})
}

func (r *transferRepository) Get(_ context.Context, id uuid.UUID) (out *account.Transfer, err error) {
	err = r.uow.with(func(s *state) error {
		for _, t := range s.transfers {
			if t.ID == id {
				cp := *t
				out = &cp
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return
}

func (r *transferRepository) ListTouching(_ context.Context, accountIDs []uuid.UUID) (out []*account.Transfer, err error) {
	err = r.uow.with(func(s *state) error {
		// Newest first; ties keep reverse insertion order.
		for i := len(s.transfers) - 1; i >= 0; i-- {
			t := s.transfers[i]
			if slices.Contains(accountIDs, t.SourceAccountID) || slices.Contains(accountIDs, t.DestinationAccountID) {
				cp := *t
				out = append(out, &cp)
			}
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b *account.Transfer) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return
}

type operationRepository struct {
	uow *UoW
}

func (r *operationRepository) Append(_ context.Context, op *account.Operation) error {
	return r.uow.with(func(s *state) error {
		cp := *op
		s.operations = append(s.operations, &cp)
		return nil
	})
}

func (r *operationRepository) filter(match func(*account.Operation) bool) (out []*account.Operation, err error) {
	err = r.uow.with(func(s *state) error {
		for _, op := range s.operations {
			if match(op) {
				cp := *op
				out = append(out, &cp)
			}
		}
		return nil
	})
	return
}

func (r *operationRepository) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*account.Operation, error) {
	return r.filter(func(op *account.Operation) bool { return op.AccountID == accountID })
}

func (r *operationRepository) ListByTransfer(_ context.Context, transferID uuid.UUID) ([]*account.Operation, error) {
	return r.filter(func(op *account.Operation) bool { return op.TransferID != nil && *op.TransferID == transferID })
}
