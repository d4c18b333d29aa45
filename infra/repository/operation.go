package repository

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type operationRepository struct {
	db *gorm.DB
}

// NewOperationRepository creates a new OperationRepository over db.
func NewOperationRepository(db *gorm.DB) repository.OperationRepository {
	return &operationRepository{db: db}
}

func (r *operationRepository) Append(ctx context.Context, op *account.Operation) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(toOperationModel(op)).Error
	})
}

func (r *operationRepository) list(ctx context.Context, query string, arg any) ([]*account.Operation, error) {
	var ms []LedgerOperation
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at ASC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Operation, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].toDomain())
	}
	return out, nil
}

func (r *operationRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Operation, error) {
	return r.list(ctx, "account_id = ?", accountID)
}

func (r *operationRepository) ListByTransfer(ctx context.Context, transferID uuid.UUID) ([]*account.Operation, error) {
	return r.list(ctx, "transfer_id = ?", transferID)
}
