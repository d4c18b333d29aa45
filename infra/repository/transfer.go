package repository

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transferRepository struct {
	db *gorm.DB
}

// NewTransferRepository creates a new TransferRepository over db.
func NewTransferRepository(db *gorm.DB) repository.TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(ctx context.Context, t *account.Transfer) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(toTransferModel(t)).Error
	})
}

func (r *transferRepository) Get(ctx context.Context, id uuid.UUID) (*account.Transfer, error) {
	var m Transfer
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return m.toDomain(), nil
}

func (r *transferRepository) ListTouching(ctx context.Context, accountIDs []uuid.UUID) ([]*account.Transfer, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	var ms []Transfer
	err := r.db.WithContext(ctx).
		Where("source_account_id IN ? OR destination_account_id IN ?", accountIDs, accountIDs).
		Order("created_at DESC, id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Transfer, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].toDomain())
	}
	return out, nil
}
