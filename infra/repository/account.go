package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository over db.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return m.toDomain(), nil
}

func (r *accountRepository) GetByIBAN(ctx context.Context, iban string) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).Where("iban = ?", iban).First(&m).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return m.toDomain(), nil
}

func (r *accountRepository) ExistsIBAN(ctx context.Context, iban string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Account{}).Where("iban = ?", iban).Count(&n).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *accountRepository) find(ctx context.Context, query *gorm.DB) ([]*account.Account, error) {
	var ms []Account
	if err := query.WithContext(ctx).Order("created_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Account, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].toDomain())
	}
	return out, nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.find(ctx, r.db.Where("user_id = ?", userID))
}

func (r *accountRepository) ListActiveSavings(ctx context.Context) ([]*account.Account, error) {
	return r.find(ctx, r.db.Where("kind = ? AND active = ?", string(account.KindSavings), true))
}

func (r *accountRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*account.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, r.db.Where("id IN ?", ids))
}

// LockForUpdate issues SELECT ... FOR UPDATE ordered by id so that concurrent
// callers always acquire row locks in the same order.
func (r *accountRepository) LockForUpdate(ctx context.Context, ids ...uuid.UUID) ([]*account.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ms []Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Account, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].toDomain())
	}
	return out, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(toAccountModel(a)).Error
	})
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"name":       a.Name,
			"active":     a.Active,
			"updated_at": a.UpdatedAt,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustBalance applies delta with one guarded UPDATE. When no row matches it
// tells a missing account apart from a balance that would go negative.
func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": at,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return account.ErrInsufficientFunds
}
