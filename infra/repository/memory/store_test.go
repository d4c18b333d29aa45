package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, uow repository.UnitOfWork, userID uuid.UUID, iban string, balance int64) *account.Account {
	t.Helper()
	a := account.New(userID, "Main", account.KindCurrent, iban, time.Now())
	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), a))
	if balance > 0 {
		require.NoError(t, repo.AdjustBalance(context.Background(), a.ID, balance, time.Now()))
		a.Balance = balance
	}
	return a
}

func TestUoW_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	uow := memory.New().UoW()
	a := seed(t, uow, uuid.New(), "FR7630006000011234567890189", 1000)

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		repo, _ := tx.AccountRepository()
		return repo.AdjustBalance(ctx, a.ID, -400, time.Now())
	})
	require.NoError(t, err)

	repo, _ := uow.AccountRepository()
	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), got.Balance)
}

func TestUoW_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	uow := memory.New().UoW()
	a := seed(t, uow, uuid.New(), "FR7630006000011234567890189", 1000)
	boom := errors.New("boom")

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		repo, _ := tx.AccountRepository()
		require.NoError(t, repo.AdjustBalance(ctx, a.ID, -400, time.Now()))
		ops, _ := tx.OperationRepository()
		require.NoError(t, ops.Append(ctx, &account.Operation{ID: uuid.New(), AccountID: a.ID, Kind: account.Debit, Amount: 400}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	repo, _ := uow.AccountRepository()
	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Balance)
	ops, _ := uow.OperationRepository()
	listed, err := ops.ListByAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUoW_NestedDoJoinsOuterTransaction(t *testing.T) {
	ctx := context.Background()
	uow := memory.New().UoW()
	a := seed(t, uow, uuid.New(), "FR7630006000011234567890189", 1000)

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		require.NoError(t, tx.Do(ctx, func(inner repository.UnitOfWork) error {
			repo, _ := inner.AccountRepository()
			return repo.AdjustBalance(ctx, a.ID, -1000, time.Now())
		}))
		return errors.New("abort")
	})
	require.Error(t, err)

	repo, _ := uow.AccountRepository()
	got, _ := repo.Get(ctx, a.ID)
	assert.Equal(t, int64(1000), got.Balance)
}

func TestAccountRepository_AdjustBalanceGuard(t *testing.T) {
	ctx := context.Background()
	uow := memory.New().UoW()
	a := seed(t, uow, uuid.New(), "FR7630006000011234567890189", 100)
	repo, _ := uow.AccountRepository()

	require.ErrorIs(t, repo.AdjustBalance(ctx, a.ID, -101, time.Now()), account.ErrInsufficientFunds)
	require.NoError(t, repo.AdjustBalance(ctx, a.ID, -100, time.Now()))
	require.ErrorIs(t, repo.AdjustBalance(ctx, uuid.New(), 1, time.Now()), domain.ErrNotFound)
}

func TestAccountRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	uow := memory.New().UoW()
	userID := uuid.New()
	first := seed(t, uow, userID, "FR7630006000011234567890189", 0)
	second := seed(t, uow, userID, "FR5530006000010000000000055", 0)
	seed(t, uow, uuid.New(), "FR7630006000019999999999943", 0)
	repo, _ := uow.AccountRepository()

	byIBAN, err := repo.GetByIBAN(ctx, second.IBAN)
	require.NoError(t, err)
	assert.Equal(t, second.ID, byIBAN.ID)

	_, err = repo.GetByIBAN(ctx, "FR0000000000000000000000000")
	require.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := repo.ExistsIBAN(ctx, first.IBAN)
	require.NoError(t, err)
	assert.True(t, exists)

	listed, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)

	dup := account.New(userID, "Dup", account.KindCurrent, first.IBAN, time.Now())
	require.ErrorIs(t, repo.Create(ctx, dup), domain.ErrAlreadyExists)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	uow := memory.New().UoW()
	a := seed(t, uow, uuid.New(), "FR7630006000011234567890189", 500)
	repo, _ := uow.AccountRepository()

	got, _ := repo.Get(ctx, a.ID)
	got.Balance = 0
	again, _ := repo.Get(ctx, a.ID)
	assert.Equal(t, int64(500), again.Balance)
}

func TestTransferRepository_ListTouchingNewestFirst(t *testing.T) {
	ctx := context.Background()
	uow := memory.New().UoW()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	repo, _ := uow.TransferRepository()
	base := time.Now()

	t1 := &account.Transfer{ID: uuid.New(), SourceAccountID: a, DestinationAccountID: b, Amount: 1, CreatedAt: base}
	t2 := &account.Transfer{ID: uuid.New(), SourceAccountID: c, DestinationAccountID: a, Amount: 2, CreatedAt: base.Add(time.Second)}
	t3 := &account.Transfer{ID: uuid.New(), SourceAccountID: b, DestinationAccountID: c, Amount: 3, CreatedAt: base.Add(2 * time.Second)}
	for _, tr := range []*account.Transfer{t1, t2, t3} {
		require.NoError(t, repo.Create(ctx, tr))
	}

	got, err := repo.ListTouching(ctx, []uuid.UUID{a})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, t2.ID, got[0].ID)
	assert.Equal(t, t1.ID, got[1].ID)
}

func TestUoW_SerializesConcurrentTransactions(t *testing.T) {
	ctx := context.Background()
	uow := memory.New().UoW()
	a := seed(t, uow, uuid.New(), "FR7630006000011234567890189", 0)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = uow.Do(ctx, func(tx repository.UnitOfWork) error {
				repo, _ := tx.AccountRepository()
				return repo.AdjustBalance(ctx, a.ID, 10, time.Now())
			})
		}()
	}
	wg.Wait()

	repo, _ := uow.AccountRepository()
	got, _ := repo.Get(ctx, a.ID)
	assert.Equal(t, int64(500), got.Balance)
}
