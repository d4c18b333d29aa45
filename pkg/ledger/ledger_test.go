package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *memory.Store, balance int64) *account.Account {
	t.Helper()
	a := account.New(uuid.New(), "Main", account.KindCurrent, "FR76"+uuid.NewString()[:8], fixedNow)
	a.Balance = balance
	repo, err := store.UoW().AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func balanceOf(t *testing.T, store *memory.Store, id uuid.UUID) int64 {
	t.Helper()
	repo, err := store.UoW().AccountRepository()
	require.NoError(t, err)
	a, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return a.Balance
}

func TestPost_TransferEntries(t *testing.T) {
	store := memory.New()
	src := seed(t, store, 10000)
	dst := seed(t, store, 0)
	w := ledger.NewWriter(func() time.Time { return fixedNow })

	tr, err := account.NewTransfer(src.ID, dst.ID, 2500, "rent", fixedNow)
	require.NoError(t, err)

	var posted []*account.Operation
	err = store.UoW().Do(context.Background(), func(uow repository.UnitOfWork) error {
		var err error
		posted, err = w.Post(context.Background(), uow, ledger.DebitOf(tr), ledger.CreditOf(tr))
		return err
	})
	require.NoError(t, err)
	require.Len(t, posted, 2)

	assert.Equal(t, account.Debit, posted[0].Kind)
	assert.Equal(t, src.ID, posted[0].AccountID)
	assert.Equal(t, account.Credit, posted[1].Kind)
	assert.Equal(t, dst.ID, posted[1].AccountID)
	for _, op := range posted {
		require.NotNil(t, op.TransferID)
		assert.Equal(t, tr.ID, *op.TransferID)
		assert.Equal(t, fixedNow, op.CreatedAt)
	}

	assert.Equal(t, int64(7500), balanceOf(t, store, src.ID))
	assert.Equal(t, int64(2500), balanceOf(t, store, dst.ID))

	ops, err := store.UoW().OperationRepository()
	require.NoError(t, err)
	byTransfer, err := ops.ListByTransfer(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Len(t, byTransfer, 2)
}

func TestPost_InsufficientFundsRollsBack(t *testing.T) {
	store := memory.New()
	src := seed(t, store, 100)
	dst := seed(t, store, 0)
	w := ledger.NewWriter(nil)

	tr, err := account.NewTransfer(src.ID, dst.ID, 101, "", fixedNow)
	require.NoError(t, err)

	err = store.UoW().Do(context.Background(), func(uow repository.UnitOfWork) error {
		_, err := w.Post(context.Background(), uow, ledger.CreditOf(tr), ledger.DebitOf(tr))
		return err
	})
	require.ErrorIs(t, err, account.ErrInsufficientFunds)

	assert.Equal(t, int64(100), balanceOf(t, store, src.ID))
	assert.Equal(t, int64(0), balanceOf(t, store, dst.ID))
	ops, err := store.UoW().OperationRepository()
	require.NoError(t, err)
	list, err := ops.ListByAccount(context.Background(), dst.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPost_RejectsBadEntries(t *testing.T) {
	store := memory.New()
	a := seed(t, store, 0)
	w := ledger.NewWriter(nil)

	tests := []struct {
		name    string
		entries []ledger.Entry
		wantErr error
	}{
		{name: "no entries", wantErr: ledger.ErrEmptyPosting},
		{
			name:    "zero amount",
			entries: []ledger.Entry{{AccountID: a.ID, Kind: account.Credit}},
			wantErr: account.ErrInvalidAmount,
		},
		{
			name:    "unknown kind",
			entries: []ledger.Entry{{AccountID: a.ID, Kind: "REFUND", Amount: 1}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := store.UoW().Do(context.Background(), func(uow repository.UnitOfWork) error {
				_, err := w.Post(context.Background(), uow, tc.entries...)
				return err
			})
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
			}
		})
	}
	assert.Equal(t, int64(0), balanceOf(t, store, a.ID))
}

func TestPost_InterestCreditHasNoTransfer(t *testing.T) {
	store := memory.New()
	a := seed(t, store, 100000)
	w := ledger.NewWriter(nil)

	err := store.UoW().Do(context.Background(), func(uow repository.UnitOfWork) error {
		ops, err := w.Post(context.Background(), uow, ledger.Entry{
			AccountID: a.ID,
			Kind:      account.Credit,
			Amount:    5,
			Note:      account.NoteDailyInterest,
		})
		if err == nil {
			assert.Nil(t, ops[0].TransferID)
		}
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100005), balanceOf(t, store, a.ID))
}
