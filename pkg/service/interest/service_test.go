package interest_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/internal/fixtures/mocks"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/amirasaad/ledger/pkg/provider"
	"github.com/amirasaad/ledger/pkg/service/interest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 8, 1, 0, 5, 0, 0, time.UTC)

func rate(r float64) provider.InterestRateProvider {
	return provider.InterestRateFunc(func(context.Context) (float64, error) { return r, nil })
}

func seed(t *testing.T, store *memory.Store, n uint64, kind account.Kind, balance int64, active bool) *account.Account {
	t.Helper()
	number, err := iban.DefaultConfig().Build(n)
	require.NoError(t, err)
	a := account.New(uuid.New(), "Savings", kind, number, fixedNow.Add(time.Duration(n)*time.Second))
	a.Balance = balance
	a.Active = active
	repo, err := store.UoW().AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func balance(t *testing.T, store *memory.Store, id uuid.UUID) int64 {
	t.Helper()
	repo, err := store.UoW().AccountRepository()
	require.NoError(t, err)
	a, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return a.Balance
}

func TestDaily(t *testing.T) {
	tests := []struct {
		balance int64
		rate    float64
		want    int64
	}{
		{balance: 100000, rate: 0.02, want: 5},
		{balance: 18250, rate: 0.02, want: 1},
		{balance: 18249, rate: 0.02, want: 0},
		{balance: 36500000, rate: 0.035, want: 3500},
		{balance: 0, rate: 0.02, want: 0},
		{balance: -100, rate: 0.02, want: 0},
		{balance: 100000, rate: 0, want: 0},
		{balance: 100000, rate: math.NaN(), want: 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, interest.Daily(tc.balance, tc.rate), "balance=%d rate=%v", tc.balance, tc.rate)
	}
}

func TestRun_CreditsEligibleSavings(t *testing.T) {
	store := memory.New()
	rich := seed(t, store, 1, account.KindSavings, 100000, true)
	tiny := seed(t, store, 2, account.KindSavings, 100, true)
	empty := seed(t, store, 3, account.KindSavings, 0, true)
	closed := seed(t, store, 4, account.KindSavings, 100000, false)
	current := seed(t, store, 5, account.KindCurrent, 100000, true)

	bus := mocks.NewMockBus(t)
	bus.On("Emit", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		credited, ok := e.(events.InterestCredited)
		return ok && credited.AccountID == rich.ID && credited.Amount == 5
	})).Return(nil).Once()

	svc := interest.NewService(store.UoW(), rate(0.02), bus, nil,
		interest.WithClock(func() time.Time { return fixedNow }))

	got, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []interest.Accrual{{AccountID: rich.ID, Amount: 5}}, got)

	assert.Equal(t, int64(100005), balance(t, store, rich.ID))
	for _, a := range []*account.Account{tiny, empty, closed, current} {
		assert.Equal(t, a.Balance, balance(t, store, a.ID))
	}

	ops, err := store.UoW().OperationRepository()
	require.NoError(t, err)
	list, err := ops.ListByAccount(context.Background(), rich.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, account.Credit, list[0].Kind)
	assert.Nil(t, list[0].TransferID)
	assert.Equal(t, account.NoteDailyInterest, list[0].Note)
	assert.Equal(t, fixedNow, list[0].CreatedAt)
}

func TestRun_TwiceDoubleCredits(t *testing.T) {
	store := memory.New()
	a := seed(t, store, 1, account.KindSavings, 100000, true)
	svc := interest.NewService(store.UoW(), rate(0.02), nil, nil)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	_, err = svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(100010), balance(t, store, a.ID))
}

func TestRun_InvalidRateDoesNothing(t *testing.T) {
	for name, r := range map[string]float64{
		"zero":     0,
		"negative": -0.01,
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			store := memory.New()
			a := seed(t, store, 1, account.KindSavings, 100000, true)
			rates := mocks.NewMockInterestRateProvider(t)
			rates.On("AnnualRate", mock.Anything).Return(r, nil).Once()

			got, err := interest.NewService(store.UoW(), rates, nil, nil).Run(context.Background())
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.Equal(t, int64(100000), balance(t, store, a.ID))
		})
	}
}

func TestRun_ProviderErrorDoesNothing(t *testing.T) {
	store := memory.New()
	a := seed(t, store, 1, account.KindSavings, 100000, true)
	rates := mocks.NewMockInterestRateProvider(t)
	rates.On("AnnualRate", mock.Anything).Return(0.0, errors.New("rate service down")).Once()

	got, err := interest.NewService(store.UoW(), rates, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int64(100000), balance(t, store, a.ID))
}

func TestRun_CreationOrder(t *testing.T) {
	store := memory.New()
	second := seed(t, store, 20, account.KindSavings, 365000, true)
	first := seed(t, store, 10, account.KindSavings, 730000, true)

	got, err := interest.NewService(store.UoW(), rate(0.01), nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].AccountID)
	assert.Equal(t, int64(20), got[0].Amount)
	assert.Equal(t, second.ID, got[1].AccountID)
	assert.Equal(t, int64(10), got[1].Amount)
}
