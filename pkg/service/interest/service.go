// Package interest runs the daily interest accrual over savings accounts.
package interest

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/provider"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DaysPerYear is the day-count basis of the daily rate.
const DaysPerYear = 365

// Accrual is one credited account.
type Accrual struct {
	AccountID uuid.UUID
	Amount    int64
}

// Service credits daily interest to active savings accounts.
//
// Run is not guarded against repeated invocation: running it twice in the same
// period credits interest twice. The scheduler calling it owns that guarantee.
type Service struct {
	uow    repository.UnitOfWork
	rates  provider.InterestRateProvider
	bus    eventbus.Bus
	logger *slog.Logger
	now    func() time.Time
	writer *ledger.Writer
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used for operation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new interest Service. bus may be nil.
func NewService(
	uow repository.UnitOfWork,
	rates provider.InterestRateProvider,
	bus eventbus.Bus,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:    uow,
		rates:  rates,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = ledger.NewWriter(s.now)
	return s
}

// Daily returns floor(balance * annualRate / 365) in minor units.
func Daily(balance int64, annualRate float64) int64 {
	if balance <= 0 || !validRate(annualRate) {
		return 0
	}
	return decimal.NewFromInt(balance).
		Mul(decimal.NewFromFloat(annualRate)).
		Div(decimal.NewFromInt(DaysPerYear)).
		Floor().
		IntPart()
}

// Run credits one day of interest to every active savings account and returns
// the accounts actually credited. A missing or invalid rate means no work.
// Each account is credited in its own unit of work; a storage failure stops
// the run and returns the accruals committed so far with the error.
func (s *Service) Run(ctx context.Context) ([]Accrual, error) {
	logger := s.logger.With("job", "interest-accrual")
	logger.Info("InterestAccrual started")

	rate, err := s.rates.AnnualRate(ctx)
	if err != nil {
		logger.Warn("InterestAccrual skipped: rate unavailable", "error", err)
		return []Accrual{}, nil
	}
	if !validRate(rate) {
		logger.Warn("InterestAccrual skipped: invalid rate", "rate", rate)
		return []Accrual{}, nil
	}

	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, account.Unexpected(err)
	}
	candidates, err := repo.ListActiveSavings(ctx)
	if err != nil {
		logger.Error("InterestAccrual failed: list savings", "error", err)
		return nil, account.Unexpected(err)
	}

	credited := make([]Accrual, 0, len(candidates))
	for _, candidate := range candidates {
		accrual, ok, err := s.accrue(ctx, candidate.ID, rate)
		if err != nil {
			logger.Error("InterestAccrual failed", "account_id", candidate.ID, "error", err)
			return credited, account.Unexpected(err)
		}
		if !ok {
			continue
		}
		credited = append(credited, accrual)
		s.emit(ctx, events.InterestCredited{
			AccountID:  accrual.AccountID,
			Amount:     accrual.Amount,
			AnnualRate: rate,
			OccurredAt: s.now(),
		})
	}

	logger.Info("InterestAccrual successful", "rate", rate, "scanned", len(candidates), "credited", len(credited))
	return credited, nil
}

// accrue re-reads the account under lock so a concurrent close or debit is respected.
func (s *Service) accrue(ctx context.Context, id uuid.UUID, rate float64) (Accrual, bool, error) {
	var out Accrual
	var ok bool
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		locked, err := repo.LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if len(locked) == 0 || !locked[0].IsInterestBearing() {
			return nil
		}
		amount := Daily(locked[0].Balance, rate)
		if amount <= 0 {
			return nil
		}
		if _, err := s.writer.Post(ctx, uow, ledger.Entry{
			AccountID: id,
			Kind:      account.Credit,
			Amount:    amount,
			Note:      account.NoteDailyInterest,
		}); err != nil {
			return err
		}
		out, ok = Accrual{AccountID: id, Amount: amount}, true
		return nil
	})
	if err != nil {
		return Accrual{}, false, err
	}
	return out, ok, nil
}

func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Warn("event emit failed", "type", evt.Type(), "error", err)
	}
}

func validRate(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate > 0
}
