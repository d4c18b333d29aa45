// Package transfer executes transfers between accounts and answers history queries.
package transfer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/commands"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a committed transfer.
type Result struct {
	TransferID  uuid.UUID
	Transfer    *account.Transfer
	Source      *account.Account
	Destination *account.Account
}

// Service is the transfer engine.
type Service struct {
	uow    repository.UnitOfWork
	writer *ledger.Writer
	bus    eventbus.Bus
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used for transfer and operation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new transfer Service. bus may be nil.
func NewService(uow repository.UnitOfWork, bus eventbus.Bus, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:    uow,
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

// Execute moves cmd.Amount from the source account to the destination IBAN.
//
// Checks run in order and the first failure wins: source missing or not owned,
// destination missing, same account, either side inactive, insufficient funds.
// The checks are repeated on locked rows inside the unit of work, so a concurrent
// debit cannot overdraw the source. Storage failures roll back and are reported
// as account.ErrUnexpected.
func (s *Service) Execute(ctx context.Context, cmd commands.Transfer) (*Result, error) {
	logger := s.logger.With(
		"user_id", cmd.UserID,
		"source_account_id", cmd.SourceAccountID,
		"destination_iban", cmd.DestinationIBAN,
	)
	logger.Info("Transfer started")

	amount, err := money.Parse(cmd.Amount)
	if err != nil {
		logger.Warn("Transfer failed: invalid amount", "amount", cmd.Amount, "error", err)
		return nil, account.ErrInvalidAmount
	}

	source, destination, err := s.resolve(ctx, cmd.SourceAccountID, cmd.DestinationIBAN)
	if err != nil {
		logger.Error("Transfer failed: resolve accounts", "error", err)
		return nil, account.Unexpected(err)
	}
	if err := account.ValidateTransfer(cmd.UserID, source, destination, amount); err != nil {
		logger.Warn("Transfer failed: validation", "error", err)
		return nil, err
	}

	result := &Result{}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		transfers, err := uow.TransferRepository()
		if err != nil {
			return err
		}

		locked, err := accounts.LockForUpdate(ctx, source.ID, destination.ID)
		if err != nil {
			return err
		}
		src, dst := pick(locked, source.ID), pick(locked, destination.ID)
		if err := account.ValidateTransfer(cmd.UserID, src, dst, amount); err != nil {
			return err
		}

		t, err := account.NewTransfer(src.ID, dst.ID, amount, cmd.Note, s.now())
		if err != nil {
			return err
		}
		if err := transfers.Create(ctx, t); err != nil {
			return err
		}
		if _, err := s.writer.Post(ctx, uow, ledger.DebitOf(t), ledger.CreditOf(t)); err != nil {
			return err
		}

		refreshed, err := accounts.ListByIDs(ctx, []uuid.UUID{src.ID, dst.ID})
		if err != nil {
			return err
		}
		result.TransferID = t.ID
		result.Transfer = t
		result.Source = pick(refreshed, src.ID)
		result.Destination = pick(refreshed, dst.ID)
		return nil
	})
	if err != nil {
		if account.IsKnown(err) {
			logger.Warn("Transfer failed: rejected", "error", err)
			return nil, err
		}
		logger.Error("Transfer failed: rolled back", "error", err)
		return nil, account.Unexpected(err)
	}

	logger.Info("Transfer successful", "transfer_id", result.TransferID, "amount", money.Format(amount))
	s.emit(ctx, events.TransferCompleted{
		TransferID:           result.TransferID,
		UserID:               cmd.UserID,
		SourceAccountID:      result.Transfer.SourceAccountID,
		DestinationAccountID: result.Transfer.DestinationAccountID,
		Amount:               amount,
		OccurredAt:           result.Transfer.CreatedAt,
	})
	return result, nil
}

// resolve looks up the source by id and the destination by IBAN concurrently.
// A missing account yields nil rather than an error.
func (s *Service) resolve(
	ctx context.Context,
	sourceID uuid.UUID,
	destinationIBAN string,
) (source, destination *account.Account, err error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := repo.Get(gctx, sourceID)
		source, err = a, ignoreNotFound(err)
		return err
	})
	g.Go(func() error {
		a, err := repo.GetByIBAN(gctx, iban.Normalize(destinationIBAN))
		destination, err = a, ignoreNotFound(err)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return source, destination, nil
}

func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Warn("event emit failed", "type", evt.Type(), "error", err)
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func pick(accounts []*account.Account, id uuid.UUID) *account.Account {
	for _, a := range accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}
