// Package account provides the account store operations: listing, lookup,
// opening, renaming and closing accounts. Balances are never written here.
package account

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
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

// Service provides account store operations.
type Service struct {
	uow       repository.UnitOfWork
	generator *iban.Generator
	bus       eventbus.Bus
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service. bus may be nil.
func NewService(
	uow repository.UnitOfWork,
	generator *iban.Generator,
	bus eventbus.Bus,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:       uow,
		generator: generator,
		bus:       bus,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListByUser returns the user's accounts in creation order.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, account.Unexpected(err)
	}
	accounts, err := repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListByUser failed: repository error", "user_id", userID, "error", err)
		return nil, account.Unexpected(err)
	}
	return accounts, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, account.Unexpected(err)
	}
	a, err := repo.Get(ctx, id)
	return a, mapError(err)
}

// GetOwned returns the account only when userID owns it.
func (s *Service) GetOwned(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(userID) {
		return nil, account.ErrAccountNotFound
	}
	return a, nil
}

// GetByIBAN returns the account holding the given IBAN. Input is normalized first.
func (s *Service) GetByIBAN(ctx context.Context, raw string) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, account.Unexpected(err)
	}
	a, err := repo.GetByIBAN(ctx, iban.Normalize(raw))
	return a, mapError(err)
}

// Create opens an account for the user. The IBAN is allocated inside the same
// unit of work that stores the account.
func (s *Service) Create(ctx context.Context, cmd commands.CreateAccount) (*account.Account, error) {
	logger := s.logger.With("user_id", cmd.UserID, "kind", cmd.Kind)
	logger.Info("CreateAccount started")

	name, err := account.NormalizeName(cmd.Name, true)
	if err != nil {
		logger.Warn("CreateAccount failed: invalid name", "error", err)
		return nil, err
	}
	kind, err := account.ParseKind(cmd.Kind)
	if err != nil {
		logger.Warn("CreateAccount failed: invalid kind", "error", err)
		return nil, err
	}

	var created *account.Account
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		number, err := s.generator.Generate(ctx, repo)
		if err != nil {
			return err
		}
		created = account.New(cmd.UserID, name, kind, number, s.now())
		return repo.Create(ctx, created)
	})
	if err != nil {
		logger.Error("CreateAccount failed", "error", err)
		return nil, mapError(err)
	}

	logger.Info("CreateAccount successful", "account_id", created.ID, "iban", created.IBAN)
	s.emit(ctx, events.AccountOpened{
		AccountID:  created.ID,
		UserID:     created.UserID,
		IBAN:       created.IBAN,
		Kind:       string(created.Kind),
		OccurredAt: created.CreatedAt,
	})
	return created, nil
}

// Rename changes the display name of an account owned by the user.
func (s *Service) Rename(ctx context.Context, cmd commands.RenameAccount) (*account.Account, error) {
	logger := s.logger.With("user_id", cmd.UserID, "account_id", cmd.AccountID)
	logger.Info("RenameAccount started")

	name, err := account.NormalizeName(cmd.Name, false)
	if err != nil {
		logger.Warn("RenameAccount failed: invalid name", "error", err)
		return nil, err
	}

	renamed, err := s.mutateOwned(ctx, cmd.UserID, cmd.AccountID, func(a *account.Account) bool {
		if a.Name == name {
			return false
		}
		a.Name = name
		return true
	})
	if err != nil {
		logger.Error("RenameAccount failed", "error", err)
		return nil, err
	}

	logger.Info("RenameAccount successful")
	s.emit(ctx, events.AccountRenamed{
		AccountID:  renamed.ID,
		UserID:     renamed.UserID,
		Name:       renamed.Name,
		OccurredAt: renamed.UpdatedAt,
	})
	return renamed, nil
}

// Close deactivates an account owned by the user. Closing a closed account
// returns it unchanged.
func (s *Service) Close(ctx context.Context, cmd commands.CloseAccount) (*account.Account, error) {
	logger := s.logger.With("user_id", cmd.UserID, "account_id", cmd.AccountID)
	logger.Info("CloseAccount started")

	var changed bool
	closed, err := s.mutateOwned(ctx, cmd.UserID, cmd.AccountID, func(a *account.Account) bool {
		changed = a.Active
		a.Active = false
		return changed
	})
	if err != nil {
		logger.Error("CloseAccount failed", "error", err)
		return nil, err
	}

	if !changed {
		logger.Info("CloseAccount successful: already closed")
		return closed, nil
	}
	logger.Info("CloseAccount successful")
	s.emit(ctx, events.AccountClosed{
		AccountID:  closed.ID,
		UserID:     closed.UserID,
		OccurredAt: closed.UpdatedAt,
	})
	return closed, nil
}

// mutateOwned locks the account, checks ownership and persists it when change
// reports a modification.
func (s *Service) mutateOwned(
	ctx context.Context,
	userID, accountID uuid.UUID,
	change func(a *account.Account) bool,
) (*account.Account, error) {
	var out *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		locked, err := repo.LockForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if len(locked) == 0 || !locked[0].OwnedBy(userID) {
			return account.ErrAccountNotFound
		}
		a := locked[0]
		if change(a) {
			a.UpdatedAt = s.now()
			if err := repo.Update(ctx, a); err != nil {
				return err
			}
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Warn("event emit failed", "type", evt.Type(), "error", err)
	}
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return account.ErrAccountNotFound
	case errors.Is(err, iban.ErrAllocationFailed):
		return err
	default:
		return account.Unexpected(err)
	}
}
