package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
)

// AccountRepository defines the interface for account data access operations.
// Lookups of a missing row return domain.ErrNotFound.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByIBAN(ctx context.Context, iban string) (*account.Account, error)
	ExistsIBAN(ctx context.Context, iban string) (bool, error)

	// ListByUser returns the user's accounts in creation order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	// ListActiveSavings returns every active SAVINGS account in creation order.
	ListActiveSavings(ctx context.Context) ([]*account.Account, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*account.Account, error)

	// LockForUpdate reads the given rows and holds an exclusive lock on them until the
	// surrounding unit of work ends. Rows are locked in ascending id order.
	LockForUpdate(ctx context.Context, ids ...uuid.UUID) ([]*account.Account, error)

	Create(ctx context.Context, a *account.Account) error
	// Update persists name and active state. Balance is never written here.
	Update(ctx context.Context, a *account.Account) error

	// AdjustBalance adds delta to the balance in a single guarded statement.
	// It fails with account.ErrInsufficientFunds when the result would be negative.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta int64, at time.Time) error
}

// TransferRepository defines the interface for transfer data access operations.
type TransferRepository interface {
	Create(ctx context.Context, t *account.Transfer) error
	Get(ctx context.Context, id uuid.UUID) (*account.Transfer, error)
	// ListTouching returns transfers whose source or destination is in accountIDs, newest first.
	ListTouching(ctx context.Context, accountIDs []uuid.UUID) ([]*account.Transfer, error)
}

// OperationRepository defines the interface for ledger operation data access.
type OperationRepository interface {
	Append(ctx context.Context, op *account.Operation) error
	// ListByAccount returns an account's operations, oldest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Operation, error)
	ListByTransfer(ctx context.Context, transferID uuid.UUID) ([]*account.Operation, error)
}
