// Package ledger is the single write path for account balances. Every balance
// change it applies is explained by exactly one appended operation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

// ErrEmptyPosting is returned when Post is called without entries.
var ErrEmptyPosting = errors.New("ledger: no entries to post")

// Entry is one side of a posting.
type Entry struct {
	AccountID  uuid.UUID
	Kind       account.OperationKind
	Amount     int64
	TransferID *uuid.UUID
	Note       string
}

// DebitOf and CreditOf build the two sides of a transfer.
func DebitOf(t *account.Transfer) Entry {
	return Entry{AccountID: t.SourceAccountID, Kind: account.Debit, Amount: t.Amount, TransferID: &t.ID, Note: t.Note}
}

func CreditOf(t *account.Transfer) Entry {
	return Entry{AccountID: t.DestinationAccountID, Kind: account.Credit, Amount: t.Amount, TransferID: &t.ID, Note: t.Note}
}

// Writer posts entries inside a caller-provided unit of work.
type Writer struct {
	now func() time.Time
}

// NewWriter returns a Writer stamping operations with now. A nil now uses time.Now.
func NewWriter(now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{now: now}
}

// Post applies entries in order within uow. For each entry it applies the guarded
// balance delta and appends the matching operation. The caller's unit of work must
// roll back on error; Post never commits on its own.
func (w *Writer) Post(ctx context.Context, uow repository.UnitOfWork, entries ...Entry) ([]*account.Operation, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyPosting
	}
	accounts, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	operations, err := uow.OperationRepository()
	if err != nil {
		return nil, err
	}

	at := w.now()
	posted := make([]*account.Operation, 0, len(entries))
	for _, e := range entries {
		if e.Amount <= 0 {
			return nil, account.ErrInvalidAmount
		}
		if e.Kind != account.Debit && e.Kind != account.Credit {
			return nil, fmt.Errorf("ledger: unknown operation kind %q", e.Kind)
		}
		op := &account.Operation{
			ID:         uuid.New(),
			AccountID:  e.AccountID,
			Kind:       e.Kind,
			Amount:     e.Amount,
			TransferID: e.TransferID,
			Note:       e.Note,
			CreatedAt:  at,
		}
		if err := accounts.AdjustBalance(ctx, op.AccountID, op.Delta(), at); err != nil {
			return nil, err
		}
		if err := operations.Append(ctx, op); err != nil {
			return nil, err
		}
		posted = append(posted, op)
	}
	return posted, nil
}
