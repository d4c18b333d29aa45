package account

import (
	"time"

	"github.com/google/uuid"
)

// OperationKind is the side of a ledger operation.
type OperationKind string

const (
	Debit  OperationKind = "DEBIT"
	Credit OperationKind = "CREDIT"
)

// NoteDailyInterest tags interest credits.
const NoteDailyInterest = "DAILY_INTEREST"

// Operation is an immutable ledger entry against one account.
// TransferID is nil for credits that are not part of a transfer.
type Operation struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Kind       OperationKind
	Amount     int64
	TransferID *uuid.UUID
	Note       string
	CreatedAt  time.Time
}

// Delta is the signed balance change the operation explains.
func (o *Operation) Delta() int64 {
	if o.Kind == Debit {
		return -o.Amount
	}
	return o.Amount
}

// Transfer moves Amount from SourceAccountID to DestinationAccountID.
type Transfer struct {
	ID                   uuid.UUID
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               int64
	Note                 string
	CreatedAt            time.Time
}

// NewTransfer builds a transfer record after checking its own invariants.
func NewTransfer(sourceID, destinationID uuid.UUID, amount int64, note string, now time.Time) (*Transfer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if sourceID == destinationID {
		return nil, ErrSameAccount
	}
	return &Transfer{
		ID:                   uuid.New(),
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               amount,
		Note:                 note,
		CreatedAt:            now,
	}, nil
}

// ValidateTransfer runs the transfer checks in order; the first failure wins.
// A nil source or one not owned by userID, and a nil destination, are reported as not found.
func ValidateTransfer(userID uuid.UUID, source, destination *Account, amount int64) error {
	if source == nil || !source.OwnedBy(userID) {
		return ErrAccountNotFound
	}
	if destination == nil {
		return ErrAccountNotFound
	}
	if source.ID == destination.ID {
		return ErrSameAccount
	}
	if !source.Active || !destination.Active {
		return ErrAccountInactive
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if source.Balance < amount {
		return ErrInsufficientFunds
	}
	return nil
}
