// Package events defines the facts the ledger publishes after a commit.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything that can be published on the bus.
type Event interface {
	Type() string
}

type AccountOpened struct {
	AccountID  uuid.UUID `json:"account_id"`
	UserID     uuid.UUID `json:"user_id"`
	IBAN       string    `json:"iban"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AccountRenamed struct {
	AccountID  uuid.UUID `json:"account_id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AccountClosed struct {
	AccountID  uuid.UUID `json:"account_id"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TransferCompleted is emitted once both ledger operations of a transfer are committed.
type TransferCompleted struct {
	TransferID           uuid.UUID `json:"transfer_id"`
	UserID               uuid.UUID `json:"user_id"`
	SourceAccountID      uuid.UUID `json:"source_account_id"`
	DestinationAccountID uuid.UUID `json:"destination_account_id"`
	Amount               int64     `json:"amount"`
	OccurredAt           time.Time `json:"occurred_at"`
}

// InterestCredited is emitted per account credited by an accrual run.
type InterestCredited struct {
	AccountID  uuid.UUID `json:"account_id"`
	Amount     int64     `json:"amount"`
	AnnualRate float64   `json:"annual_rate"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e AccountOpened) Type() string     { return EventTypeAccountOpened.String() }
func (e AccountRenamed) Type() string    { return EventTypeAccountRenamed.String() }
func (e AccountClosed) Type() string     { return EventTypeAccountClosed.String() }
func (e TransferCompleted) Type() string { return EventTypeTransferCompleted.String() }
func (e InterestCredited) Type() string  { return EventTypeInterestCredited.String() }
