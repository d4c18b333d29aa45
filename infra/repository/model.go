package repository

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
)

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"size:80;not null"`
	IBAN      string    `gorm:"column:iban;size:34;uniqueIndex;not null"`
	Kind      string    `gorm:"size:16;not null"`
	Balance   int64     `gorm:"not null;check:balance >= 0"`
	Active    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Transfer represents a persisted transfer between two accounts.
type Transfer struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	SourceAccountID      uuid.UUID `gorm:"type:uuid;index;not null"`
	DestinationAccountID uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount               int64     `gorm:"not null"`
	Note                 *string   `gorm:"size:140"`
	CreatedAt            time.Time `gorm:"not null"`
}

// LedgerOperation represents one debit or credit against an account.
type LedgerOperation struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	Kind       string     `gorm:"size:8;not null"`
	Amount     int64      `gorm:"not null"`
	TransferID *uuid.UUID `gorm:"type:uuid;index"`
	Note       *string    `gorm:"size:140"`
	CreatedAt  time.Time  `gorm:"not null"`
}

func (LedgerOperation) TableName() string { return "ledger_operations" }

func toAccountModel(a *account.Account) *Account {
	return &Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		IBAN:      a.IBAN,
		Kind:      string(a.Kind),
		Balance:   a.Balance,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *Account) toDomain() *account.Account {
	return &account.Account{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		IBAN:      m.IBAN,
		Kind:      account.Kind(m.Kind),
		Balance:   m.Balance,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toTransferModel(t *account.Transfer) *Transfer {
	return &Transfer{
		ID:                   t.ID,
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Amount:               t.Amount,
		Note:                 optional(t.Note),
		CreatedAt:            t.CreatedAt,
	}
}

func (m *Transfer) toDomain() *account.Transfer {
	return &account.Transfer{
		ID:                   m.ID,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Amount:               m.Amount,
		Note:                 deref(m.Note),
		CreatedAt:            m.CreatedAt,
	}
}

func toOperationModel(op *account.Operation) *LedgerOperation {
	return &LedgerOperation{
		ID:         op.ID,
		AccountID:  op.AccountID,
		Kind:       string(op.Kind),
		Amount:     op.Amount,
		TransferID: op.TransferID,
		Note:       optional(op.Note),
		CreatedAt:  op.CreatedAt,
	}
}

func (m *LedgerOperation) toDomain() *account.Operation {
	return &account.Operation{
		ID:         m.ID,
		AccountID:  m.AccountID,
		Kind:       account.OperationKind(m.Kind),
		Amount:     m.Amount,
		TransferID: m.TransferID,
		Note:       deref(m.Note),
		CreatedAt:  m.CreatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Models lists the persisted models, for schema creation on databases without SQL migrations.
func Models() []any {
	return []any{&Account{}, &Transfer{}, &LedgerOperation{}}
}
