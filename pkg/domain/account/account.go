package account

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind is the product type of an account.
type Kind string

const (
	KindCurrent Kind = "CURRENT"
	KindSavings Kind = "SAVINGS"
)

const (
	// DefaultName is used when an account is opened without a name.
	DefaultName = "Additional account"

	MinNameLength = 2
	MaxNameLength = 80
)

// ParseKind maps raw input to a Kind. Empty input yields KindCurrent.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", KindCurrent:
		return KindCurrent, nil
	case KindSavings:
		return KindSavings, nil
	default:
		return "", ErrInvalidKind
	}
}

// Account is a user's ledger account.
//
// Invariants:
//   - Balance is in minor units and never negative once committed.
//   - IBAN is checksum-valid and never changes after creation.
//   - Active only goes from true to false.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	IBAN      string
	Kind      Kind
	Balance   int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds an open, zero-balance account.
func New(userID uuid.UUID, name string, kind Kind, iban string, now time.Time) *Account {
	return &Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		IBAN:      iban,
		Kind:      kind,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy reports whether userID owns the account.
func (a *Account) OwnedBy(userID uuid.UUID) bool {
	return a != nil && a.UserID == userID
}

// IsInterestBearing reports whether the account accrues daily interest.
func (a *Account) IsInterestBearing() bool {
	return a.Active && a.Kind == KindSavings
}

// NormalizeName trims raw and checks its length in runes.
// A blank name falls back to DefaultName when allowDefault is set.
func NormalizeName(raw string, allowDefault bool) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" && allowDefault {
		return DefaultName, nil
	}
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
