package account

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/amirasaad/ledger/pkg/money"
)

//revive:disable

// CreateAccountRequest represents the request body for opening an account.
// Blank fields fall back to the default name and the CURRENT kind.
type CreateAccountRequest struct {
	Name string `json:"name" validate:"omitempty,max=200"`
	Kind string `json:"kind" validate:"omitempty,max=16"`
}

// RenameAccountRequest represents the request body for renaming an account.
type RenameAccountRequest struct {
	Name string `json:"name" validate:"required"`
}

// AccountDTO is the API response representation of an account.
type AccountDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	IBAN          string    `json:"iban"`
	FormattedIBAN string    `json:"formatted_iban"`
	Kind          string    `json:"kind"`
	Balance       string    `json:"balance"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToAccountDTO maps a domain account to its API representation.
func ToAccountDTO(a *account.Account) *AccountDTO {
	return &AccountDTO{
		ID:            a.ID.String(),
		Name:          a.Name,
		IBAN:          a.IBAN,
		FormattedIBAN: iban.Format(a.IBAN),
		Kind:          string(a.Kind),
		Balance:       money.Format(a.Balance),
		Active:        a.Active,
		CreatedAt:     a.CreatedAt.UTC(),
		UpdatedAt:     a.UpdatedAt.UTC(),
	}
}

// ToAccountDTOs maps a slice of accounts.
func ToAccountDTOs(list []*account.Account) []*AccountDTO {
	out := make([]*AccountDTO, 0, len(list))
	for _, a := range list {
		out = append(out, ToAccountDTO(a))
	}
	return out
}
