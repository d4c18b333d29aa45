package transfer

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	transfersvc "github.com/amirasaad/ledger/pkg/service/transfer"
	accountweb "github.com/amirasaad/ledger/webapi/account"
)

//revive:disable

// TransferRequest represents the request body for an internal transfer.
// Amount is a decimal string with at most two fraction digits, e.g. "12.30".
type TransferRequest struct {
	SourceAccountID string `json:"source_account_id" validate:"required,uuid"`
	DestinationIBAN string `json:"destination_iban" validate:"required,max=42"`
	Amount          string `json:"amount"`
	Note            string `json:"note" validate:"max=140"`
}

// TransferDTO is the API response of a committed transfer.
type TransferDTO struct {
	TransferID  string                 `json:"transfer_id"`
	Amount      string                 `json:"amount"`
	Note        string                 `json:"note,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	Source      *accountweb.AccountDTO `json:"source"`
	Destination *accountweb.AccountDTO `json:"destination"`
}

// PartyDTO is one side of a history entry.
type PartyDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	IBAN string `json:"iban"`
}

// HistoryItemDTO is a transfer as seen by the caller.
type HistoryItemDTO struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Note        string    `json:"note,omitempty"`
	Direction   string    `json:"direction"`
	CreatedAt   time.Time `json:"created_at"`
	Source      PartyDTO  `json:"source"`
	Destination PartyDTO  `json:"destination"`
}

func toTransferDTO(r *transfersvc.Result) *TransferDTO {
	return &TransferDTO{
		TransferID:  r.TransferID.String(),
		Amount:      money.Format(r.Transfer.Amount),
		Note:        r.Transfer.Note,
		CreatedAt:   r.Transfer.CreatedAt.UTC(),
		Source:      accountweb.ToAccountDTO(r.Source),
		Destination: accountweb.ToAccountDTO(r.Destination),
	}
}

func toPartyDTO(p account.Party) PartyDTO {
	return PartyDTO{ID: p.ID.String(), Name: p.Name, IBAN: p.IBAN}
}

func toHistoryDTOs(items []*account.HistoryItem) []*HistoryItemDTO {
	out := make([]*HistoryItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, &HistoryItemDTO{
			ID:          it.ID.String(),
			Amount:      money.Format(it.Amount),
			Note:        it.Note,
			Direction:   string(it.Direction),
			CreatedAt:   it.CreatedAt.UTC(),
			Source:      toPartyDTO(it.Source),
			Destination: toPartyDTO(it.Destination),
		})
	}
	return out
}
