package transfer

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
)

// History lists transfers touching the user's accounts, most recent first.
// When accountID is set it must belong to the user and narrows the result to
// that account.
func (s *Service) History(ctx context.Context, userID uuid.UUID, accountID *uuid.UUID) ([]*account.HistoryItem, error) {
	logger := s.logger.With("user_id", userID, "account_id", accountID)

	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, account.Unexpected(err)
	}
	transfers, err := s.uow.TransferRepository()
	if err != nil {
		return nil, account.Unexpected(err)
	}

	mine, err := accounts.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("History failed: list accounts", "error", err)
		return nil, account.Unexpected(err)
	}
	owned := make(map[uuid.UUID]bool, len(mine))
	ids := make([]uuid.UUID, 0, len(mine))
	for _, a := range mine {
		owned[a.ID] = true
		ids = append(ids, a.ID)
	}
	if accountID != nil {
		if !owned[*accountID] {
			return nil, account.ErrAccountNotFound
		}
		ids = []uuid.UUID{*accountID}
	}
	if len(ids) == 0 {
		return []*account.HistoryItem{}, nil
	}

	list, err := transfers.ListTouching(ctx, ids)
	if err != nil {
		logger.Error("History failed: list transfers", "error", err)
		return nil, account.Unexpected(err)
	}

	parties, err := s.parties(ctx, list)
	if err != nil {
		logger.Error("History failed: load counterparties", "error", err)
		return nil, account.Unexpected(err)
	}

	items := make([]*account.HistoryItem, 0, len(list))
	for _, t := range list {
		items = append(items, &account.HistoryItem{
			Transfer:    *t,
			Source:      account.PartyOf(parties[t.SourceAccountID]),
			Destination: account.PartyOf(parties[t.DestinationAccountID]),
			Direction:   account.DirectionFor(t, accountID, owned),
		})
	}
	return items, nil
}

func (s *Service) parties(ctx context.Context, list []*account.Transfer) (map[uuid.UUID]*account.Account, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, t := range list {
		for _, id := range []uuid.UUID{t.SourceAccountID, t.DestinationAccountID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	out := make(map[uuid.UUID]*account.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	found, err := repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range found {
		out[a.ID] = a
	}
	return out, nil
}
