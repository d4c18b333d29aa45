// Package audit records committed ledger facts as structured log entries.
package audit

import (
	"context"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/money"
)

// Handle returns a handler that writes one audit line per event.
func Handle(logger *slog.Logger) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("handler", "audit")
	return func(ctx context.Context, e events.Event) error {
		logger.InfoContext(ctx, "📒 [AUDIT] "+e.Type(), attrs(e)...)
		return nil
	}
}

func attrs(e events.Event) []any {
	switch evt := e.(type) {
	case *events.AccountOpened:
		return attrs(*evt)
	case *events.AccountRenamed:
		return attrs(*evt)
	case *events.AccountClosed:
		return attrs(*evt)
	case *events.TransferCompleted:
		return attrs(*evt)
	case *events.InterestCredited:
		return attrs(*evt)
	case events.AccountOpened:
		return []any{"account_id", evt.AccountID, "user_id", evt.UserID, "iban", evt.IBAN, "kind", evt.Kind}
	case events.AccountRenamed:
		return []any{"account_id", evt.AccountID, "user_id", evt.UserID, "name", evt.Name}
	case events.AccountClosed:
		return []any{"account_id", evt.AccountID, "user_id", evt.UserID}
	case events.TransferCompleted:
		return []any{
			"transfer_id", evt.TransferID,
			"source_account_id", evt.SourceAccountID,
			"destination_account_id", evt.DestinationAccountID,
			"amount", money.Format(evt.Amount),
		}
	case events.InterestCredited:
		return []any{"account_id", evt.AccountID, "amount", money.Format(evt.Amount), "annual_rate", evt.AnnualRate}
	default:
		return nil
	}
}
