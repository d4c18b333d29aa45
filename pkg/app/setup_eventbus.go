// Package app wires services and event handlers from infrastructure dependencies.
package app

import (
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/handler/audit"
	"github.com/amirasaad/ledger/pkg/handler/common"
)

// setupEventBus registers the audit trail for every published event type.
// Deliveries are deduplicated so at-least-once buses do not double-record.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	logger := a.Deps.Logger
	tracker := common.NewIdempotencyTracker()
	handler := common.WithIdempotency(audit.Handle(logger), tracker, common.NaturalKey, "audit", logger)

	for _, eventType := range []events.EventType{
		events.EventTypeAccountOpened,
		events.EventTypeAccountRenamed,
		events.EventTypeAccountClosed,
		events.EventTypeTransferCompleted,
		events.EventTypeInterestCredited,
	} {
		bus.Register(eventType, handler)
	}
}
