package eventbus

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/events"
)

// HandlerFunc reacts to a published event.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus publishes events after their unit of work commits and dispatches them to handlers.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
	Register(eventType events.EventType, handler HandlerFunc)
}
