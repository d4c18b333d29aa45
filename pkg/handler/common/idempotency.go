// Package common holds helpers shared by event handlers.
package common

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"golang.org/x/sync/singleflight"
)

// KeyExtractor extracts an idempotency key from an event.
type KeyExtractor func(events.Event) string

// NaturalKey keys each event by the fact it records, so a redelivered event
// maps to the same key.
func NaturalKey(e events.Event) string {
	switch evt := e.(type) {
	case events.AccountOpened:
		return e.Type() + ":" + evt.AccountID.String()
	case events.AccountClosed:
		return e.Type() + ":" + evt.AccountID.String()
	case events.AccountRenamed:
		return e.Type() + ":" + evt.AccountID.String() + ":" + strconv.FormatInt(evt.OccurredAt.UnixNano(), 10)
	case events.TransferCompleted:
		return e.Type() + ":" + evt.TransferID.String()
	case events.InterestCredited:
		return e.Type() + ":" + evt.AccountID.String() + ":" + strconv.FormatInt(evt.OccurredAt.UnixNano(), 10)
	case *events.AccountOpened:
		return NaturalKey(*evt)
	case *events.AccountClosed:
		return NaturalKey(*evt)
	case *events.AccountRenamed:
		return NaturalKey(*evt)
	case *events.TransferCompleted:
		return NaturalKey(*evt)
	case *events.InterestCredited:
		return NaturalKey(*evt)
	default:
		return ""
	}
}

// IdempotencyTracker tracks processed events by key.
type IdempotencyTracker struct {
	processed sync.Map
	inflight  singleflight.Group
}

// NewIdempotencyTracker creates a new idempotency tracker.
func NewIdempotencyTracker() *IdempotencyTracker {
	return &IdempotencyTracker{}
}

// Store marks a key as processed.
func (t *IdempotencyTracker) Store(key string) {
	t.processed.Store(key, struct{}{})
}

// Delete removes a key from the tracker.
func (t *IdempotencyTracker) Delete(key string) {
	t.processed.Delete(key)
}

// Seen reports whether key was processed.
func (t *IdempotencyTracker) Seen(key string) bool {
	_, ok := t.processed.Load(key)
	return ok
}

// WithIdempotency wraps handler so each key is handled successfully at most once.
// Concurrent deliveries of the same key wait for the in-flight attempt.
func WithIdempotency(
	handler eventbus.HandlerFunc,
	tracker *IdempotencyTracker,
	keyExtractor KeyExtractor,
	handlerName string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e events.Event) error {
		key := keyExtractor(e)
		if key == "" {
			return handler(ctx, e)
		}

		log := logger.With(
			"handler", handlerName,
			"event_type", e.Type(),
			"idempotency_key", key,
		)
		if tracker.Seen(key) {
			log.Info("🔁 [SKIP] Event already processed")
			return nil
		}

		_, err, _ := tracker.inflight.Do(key, func() (any, error) {
			if tracker.Seen(key) {
				return nil, nil
			}
			if err := handler(ctx, e); err != nil {
				return nil, err
			}
			tracker.Store(key)
			return nil, nil
		})
		return err
	}
}
