package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventBus_EmitDispatchesByType(t *testing.T) {
	bus := NewWithMemory(nil)
	var opened, closed int
	bus.Register(events.EventTypeAccountOpened, func(ctx context.Context, e events.Event) error {
		opened++
		return nil
	})
	bus.Register(events.EventTypeAccountClosed, func(ctx context.Context, e events.Event) error {
		closed++
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), events.AccountOpened{AccountID: uuid.New()}))
	assert.Equal(t, 1, opened)
	assert.Equal(t, 0, closed)
	assert.Len(t, bus.Published(), 1)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}

func TestMemoryEventBus_HandlerFailuresDoNotFailEmit(t *testing.T) {
	bus := NewWithMemory(nil)
	var after bool
	bus.Register(events.EventTypeAccountClosed, func(ctx context.Context, e events.Event) error {
		return errors.New("boom")
	})
	bus.Register(events.EventTypeAccountClosed, func(ctx context.Context, e events.Event) error {
		panic("handler panic")
	})
	bus.Register(events.EventTypeAccountClosed, func(ctx context.Context, e events.Event) error {
		after = true
		return nil
	})

	err := bus.Emit(context.Background(), events.AccountClosed{AccountID: uuid.New()})
	require.NoError(t, err)
	assert.True(t, after)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	in := events.TransferCompleted{
		TransferID:           uuid.New(),
		UserID:               uuid.New(),
		SourceAccountID:      uuid.New(),
		DestinationAccountID: uuid.New(),
		Amount:               1250,
		OccurredAt:           time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	raw, err := encode(in)
	require.NoError(t, err)

	out, err := decode(raw)
	require.NoError(t, err)
	got, ok := out.(*events.TransferCompleted)
	require.True(t, ok)
	assert.Equal(t, in, *got)
}

func TestEnvelope_UnknownType(t *testing.T) {
	_, err := decode([]byte(`{"type":"Nope","payload":{}}`))
	require.Error(t, err)
}

func TestNameFor(t *testing.T) {
	assert.Equal(t, "ledger.events.transfer.completed", nameFor("ledger.events", events.EventTypeTransferCompleted))
	assert.Equal(t, []string{"a:1", "b:2"}, parseBrokers(" a:1, ,b:2"))
}
