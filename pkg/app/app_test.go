package app_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	infra_provider "github.com/amirasaad/ledger/infra/provider"
	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/commands"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*app.App, *infra_eventbus.MemoryEventBus, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	generator, err := iban.NewGenerator(iban.DefaultConfig(), logger)
	require.NoError(t, err)
	bus := infra_eventbus.NewWithMemory(logger)
	a := app.New(&app.Deps{
		Uow:          memory.New().UoW(),
		EventBus:     bus,
		RateProvider: infra_provider.NewStaticRate(0.02),
		Generator:    generator,
		Logger:       logger,
	}, &config.App{})
	return a, bus, &buf
}

func TestNew_WiresServices(t *testing.T) {
	a, _, _ := newApp(t)
	assert.NotNil(t, a.AccountService)
	assert.NotNil(t, a.TransferService)
	assert.NotNil(t, a.InterestService)
}

func TestNew_AuditsEvents(t *testing.T) {
	a, _, buf := newApp(t)

	acc, err := a.AccountService.Create(context.Background(), commands.CreateAccount{UserID: uuid.New()})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[AUDIT] "+events.EventTypeAccountOpened.String())
	assert.Contains(t, out, acc.ID.String())
}

func TestNew_AuditDeduplicatesRedelivery(t *testing.T) {
	a, bus, buf := newApp(t)
	require.NotNil(t, a)

	evt := events.TransferCompleted{TransferID: uuid.New(), Amount: 500}
	require.NoError(t, bus.Emit(context.Background(), evt))
	require.NoError(t, bus.Emit(context.Background(), &evt))

	assert.Equal(t, 1, strings.Count(buf.String(), "[AUDIT] "+events.EventTypeTransferCompleted.String()))
}

func TestNew_NilLoggerUsesDefault(t *testing.T) {
	a := app.New(&app.Deps{Uow: memory.New().UoW()}, &config.App{})
	assert.NotNil(t, a.Deps.Logger)
}
