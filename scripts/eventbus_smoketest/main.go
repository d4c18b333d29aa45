// Command eventbus_smoketest publishes one TransferCompleted event on a real
// broker and waits for it to come back through the consumer side.
//
//	DRIVER=kafka BROKERS=localhost:9092 go run ./scripts/eventbus_smoketest
//	DRIVER=redis REDIS_URL=redis://localhost:6379/0 go run ./scripts/eventbus_smoketest
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/google/uuid"
)

type smokeBus interface {
	eventbus.Bus
	io.Closer
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func connect(logger *slog.Logger) (smokeBus, error) {
	switch driver := envOr("DRIVER", "kafka"); driver {
	case "kafka":
		cfg := infra_eventbus.DefaultKafkaConfig()
		cfg.GroupID = envOr("GROUP_ID", "ledger-smoketest")
		return infra_eventbus.NewWithKafka(envOr("BROKERS", "localhost:9092"), logger, cfg)
	case "redis":
		return infra_eventbus.NewWithRedis(
			envOr("REDIS_URL", "redis://localhost:6379/0"),
			envOr("STREAM", "ledger-smoketest"),
			envOr("GROUP_ID", "ledger-smoketest"),
			logger,
		)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// RunSmokeTest emits a transfer event and waits until a handler sees it.
func RunSmokeTest(ctx context.Context, logger *slog.Logger) error {
	bus, err := connect(logger)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	want := events.TransferCompleted{
		TransferID:           uuid.New(),
		UserID:               uuid.New(),
		SourceAccountID:      uuid.New(),
		DestinationAccountID: uuid.New(),
		Amount:               1234,
		OccurredAt:           time.Now().UTC(),
	}
	received := make(chan uuid.UUID, 16)
	bus.Register(events.EventTypeTransferCompleted, func(_ context.Context, evt events.Event) error {
		switch e := evt.(type) {
		case *events.TransferCompleted:
			received <- e.TransferID
		case events.TransferCompleted:
			received <- e.TransferID
		}
		return nil
	})

	if err := bus.Emit(ctx, want); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	logger.Info("produced", "transfer_id", want.TransferID)

	for {
		select {
		case id := <-received:
			if id == want.TransferID {
				logger.Info("event bus smoke test passed", "transfer_id", id)
				return nil
			}
			logger.Info("skipping earlier event", "transfer_id", id)
		case <-ctx.Done():
			return errors.New("timed out waiting for the event")
		}
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := RunSmokeTest(ctx, logger); err != nil {
		logger.Error("smoke test failed", "error", err)
		os.Exit(1)
	}
}
