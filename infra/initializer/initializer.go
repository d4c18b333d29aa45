package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/ledger/infra"
	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	infra_provider "github.com/amirasaad/ledger/infra/provider"
	infra_repository "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/amirasaad/ledger/pkg/provider"
	"github.com/amirasaad/ledger/pkg/repository"
)

const memoryDatabaseURL = "memory://"

// InitializeDependencies builds the logger, store, event bus, rate provider and
// IBAN generator described by cfg.
func InitializeDependencies(cfg *config.App) (deps *app.Deps, err error) {
	deps = &app.Deps{}
	logger := SetupLogger(cfg.Log)
	deps.Logger = logger

	deps.Uow, err = initStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	deps.Generator, err = initGenerator(cfg.Bank, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize IBAN generator: %w", err)
	}

	deps.EventBus, err = initEventBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	deps.RateProvider, err = initRateProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	return deps, nil
}

func initStore(cfg *config.App, logger *slog.Logger) (repository.UnitOfWork, error) {
	if cfg.DB != nil && strings.HasPrefix(cfg.DB.Url, memoryDatabaseURL) {
		logger.Warn("Using in-memory store; data is lost on exit")
		return memory.New().UoW(), nil
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := infra.Migrate(db); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			return nil, err
		}
		logger.Info("Database schema up to date")
	}
	return infra_repository.NewUoW(db), nil
}

func initGenerator(cfg *config.Bank, logger *slog.Logger) (*iban.Generator, error) {
	bank := iban.DefaultConfig()
	if cfg != nil {
		bank = iban.Config{Country: cfg.Country, BankCode: cfg.BankCode, BranchCode: cfg.BranchCode}
	}
	return iban.NewGenerator(bank, logger)
}

// initEventBus picks the configured driver. A broker that cannot be reached at
// startup degrades to the in-memory bus so the ledger keeps serving.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	ebCfg := cfg.EventBus
	if ebCfg == nil {
		ebCfg = &config.EventBus{}
	}

	switch strings.ToLower(strings.TrimSpace(ebCfg.Driver)) {
	case "", "memory":
		return infra_eventbus.NewWithMemory(logger), nil
	case "redis":
		url := ""
		if cfg.Redis != nil {
			url = cfg.Redis.URL
		}
		if url == "" {
			return nil, fmt.Errorf("redis event bus requires REDIS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(url, ebCfg.Stream, ebCfg.Group, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case "kafka":
		if strings.TrimSpace(ebCfg.Brokers) == "" {
			return nil, fmt.Errorf("kafka event bus requires EVENT_BUS_BROKERS")
		}
		bus, err := infra_eventbus.NewWithKafka(ebCfg.Brokers, logger, &infra_eventbus.KafkaConfig{
			GroupID:     ebCfg.Group,
			TopicPrefix: ebCfg.TopicPrefix,
		})
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", ebCfg.Driver)
	}
}

// initRateProvider returns the static configured rate, or a Redis-backed rate
// falling back to it when INTEREST_REDIS_KEY is set.
func initRateProvider(cfg *config.App, logger *slog.Logger) (provider.InterestRateProvider, error) {
	interest := cfg.Interest
	if interest == nil {
		interest = &config.Interest{AnnualRate: 0.02}
	}
	static := infra_provider.NewStaticRate(interest.AnnualRate)
	if interest.RedisKey == "" || cfg.Redis == nil || cfg.Redis.URL == "" {
		return static, nil
	}

	key := cfg.Redis.KeyPrefix + interest.RedisKey
	rates, err := infra_provider.NewRedisRate(cfg.Redis.URL, key, static, interest.CacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis rate provider: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rates.AnnualRate(ctx); err != nil {
		logger.Warn("Redis rate provider not reachable yet", "key", key, "error", err)
	}
	return rates, nil
}
