package app

import (
	"log/slog"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/amirasaad/ledger/pkg/provider"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/pkg/service/interest"
	"github.com/amirasaad/ledger/pkg/service/transfer"
)

// Deps contains the infrastructure the services are built from.
type Deps struct {
	Uow          repository.UnitOfWork
	EventBus     eventbus.Bus
	RateProvider provider.InterestRateProvider
	Generator    *iban.Generator
	Logger       *slog.Logger
}

type App struct {
	Deps            *Deps
	Config          *config.App
	AccountService  *account.Service
	TransferService *transfer.Service
	InterestService *interest.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	app.AccountService = account.NewService(deps.Uow, deps.Generator, deps.EventBus, deps.Logger)
	app.TransferService = transfer.NewService(deps.Uow, deps.EventBus, deps.Logger)
	app.InterestService = interest.NewService(deps.Uow, deps.RateProvider, deps.EventBus, deps.Logger)
	return app
}
