// Package testutils builds a fully wired HTTP app over the in-memory store for handler tests.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	infra_provider "github.com/amirasaad/ledger/infra/provider"
	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/middleware"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/webapi"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const AdminToken = "test-admin-token"

// Env is a running test application.
type Env struct {
	App    *app.App
	Fiber  *fiber.App
	Store  *memory.Store
	Bus    *infra_eventbus.MemoryEventBus
	Config *config.App
}

// NewConfig returns a configuration suitable for handler tests.
func NewConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:       &config.Log{Format: "text"},
		DB:        &config.DB{Url: "memory://"},
		Auth:      &config.Auth{Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Bank:      &config.Bank{Country: "FR", BankCode: "30006", BranchCode: "00001"},
		Interest:  &config.Interest{AnnualRate: 0.02},
		Admin:     &config.Admin{Token: AdminToken},
		EventBus:  &config.EventBus{Driver: "memory"},
	}
}

// NewEnv wires the app over a fresh memory store. mutate may adjust the config first.
func NewEnv(t testing.TB, mutate ...func(*config.App)) *Env {
	t.Helper()
	cfg := NewConfig()
	for _, m := range mutate {
		m(cfg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	generator, err := iban.NewGenerator(iban.DefaultConfig(), logger)
	require.NoError(t, err)

	store := memory.New()
	bus := infra_eventbus.NewWithMemory(logger)
	a := app.New(&app.Deps{
		Uow:          store.UoW(),
		EventBus:     bus,
		RateProvider: infra_provider.NewStaticRate(cfg.Interest.AnnualRate),
		Generator:    generator,
		Logger:       logger,
	}, cfg)
	return &Env{
		App:    a,
		Fiber:  webapi.SetupApp(a),
		Store:  store,
		Bus:    bus,
		Config: cfg,
	}
}

// Token signs a JWT for userID with the test secret.
func (e *Env) Token(t testing.TB, userID uuid.UUID) string {
	t.Helper()
	token, err := middleware.IssueToken(e.Config.Auth.Jwt, userID, time.Now())
	require.NoError(t, err)
	return token
}

// Fund credits amount minor units to accountID outside of any transfer.
func (e *Env) Fund(t testing.TB, accountID uuid.UUID, amount int64) {
	t.Helper()
	w := ledger.NewWriter(nil)
	err := e.Store.UoW().Do(context.Background(), func(uow repository.UnitOfWork) error {
		_, err := w.Post(context.Background(), uow, ledger.Entry{
			AccountID: accountID,
			Kind:      account.Credit,
			Amount:    amount,
			Note:      "TEST_FUNDING",
		})
		return err
	})
	require.NoError(t, err)
}

// MakeRequest sends a request through the fiber app. Empty body and token are omitted.
func MakeRequest(app *fiber.App, method, path, body, token string, headers ...string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, _ := app.Test(req, -1)
	return resp
}

// Decode reads a Response envelope and decodes its data into out.
func Decode(t testing.TB, resp *http.Response, out any) *common.Response {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	raw := struct {
		common.Response
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return &raw.Response
}

// DecodeProblem reads a problem details body.
func DecodeProblem(t testing.TB, resp *http.Response) *common.ProblemDetails {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var pd common.ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	return &pd
}
