package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid amount", account.ErrInvalidAmount, fiber.StatusBadRequest, CodeInvalidAmount},
		{"not found", account.ErrAccountNotFound, fiber.StatusNotFound, CodeAccountNotFound},
		{"same account", account.ErrSameAccount, fiber.StatusBadRequest, CodeSameAccount},
		{"inactive", account.ErrAccountInactive, fiber.StatusConflict, CodeAccountInactive},
		{"insufficient", account.ErrInsufficientFunds, fiber.StatusConflict, CodeInsufficientFund},
		{"invalid name", account.ErrInvalidName, fiber.StatusBadRequest, CodeInvalidName},
		{"invalid kind", account.ErrInvalidKind, fiber.StatusBadRequest, CodeInvalidKind},
		{"allocation", iban.ErrAllocationFailed, fiber.StatusServiceUnavailable, CodeIBANAllocation},
		{"wrapped", fmt.Errorf("ctx: %w", account.ErrInsufficientFunds), fiber.StatusConflict, CodeInsufficientFund},
		{"unexpected", account.Unexpected(errors.New("disk full")), fiber.StatusInternalServerError, CodeUnexpected},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, CodeUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, ErrorToStatusCode(tt.err))
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}

func TestProblemDetailsJSON(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Transfer failed", account.ErrInsufficientFunds)
	})
	app.Get("/override", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Bad id", errors.New("parse"), "must be a UUID", fiber.StatusBadRequest)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))

	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, CodeInsufficientFund, pd.Code)
	assert.Equal(t, "/fail", pd.Instance)
	assert.Equal(t, "Transfer failed", pd.Title)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/override", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "must be a UUID")
}

type renameInput struct {
	Name string `json:"name" validate:"required"`
}

func TestBindAndValidate(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		in, err := BindAndValidate[renameInput](c)
		if in == nil {
			return err
		}
		return c.SendString(in.Name)
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"name":"Rent"}`, fiber.StatusOK},
		{"missing field", `{}`, fiber.StatusBadRequest},
		{"malformed", `{"name":`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint: errcheck
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
