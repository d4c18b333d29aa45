// Package transfer exposes the transfer engine and the history query over HTTP.
package transfer

import (
	"github.com/amirasaad/ledger/pkg/commands"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/middleware"
	transfersvc "github.com/amirasaad/ledger/pkg/service/transfer"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the transfer endpoints. Both require a valid JWT.
func Routes(app *fiber.App, transferSvc *transfersvc.Service, cfg *config.App) {
	group := app.Group("/transfers", middleware.JwtProtected(cfg.Auth.Jwt))
	group.Post("/", Transfer(transferSvc))
	group.Get("/history", History(transferSvc))
}

// Transfer returns a Fiber handler moving funds between two accounts of this bank.
// @Summary Transfer funds
// @Description Debits one of the caller's accounts and credits the account holding the destination IBAN in a single transaction.
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Transfer details"
// @Success 201 {object} common.Response "Transfer completed"
// @Failure 400 {object} common.ProblemDetails "Invalid amount or same account"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Account inactive or insufficient funds"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /transfers [post]
// @Security Bearer
func Transfer(transferSvc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err // error response already written
		}
		sourceID, err := uuid.Parse(input.SourceAccountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid source account ID", err, fiber.StatusBadRequest)
		}
		res, err := transferSvc.Execute(c.UserContext(), commands.Transfer{
			UserID:          userID,
			SourceAccountID: sourceID,
			DestinationIBAN: input.DestinationIBAN,
			Amount:          input.Amount,
			Note:            input.Note,
		})
		if err != nil {
			log.Errorf("Transfer from %s failed: %v", sourceID, err)
			return common.ProblemDetailsJSON(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed", toTransferDTO(res))
	}
}

// History returns a Fiber handler listing the caller's transfers, newest first.
// @Summary Transfer history
// @Description Lists transfers touching the caller's accounts. With accountId, only that account's transfers are listed and directions are relative to it.
// @Tags transfers
// @Produce json
// @Param accountId query string false "Restrict to one account"
// @Success 200 {object} common.Response "History fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid account ID"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /transfers/history [get]
// @Security Bearer
func History(transferSvc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		var filter *uuid.UUID
		if raw := c.Query("accountId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return common.ProblemDetailsJSON(
					c, "Invalid account ID", err, "accountId must be a valid UUID", fiber.StatusBadRequest,
				)
			}
			filter = &id
		}
		items, err := transferSvc.History(c.UserContext(), userID, filter)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch history", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "History fetched", toHistoryDTOs(items))
	}
}
