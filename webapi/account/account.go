package account

import (
	"github.com/amirasaad/ledger/pkg/commands"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/middleware"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the account endpoints. All of them require a valid JWT.
//
// Routes:
//   - GET    /accounts            : List the caller's accounts in creation order.
//   - POST   /accounts            : Open a new account.
//   - GET    /accounts/:id        : Fetch one of the caller's accounts.
//   - PATCH  /accounts/:id        : Rename an account.
//   - POST   /accounts/:id/close  : Close an account. Closing twice is a no-op.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, cfg *config.App) {
	group := app.Group("/accounts", middleware.JwtProtected(cfg.Auth.Jwt))
	group.Get("/", ListAccounts(accountSvc))
	group.Post("/", CreateAccount(accountSvc))
	group.Get("/:id", GetAccount(accountSvc))
	group.Patch("/:id", RenameAccount(accountSvc))
	group.Post("/:id/close", CloseAccount(accountSvc))
}

// ListAccounts returns a Fiber handler listing the caller's accounts.
// @Summary List accounts
// @Description Lists the accounts owned by the authenticated user, oldest first.
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response "Accounts fetched"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [get]
// @Security Bearer
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		list, err := accountSvc.ListByUser(c.UserContext(), userID)
		if err != nil {
			log.Errorf("Failed to list accounts: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", ToAccountDTOs(list))
	}
}

// CreateAccount returns a Fiber handler opening a new account for the caller.
// @Summary Open an account
// @Description Opens an account with a freshly allocated IBAN and a zero balance.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest false "Account details"
// @Success 201 {object} common.Response "Account created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 503 {object} common.ProblemDetails "IBAN allocation failed"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [post]
// @Security Bearer
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input := &CreateAccountRequest{}
		if len(c.Body()) > 0 {
			if input, err = common.BindAndValidate[CreateAccountRequest](c); input == nil {
				return err // error response already written
			}
		}
		a, err := accountSvc.Create(c.UserContext(), commands.CreateAccount{
			UserID: userID,
			Name:   input.Name,
			Kind:   input.Kind,
		})
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		log.Infof("Account created: %s", a.ID)
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(a))
	}
}

// GetAccount returns a Fiber handler fetching one of the caller's accounts.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response "Account fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid account ID"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{id} [get]
// @Security Bearer
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, accountID, ok, err := identify(c)
		if !ok {
			return err
		}
		a, err := accountSvc.GetOwned(c.UserContext(), userID, accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(a))
	}
}

// RenameAccount returns a Fiber handler renaming one of the caller's accounts.
// @Summary Rename an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body RenameAccountRequest true "New name"
// @Success 200 {object} common.Response "Account renamed"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{id} [patch]
// @Security Bearer
func RenameAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, accountID, ok, err := identify(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[RenameAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := accountSvc.Rename(c.UserContext(), commands.RenameAccount{
			UserID:    userID,
			AccountID: accountID,
			Name:      input.Name,
		})
		if err != nil {
			log.Errorf("Failed to rename account %s: %v", accountID, err)
			return common.ProblemDetailsJSON(c, "Failed to rename account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account renamed", ToAccountDTO(a))
	}
}

// CloseAccount returns a Fiber handler closing one of the caller's accounts.
// @Summary Close an account
// @Description Closes the account. Closing an already closed account succeeds without changes.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response "Account closed"
// @Failure 400 {object} common.ProblemDetails "Invalid account ID"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{id}/close [post]
// @Security Bearer
func CloseAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, accountID, ok, err := identify(c)
		if !ok {
			return err
		}
		a, err := accountSvc.Close(c.UserContext(), commands.CloseAccount{
			UserID:    userID,
			AccountID: accountID,
		})
		if err != nil {
			log.Errorf("Failed to close account %s: %v", accountID, err)
			return common.ProblemDetailsJSON(c, "Failed to close account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account closed", ToAccountDTO(a))
	}
}

// identify extracts the caller and the :id path parameter. When ok is false the
// problem response has been written and err is the result of that write.
func identify(c *fiber.Ctx) (userID, accountID uuid.UUID, ok bool, err error) {
	userID, err = middleware.UserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, false, common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
	}
	accountID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, false, common.ProblemDetailsJSON(
			c, "Invalid account ID", err, "Account ID must be a valid UUID", fiber.StatusBadRequest,
		)
	}
	return userID, accountID, true, nil
}
