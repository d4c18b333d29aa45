// Package admin exposes operator endpoints guarded by the admin token.
package admin

import (
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/middleware"
	"github.com/amirasaad/ledger/pkg/money"
	interestsvc "github.com/amirasaad/ledger/pkg/service/interest"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

//revive:disable

// CreditDTO is one interest credit.
type CreditDTO struct {
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
}

// InterestRunDTO summarizes one accrual run.
type InterestRunDTO struct {
	Count   int          `json:"count"`
	Credits []*CreditDTO `json:"credits"`
}

//revive:enable

// Routes registers the admin endpoints.
func Routes(app *fiber.App, interestSvc *interestsvc.Service, cfg *config.App) {
	group := app.Group("/admin", middleware.AdminOnly(cfg.Admin.Token))
	group.Post("/savings/apply-interest", ApplyInterest(interestSvc))
}

// ApplyInterest returns a Fiber handler running the daily interest batch once.
// Calling it twice on the same day credits interest twice.
// @Summary Apply daily interest
// @Description Credits one day of interest to every active savings account with a positive balance.
// @Tags admin
// @Produce json
// @Param X-Admin-Token header string true "Admin token"
// @Success 200 {object} common.Response "Interest applied"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 403 {object} common.ProblemDetails "Admin routes disabled"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /admin/savings/apply-interest [post]
func ApplyInterest(interestSvc *interestsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		credited, err := interestSvc.Run(c.UserContext())
		if err != nil {
			log.Errorf("Interest run stopped after %d credits: %v", len(credited), err)
			return common.ProblemDetailsJSON(c, "Interest run failed", err)
		}
		out := &InterestRunDTO{Count: len(credited), Credits: make([]*CreditDTO, 0, len(credited))}
		for _, a := range credited {
			out.Credits = append(out.Credits, &CreditDTO{
				AccountID: a.AccountID.String(),
				Amount:    money.Format(a.Amount),
			})
		}
		log.Infof("Interest applied to %d accounts", out.Count)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Interest applied", out)
	}
}
