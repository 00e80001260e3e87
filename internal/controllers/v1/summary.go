package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wanderplan/backend/internal/alert"
	"github.com/wanderplan/backend/internal/currency"
	"github.com/wanderplan/backend/internal/httputil"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/summary"
)

// evaluator keeps the per-budget overrun streaks between summary requests.
var evaluator = alert.NewEvaluator(alert.DefaultConfig())

type SummaryResponse struct {
	Data   *summary.Summary `json:"data"`                                                          // The computed summary
	Alerts []Alert          `json:"alerts"`                                                        // Alerts raised by this evaluation
	Error  *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/summary [options]
func OptionsBudgetSummary(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Budget{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get budget summary
// @Description	Computes the spend summary for a budget from its current expenses and evaluates the alert thresholds. The summary is always computed fresh, it is never cached.
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	SummaryResponse
// @Failure		400	{object}	SummaryResponse
// @Failure		404	{object}	SummaryResponse
// @Failure		500	{object}	SummaryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/summary [get]
func GetBudgetSummary(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	var budget models.Budget
	err = models.DB.Preload("Categories").First(&budget, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	expenses, err := budget.Expenses(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	// The rate snapshot is read once so that all conversions of this
	// computation use the same rates, even if a refresh lands mid-request.
	result := summary.Calculate(budget, expenses, currency.Current(), time.Now())

	existing, err := budget.Alerts(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	raised := evaluator.Evaluate(budget, result, existing)

	apiAlerts := make([]Alert, 0, len(raised))
	for i := range raised {
		if err := models.DB.Create(&raised[i]).Error; err != nil {
			s := err.Error()
			c.JSON(status(err), SummaryResponse{
				Error: &s,
			})
			return
		}

		apiAlerts = append(apiAlerts, newAlert(c, raised[i]))
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Data:   &result,
		Alerts: apiAlerts,
	})
}
