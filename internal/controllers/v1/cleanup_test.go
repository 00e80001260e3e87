package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/wanderplan/backend/internal/controllers/v1"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/test"
)

func (suite *TestSuiteStandard) TestCleanup() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{BudgetID: budget.Data.ID})
	_ = createTestAlert(suite.T(), v1.AlertEditable{BudgetID: budget.Data.ID})

	tests := []string{
		"",
		"confirm=",
		"confirm=true",
		"confirm=yes-please-delete-my-data",
	}

	for _, tt := range tests {
		suite.T().Run(tt, func(t *testing.T) {
			r := test.Request(t, http.MethodDelete, "http://example.com/v1?"+tt, "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// Verify that all resources are gone
	for name, model := range map[string]any{
		"budgets":    &models.Budget{},
		"categories": &models.BudgetCategory{},
		"expenses":   &models.Expense{},
		"shares":     &models.ExpenseShare{},
		"alerts":     &models.BudgetAlert{},
		"rates":      &models.CurrencyRate{},
	} {
		var count int64
		err := models.DB.Model(model).Count(&count).Error

		suite.Assert().NoError(err)
		suite.Assert().Equal(int64(0), count, "%d %s are left after cleanup", count, name)
	}
}
