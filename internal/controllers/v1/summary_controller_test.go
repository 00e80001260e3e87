package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	v1 "github.com/wanderplan/backend/internal/controllers/v1"
	"github.com/wanderplan/backend/internal/types"
	"github.com/wanderplan/backend/test"
)

func (suite *TestSuiteStandard) TestSummaryOptions() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	r := test.Request(suite.T(), http.MethodOptions, budget.Data.Links.Summary, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("GET", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/budgets/%s/summary", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestSummaryGet() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{
		TotalAmount: decimal.NewFromInt(1000),
		Currency:    "EUR",
	})

	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		BudgetID: budget.Data.ID,
		Amount:   decimal.NewFromInt(300),
		Currency: "EUR",
		Category: types.CategoryFood,
	})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		BudgetID: budget.Data.ID,
		Amount:   decimal.NewFromInt(100),
		Currency: "EUR",
		Category: types.CategoryActivities,
	})

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Summary, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().NotNil(response.Data)
	suite.Assert().True(decimal.NewFromInt(400).Equal(response.Data.TotalSpent), "totalSpent is %s", response.Data.TotalSpent)
	suite.Assert().True(decimal.NewFromInt(600).Equal(response.Data.TotalRemaining), "totalRemaining is %s", response.Data.TotalRemaining)
	suite.Assert().True(decimal.NewFromInt(40).Equal(response.Data.PercentageSpent), "percentageSpent is %s", response.Data.PercentageSpent)
	suite.Assert().False(response.Data.OverBudget)
	suite.Assert().Empty(response.Alerts)
}

func (suite *TestSuiteStandard) TestSummaryGetNotFound() {
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/budgets/%s/summary", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestSummaryRaisesThresholdAlert() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{
		TotalAmount: decimal.NewFromInt(1000),
		Currency:    "EUR",
	})

	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		BudgetID: budget.Data.ID,
		Amount:   decimal.NewFromInt(850),
		Currency: "EUR",
	})

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Summary, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Alerts, 1)
	suite.Assert().Equal(types.AlertTypeThreshold, response.Alerts[0].Type)
	suite.Assert().True(decimal.NewFromInt(80).Equal(response.Alerts[0].Threshold))

	// The raised alert is persisted
	listReq := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/alerts?budget=%s", budget.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &listReq, http.StatusOK)

	var alerts v1.AlertListResponse
	test.DecodeResponse(suite.T(), &listReq, &alerts)
	suite.Assert().Len(alerts.Data, 1)

	// A second evaluation does not raise a duplicate while the alert is unread
	r = test.Request(suite.T(), http.MethodGet, budget.Data.Links.Summary, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Empty(response.Alerts)
}

func (suite *TestSuiteStandard) TestSummaryRaisesCategoryAlert() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{
		TotalAmount: decimal.NewFromInt(1000),
		Currency:    "EUR",
		Categories: []v1.BudgetCategoryEditable{
			{Category: types.CategoryFood, Amount: decimal.NewFromInt(100)},
		},
	})

	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		BudgetID: budget.Data.ID,
		Amount:   decimal.NewFromInt(150),
		Currency: "EUR",
		Category: types.CategoryFood,
	})

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Summary, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Alerts, 1)
	suite.Assert().Equal(types.AlertTypeCategory, response.Alerts[0].Type)
	suite.Assert().Equal(types.CategoryFood, response.Alerts[0].Category)
}

func (suite *TestSuiteStandard) TestSummaryUnconvertibleCurrencyWarns() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{
		TotalAmount: decimal.NewFromInt(1000),
		Currency:    "EUR",
	})

	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		BudgetID: budget.Data.ID,
		Amount:   decimal.NewFromInt(50),
		Currency: "THB",
	})

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Summary, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().NotNil(response.Data)
	suite.Assert().True(decimal.NewFromInt(50).Equal(response.Data.TotalSpent), "amount counted at face value")
	suite.Require().Len(response.Data.Warnings, 1)
	suite.Assert().Contains(response.Data.Warnings[0], "THB")
}
