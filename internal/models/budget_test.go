package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/types"
)

func (suite *TestSuiteStandard) TestBudgetTrimWhitespace() {
	budget := suite.createTestBudget(models.Budget{
		Name: " Summer in Lisbon\t",
		Note: "  Two weeks, two people ",
	})

	suite.Assert().Equal("Summer in Lisbon", budget.Name)
	suite.Assert().Equal("Two weeks, two people", budget.Note)
}

func (suite *TestSuiteStandard) TestBudgetValidation() {
	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		budget models.Budget
		field  string
	}{
		{
			"empty name",
			models.Budget{TotalAmount: decimal.NewFromInt(100), Currency: "EUR"},
			"name",
		},
		{
			"zero total",
			models.Budget{Name: "No money", Currency: "EUR"},
			"totalAmount",
		},
		{
			"negative total",
			models.Budget{Name: "Negative", TotalAmount: decimal.NewFromInt(-1), Currency: "EUR"},
			"totalAmount",
		},
		{
			"lowercase currency",
			models.Budget{Name: "Lowercase", TotalAmount: decimal.NewFromInt(100), Currency: "eur"},
			"currency",
		},
		{
			"unknown currency",
			models.Budget{Name: "Unknown", TotalAmount: decimal.NewFromInt(100), Currency: "XXJ"},
			"currency",
		},
		{
			"end date before start date",
			models.Budget{Name: "Backwards", TotalAmount: decimal.NewFromInt(100), Currency: "EUR", StartDate: &end, EndDate: &start},
			"endDate",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			budget := tt.budget
			err := models.DB.Create(&budget).Error

			if err == nil {
				t.Fatalf("budget was accepted: %#v", budget)
			}

			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not reference field %q", err, tt.field)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetDateWindow() {
	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)

	_ = suite.createTestBudget(models.Budget{
		Name:      "With window",
		StartDate: &start,
		EndDate:   &end,
	})
}

func (suite *TestSuiteStandard) TestBudgetCategoryAllocationExceedsTotal() {
	budget := models.Budget{
		Name:        "Overallocated",
		TotalAmount: decimal.NewFromInt(5000),
		Currency:    "USD",
		Categories: []models.BudgetCategory{
			{Category: types.CategoryFlights, Amount: decimal.NewFromInt(6000)},
		},
	}

	err := models.DB.Create(&budget).Error
	suite.Assert().NotNil(err)
	suite.Assert().Contains(err.Error(), "categories")
}

func (suite *TestSuiteStandard) TestBudgetCategoryValidation() {
	tests := []struct {
		name     string
		category models.BudgetCategory
		field    string
	}{
		{
			"unknown category",
			models.BudgetCategory{Category: "souvenirs", Amount: decimal.NewFromInt(10)},
			"category",
		},
		{
			"zero amount",
			models.BudgetCategory{Category: types.CategoryFood},
			"amount",
		},
		{
			"percentage above 100",
			models.BudgetCategory{Category: types.CategoryFood, Amount: decimal.NewFromInt(10), Percentage: decimal.NewFromInt(101)},
			"percentage",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			budget := models.Budget{
				Name:        "Category check",
				TotalAmount: decimal.NewFromInt(1000),
				Currency:    "EUR",
				Categories:  []models.BudgetCategory{tt.category},
			}

			err := models.DB.Create(&budget).Error
			if err == nil {
				t.Fatalf("budget was accepted: %#v", budget)
			}

			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not reference field %q", err, tt.field)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetCategoryNotUnique() {
	budget := suite.createTestBudget(models.Budget{
		Name:        "Unique categories",
		TotalAmount: decimal.NewFromInt(1000),
		Categories: []models.BudgetCategory{
			{Category: types.CategoryFood, Amount: decimal.NewFromInt(100)},
		},
	})

	duplicate := models.BudgetCategory{
		BudgetID: budget.ID,
		Category: types.CategoryFood,
		Amount:   decimal.NewFromInt(50),
	}

	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryAllocationNotUnique)
}

func (suite *TestSuiteStandard) TestBudgetCategoryAddedLaterChecksTotal() {
	budget := suite.createTestBudget(models.Budget{
		Name:        "Late allocation",
		TotalAmount: decimal.NewFromInt(1000),
		Categories: []models.BudgetCategory{
			{Category: types.CategoryFood, Amount: decimal.NewFromInt(900)},
		},
	})

	tooMuch := models.BudgetCategory{
		BudgetID: budget.ID,
		Category: types.CategoryActivities,
		Amount:   decimal.NewFromInt(200),
	}

	err := models.DB.Create(&tooMuch).Error
	suite.Assert().NotNil(err)
	suite.Assert().Contains(err.Error(), "categories")

	fits := models.BudgetCategory{
		BudgetID: budget.ID,
		Category: types.CategoryActivities,
		Amount:   decimal.NewFromInt(100),
	}

	err = models.DB.Create(&fits).Error
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestBudgetUpdateValidatesMergedState() {
	budget := suite.createTestBudget(models.Budget{
		Name:        "Shrinking",
		TotalAmount: decimal.NewFromInt(1000),
		Categories: []models.BudgetCategory{
			{Category: types.CategoryFood, Amount: decimal.NewFromInt(800)},
		},
	})

	// Shrinking the total below the allocations must fail even though the
	// categories are not part of the update payload
	err := models.DB.Model(&budget).Select("TotalAmount").Updates(models.Budget{TotalAmount: decimal.NewFromInt(500)}).Error
	suite.Assert().NotNil(err)
	suite.Assert().Contains(err.Error(), "categories")

	err = models.DB.Model(&budget).Select("TotalAmount").Updates(models.Budget{TotalAmount: decimal.NewFromInt(900)}).Error
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestBudgetDeleteCascades() {
	budget := suite.createTestBudget(models.Budget{
		Name:        "Doomed",
		TotalAmount: decimal.NewFromInt(1000),
		Categories: []models.BudgetCategory{
			{Category: types.CategoryFood, Amount: decimal.NewFromInt(100)},
		},
	})

	expense := suite.createTestExpense(models.Expense{
		BudgetID: budget.ID,
		IsShared: true,
		Shares: []models.ExpenseShare{
			{UserName: "Riley", Percentage: decimal.NewFromInt(100), Amount: decimal.NewFromInt(10)},
		},
	})
	_ = expense

	_ = suite.createTestAlert(models.BudgetAlert{
		BudgetID:  budget.ID,
		Threshold: decimal.NewFromInt(80),
		Message:   "You have spent 80% of your budget",
	})

	err := models.DB.Delete(&budget).Error
	suite.Assert().Nil(err)

	for name, model := range map[string]any{
		"expenses":   &models.Expense{},
		"shares":     &models.ExpenseShare{},
		"alerts":     &models.BudgetAlert{},
		"categories": &models.BudgetCategory{},
	} {
		var count int64
		err = models.DB.Model(model).Count(&count).Error
		suite.Assert().Nil(err)
		suite.Assert().Equal(int64(0), count, "leftover %s after budget deletion", name)
	}
}

func (suite *TestSuiteStandard) TestBudgetExpensesInsertionOrder() {
	budget := suite.createTestBudget(models.Budget{Name: "Ordered"})

	first := suite.createTestExpense(models.Expense{BudgetID: budget.ID, Description: "First"})
	second := suite.createTestExpense(models.Expense{BudgetID: budget.ID, Description: "Second"})

	expenses, err := budget.Expenses(models.DB)
	suite.Require().Nil(err)
	suite.Require().Len(expenses, 2)

	suite.Assert().Equal(first.ID, expenses[0].ID)
	suite.Assert().Equal(second.ID, expenses[1].ID)
}
