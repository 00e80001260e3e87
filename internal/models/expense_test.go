package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/types"
)

func (suite *TestSuiteStandard) TestExpenseBudgetMustExist() {
	expense := models.Expense{
		BudgetID:    uuid.New(),
		Category:    types.CategoryFood,
		Amount:      decimal.NewFromInt(10),
		Currency:    "EUR",
		Description: "Orphan",
	}

	err := models.DB.Create(&expense).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestExpenseValidation() {
	budget := suite.createTestBudget(models.Budget{Name: "Expense validation"})

	tests := []struct {
		name    string
		expense models.Expense
		field   string
	}{
		{
			"zero amount",
			models.Expense{Category: types.CategoryFood, Currency: "EUR", Description: "Free lunch"},
			"amount",
		},
		{
			"negative amount",
			models.Expense{Category: types.CategoryFood, Amount: decimal.NewFromInt(-5), Currency: "EUR", Description: "Refund"},
			"amount",
		},
		{
			"invalid currency",
			models.Expense{Category: types.CategoryFood, Amount: decimal.NewFromInt(5), Currency: "euros", Description: "Long code"},
			"currency",
		},
		{
			"unknown category",
			models.Expense{Category: "souvenirs", Amount: decimal.NewFromInt(5), Currency: "EUR", Description: "Magnet"},
			"category",
		},
		{
			"empty description",
			models.Expense{Category: types.CategoryFood, Amount: decimal.NewFromInt(5), Currency: "EUR", Description: "   "},
			"description",
		},
		{
			"description too long",
			models.Expense{Category: types.CategoryFood, Amount: decimal.NewFromInt(5), Currency: "EUR", Description: strings.Repeat("a", 201)},
			"description",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			expense := tt.expense
			expense.BudgetID = budget.ID

			err := models.DB.Create(&expense).Error
			if err == nil {
				t.Fatalf("expense was accepted: %#v", expense)
			}

			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not reference field %q", err, tt.field)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseSharePercentagesMustSumTo100() {
	budget := suite.createTestBudget(models.Budget{Name: "Shared"})

	expense := models.Expense{
		BudgetID:    budget.ID,
		Category:    types.CategoryFood,
		Amount:      decimal.NewFromInt(100),
		Currency:    "EUR",
		Description: "Group dinner",
		IsShared:    true,
		Shares: []models.ExpenseShare{
			{UserName: "Riley", Percentage: decimal.NewFromInt(60), Amount: decimal.NewFromInt(60)},
			{UserName: "Alex", Percentage: decimal.NewFromInt(30), Amount: decimal.NewFromInt(30)},
		},
	}

	err := models.DB.Create(&expense).Error
	suite.Assert().NotNil(err)
	suite.Assert().Contains(err.Error(), "shareDetails")

	expense.Shares = []models.ExpenseShare{
		{UserName: "Riley", Percentage: decimal.NewFromInt(60), Amount: decimal.NewFromInt(60)},
		{UserName: "Alex", Percentage: decimal.NewFromInt(40), Amount: decimal.NewFromInt(40)},
	}

	err = models.DB.Create(&expense).Error
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestExpenseShareValidation() {
	budget := suite.createTestBudget(models.Budget{Name: "Share rules"})

	expense := models.Expense{
		BudgetID:    budget.ID,
		Category:    types.CategoryFood,
		Amount:      decimal.NewFromInt(100),
		Currency:    "EUR",
		Description: "Bad split",
		IsShared:    true,
		Shares: []models.ExpenseShare{
			{UserName: "Riley", Percentage: decimal.NewFromInt(120), Amount: decimal.NewFromInt(-10)},
		},
	}

	err := models.DB.Create(&expense).Error
	suite.Require().NotNil(err)

	suite.Assert().Contains(err.Error(), "shareDetails[0].percentage")
	suite.Assert().Contains(err.Error(), "shareDetails[0].amount")
}

func (suite *TestSuiteStandard) TestExpenseDateDefaultsToNow() {
	budget := suite.createTestBudget(models.Budget{Name: "Date default"})

	expense := suite.createTestExpense(models.Expense{BudgetID: budget.ID})

	suite.Assert().False(expense.Date.IsZero())
	suite.Assert().Equal(time.UTC, expense.Date.Location())
}

func (suite *TestSuiteStandard) TestExpenseDateStoredInUTC() {
	budget := suite.createTestBudget(models.Budget{Name: "Date UTC"})

	berlin, err := time.LoadLocation("Europe/Berlin")
	suite.Require().Nil(err)

	expense := suite.createTestExpense(models.Expense{
		BudgetID: budget.ID,
		Date:     time.Date(2024, 6, 17, 20, 0, 0, 0, berlin),
	})

	var reloaded models.Expense
	err = models.DB.First(&reloaded, expense.ID).Error
	suite.Require().Nil(err)

	suite.Assert().Equal(time.UTC, reloaded.Date.Location())
	suite.Assert().True(expense.Date.Equal(reloaded.Date))
}

func (suite *TestSuiteStandard) TestExpenseUpdateValidatesMergedState() {
	budget := suite.createTestBudget(models.Budget{Name: "Expense update"})
	expense := suite.createTestExpense(models.Expense{BudgetID: budget.ID})

	err := models.DB.Model(&expense).Select("Amount").Updates(models.Expense{Amount: decimal.NewFromInt(-10)}).Error
	suite.Assert().NotNil(err)
	suite.Assert().Contains(err.Error(), "amount")

	err = models.DB.Model(&expense).Select("Amount").Updates(models.Expense{Amount: decimal.NewFromInt(25)}).Error
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestExpenseUpdateBudgetMustExist() {
	budget := suite.createTestBudget(models.Budget{Name: "Rebind"})
	expense := suite.createTestExpense(models.Expense{BudgetID: budget.ID})

	err := models.DB.Model(&expense).Select("BudgetID").Updates(models.Expense{BudgetID: uuid.New()}).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestExpenseDeleteRemovesShares() {
	budget := suite.createTestBudget(models.Budget{Name: "Share cleanup"})

	expense := suite.createTestExpense(models.Expense{
		BudgetID: budget.ID,
		IsShared: true,
		Shares: []models.ExpenseShare{
			{UserName: "Riley", Percentage: decimal.NewFromInt(100), Amount: decimal.NewFromInt(10)},
		},
	})

	err := models.DB.Delete(&expense).Error
	suite.Require().Nil(err)

	var count int64
	err = models.DB.Model(&models.ExpenseShare{}).Count(&count).Error
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(0), count)
}
