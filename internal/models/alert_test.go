package models_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/types"
)

func (suite *TestSuiteStandard) TestAlertBudgetMustExist() {
	alert := models.BudgetAlert{
		BudgetID:  uuid.New(),
		Type:      types.AlertTypeThreshold,
		Threshold: decimal.NewFromInt(80),
	}

	err := models.DB.Create(&alert).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAlertValidation() {
	budget := suite.createTestBudget(models.Budget{Name: "Alert validation"})

	tests := []struct {
		name  string
		alert models.BudgetAlert
		field string
	}{
		{
			"unknown type",
			models.BudgetAlert{Type: "panic"},
			"type",
		},
		{
			"negative threshold",
			models.BudgetAlert{Type: types.AlertTypeThreshold, Threshold: decimal.NewFromInt(-1)},
			"threshold",
		},
		{
			"message too long",
			models.BudgetAlert{Type: types.AlertTypeThreshold, Message: strings.Repeat("a", 501)},
			"message",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			alert := tt.alert
			alert.BudgetID = budget.ID

			err := models.DB.Create(&alert).Error
			if err == nil {
				t.Fatalf("alert was accepted: %#v", alert)
			}

			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not reference field %q", err, tt.field)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAlertThresholdAbove100() {
	budget := suite.createTestBudget(models.Budget{Name: "Overspend alert"})

	// Spend can exceed the budget total, so checkpoints beyond 100 are valid
	_ = suite.createTestAlert(models.BudgetAlert{
		BudgetID:  budget.ID,
		Threshold: decimal.NewFromInt(120),
		Message:   "You have spent 120% of your budget",
	})
}

func (suite *TestSuiteStandard) TestAlertMessageTrimmed() {
	budget := suite.createTestBudget(models.Budget{Name: "Trimmed alert"})

	alert := suite.createTestAlert(models.BudgetAlert{
		BudgetID:  budget.ID,
		Threshold: decimal.NewFromInt(80),
		Message:   "  You have spent 80% of your budget ",
	})

	suite.Assert().Equal("You have spent 80% of your budget", alert.Message)
}
