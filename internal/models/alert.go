package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/types"
	"gorm.io/gorm"
)

const messageMaxLength = 500

// BudgetAlert is a notification raised when spend crosses a configured
// threshold. Alerts are append-only, the only mutation is marking them read.
type BudgetAlert struct {
	DefaultModel
	BudgetID  uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	Budget    Budget          `json:"-" gorm:"constraint:OnDelete:CASCADE"` // Deleting a budget deletes its alerts
	Type      types.AlertType `json:"type" example:"threshold"`
	Threshold decimal.Decimal `json:"threshold" gorm:"type:DECIMAL(20,8)" example:"80"` // Percentage of the budget total, 0-100
	Category  types.Category  `json:"category,omitempty" example:"food"`                // Only set for category alerts
	Message   string          `json:"message" example:"You have spent 80% of your budget"`
	Read      bool            `json:"read" example:"false" default:"false"`
}

func (a *BudgetAlert) BeforeSave(_ *gorm.DB) error {
	a.Message = strings.TrimSpace(a.Message)
	return nil
}

func (a *BudgetAlert) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	if err := tx.First(&Budget{}, a.BudgetID).Error; err != nil {
		return err
	}

	return a.validate().orNil()
}

func (a BudgetAlert) validate() FieldErrors {
	var e FieldErrors

	if !a.Type.Valid() {
		e.add("type", "must be one of threshold, category or daily")
	}

	// No upper bound: spend can exceed the total, so overspend checkpoints
	// beyond 100 (e.g. 120) are legitimate.
	if a.Threshold.IsNegative() {
		e.add("threshold", "must not be negative")
	}

	if len(a.Message) > messageMaxLength {
		e.add("message", "must not be longer than 500 characters")
	}

	return e
}
