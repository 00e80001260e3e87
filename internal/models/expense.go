package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/types"
	"gorm.io/gorm"
)

const (
	descriptionMaxLength = 200
)

// Expense is a single recorded spend event against a budget.
//
// Expenses keep their original currency. Conversion into the budget currency
// only happens when a summary is computed.
type Expense struct {
	DefaultModel
	BudgetID      uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	Budget        Budget          `json:"-" gorm:"constraint:OnDelete:CASCADE"` // Deleting a budget deletes its expenses
	TripID        *uuid.UUID      `json:"tripId" example:"f3a3f7c0-2d0b-4661-a1ba-fb2c6b4d0000"`
	Category      types.Category  `json:"category" example:"food"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"42.50"`
	Currency      string          `json:"currency" example:"USD"`
	Date          time.Time       `json:"date" example:"2024-06-17T00:00:00Z"`
	Description   string          `json:"description" example:"Dinner at the harbor"`
	IsShared      bool            `json:"isShared" example:"true" default:"false"`
	Location      string          `json:"location" example:"Lisbon" default:""`
	PaymentMethod string          `json:"paymentMethod" example:"card" default:""`
	AttachmentURL string          `json:"attachmentUrl" example:"https://example.com/receipts/4711.jpg" default:""`

	Shares []ExpenseShare `json:"shares" gorm:"constraint:OnDelete:CASCADE"` // Per-participant split, only used when IsShared is set
}

// ExpenseShare is the part of a shared expense attributed to one participant.
type ExpenseShare struct {
	DefaultModel
	ExpenseID  uuid.UUID       `json:"expenseId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`
	UserID     uuid.UUID       `json:"userId" example:"a2f673c9-9d49-4c96-9f63-77f696d6b2d6"`
	UserName   string          `json:"userName" example:"Riley"`
	Percentage decimal.Decimal `json:"percentage" gorm:"type:DECIMAL(20,8)" example:"50"` // Share of the expense, 0-100
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"21.25"`
	Paid       bool            `json:"paid" example:"false" default:"false"`
}

func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Description = strings.TrimSpace(e.Description)
	e.Location = strings.TrimSpace(e.Location)

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	return nil
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	if err := e.checkIntegrity(tx, *e); err != nil {
		return err
	}

	return e.validate().orNil()
}

// BeforeUpdate re-validates the record as it will look after the update.
// Update payloads treat every field as optional, so the rules have to run
// against the merged state, identical to the create path.
func (e *Expense) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(Expense)
	if !ok {
		return nil
	}

	if tx.Statement.Changed("BudgetID") {
		if err := e.checkIntegrity(tx, toSave); err != nil {
			return err
		}
	}

	merged := *e
	if tx.Statement.Changed("BudgetID") {
		merged.BudgetID = toSave.BudgetID
	}
	if tx.Statement.Changed("TripID") {
		merged.TripID = toSave.TripID
	}
	if tx.Statement.Changed("Category") {
		merged.Category = toSave.Category
	}
	if tx.Statement.Changed("Amount") {
		merged.Amount = toSave.Amount
	}
	if tx.Statement.Changed("Currency") {
		merged.Currency = toSave.Currency
	}
	if tx.Statement.Changed("Date") {
		merged.Date = toSave.Date
	}
	if tx.Statement.Changed("Description") {
		merged.Description = toSave.Description
	}
	if tx.Statement.Changed("IsShared") {
		merged.IsShared = toSave.IsShared
	}
	if len(toSave.Shares) > 0 {
		merged.Shares = toSave.Shares
	}

	return merged.validate().orNil()
}

// AfterDelete removes the shares of the expense. They carry no meaning
// without the expense they split.
func (e *Expense) AfterDelete(tx *gorm.DB) error {
	return tx.Where(&ExpenseShare{ExpenseID: e.ID}).Delete(&ExpenseShare{}).Error
}

// checkIntegrity verifies that the budget the expense references exists.
func (e *Expense) checkIntegrity(tx *gorm.DB, toSave Expense) error {
	return tx.First(&Budget{}, toSave.BudgetID).Error
}

// AfterFind updates the expense date to use UTC as timezone, matching how
// it was stored.
func (e *Expense) AfterFind(_ *gorm.DB) error {
	e.Date = e.Date.In(time.UTC)
	return nil
}

func (e Expense) validate() FieldErrors {
	var fieldErrors FieldErrors

	if !e.Amount.IsPositive() {
		fieldErrors.add("amount", "must be a positive number")
	}

	validateCurrencyCode(&fieldErrors, "currency", e.Currency)

	if !e.Category.Valid() {
		fieldErrors.add("category", "must be one of the known spend categories")
	}

	description := strings.TrimSpace(e.Description)
	if description == "" {
		fieldErrors.add("description", "must not be empty")
	} else if len(description) > descriptionMaxLength {
		fieldErrors.add("description", "must not be longer than 200 characters")
	}

	if e.IsShared && len(e.Shares) > 0 {
		totalPercentage := decimal.Zero

		for i, share := range e.Shares {
			field := fieldPath("shareDetails", i)

			if share.Percentage.IsNegative() || share.Percentage.GreaterThan(decimal.NewFromInt(100)) {
				fieldErrors.add(field+".percentage", "must be between 0 and 100")
			}

			if share.Amount.IsNegative() {
				fieldErrors.add(field+".amount", "must not be negative")
			}

			totalPercentage = totalPercentage.Add(share.Percentage)
		}

		if !totalPercentage.Equal(decimal.NewFromInt(100)) {
			fieldErrors.add("shareDetails", "the share percentages must add up to 100")
		}
	}

	return fieldErrors
}
