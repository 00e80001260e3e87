package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/types"
	"gorm.io/gorm"
)

// Budget is a named spending envelope for a trip.
//
// A budget is the highest level of organization in the engine, expenses and
// alerts reference it directly.
type Budget struct {
	DefaultModel
	Name        string          `json:"name" example:"Summer in Lisbon"`
	Note        string          `json:"note" example:"Two weeks, two people"`
	TripID      *uuid.UUID      `json:"tripId" example:"f3a3f7c0-2d0b-4661-a1ba-fb2c6b4d0000"` // Trip the budget belongs to, if any
	TotalAmount decimal.Decimal `json:"totalAmount" gorm:"type:DECIMAL(20,8)" example:"3000"`
	Currency    string          `json:"currency" example:"EUR"` // ISO 4217 code all summary figures are reported in
	StartDate   *time.Time      `json:"startDate" example:"2024-06-15T00:00:00Z"`
	EndDate     *time.Time      `json:"endDate" example:"2024-06-25T00:00:00Z"`
	Archived    bool            `json:"archived" example:"false" default:"false"`

	Categories []BudgetCategory `json:"categories" gorm:"constraint:OnDelete:CASCADE"` // Per-category allocations, owned by the budget
}

// BudgetCategory is a sub-allocation of a budget for a single spend category.
//
// Spent and remaining amounts are derived values and therefore never stored,
// they are part of the computed summary.
type BudgetCategory struct {
	DefaultModel
	BudgetID   uuid.UUID       `json:"budgetId" gorm:"uniqueIndex:budget_category_kind" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	Category   types.Category  `json:"category" gorm:"uniqueIndex:budget_category_kind" example:"food"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"750"`
	Percentage decimal.Decimal `json:"percentage" gorm:"type:DECIMAL(20,8)" example:"25"` // Share of the budget total, 0-100
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	return nil
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	return b.validate(b.Categories).orNil()
}

// BeforeUpdate validates the record as it will look after the update, not
// just the fields being changed. Cross-field rules (date order, category
// allocations against the total) only hold on the merged state.
func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(Budget)
	if !ok {
		return nil
	}

	merged := *b
	if tx.Statement.Changed("Name") {
		merged.Name = toSave.Name
	}
	if tx.Statement.Changed("Note") {
		merged.Note = toSave.Note
	}
	if tx.Statement.Changed("TotalAmount") {
		merged.TotalAmount = toSave.TotalAmount
	}
	if tx.Statement.Changed("Currency") {
		merged.Currency = toSave.Currency
	}
	if tx.Statement.Changed("StartDate") {
		merged.StartDate = toSave.StartDate
	}
	if tx.Statement.Changed("EndDate") {
		merged.EndDate = toSave.EndDate
	}
	if tx.Statement.Changed("Archived") {
		merged.Archived = toSave.Archived
	}

	categories := b.Categories
	if len(categories) == 0 && b.ID != uuid.Nil {
		_ = tx.Where(&BudgetCategory{BudgetID: b.ID}).Find(&categories).Error
	}

	return merged.validate(categories).orNil()
}

// validate checks all field level and cross-field rules for the budget.
func (b Budget) validate(categories []BudgetCategory) FieldErrors {
	var e FieldErrors

	if strings.TrimSpace(b.Name) == "" {
		e.add("name", "must not be empty")
	}

	if !b.TotalAmount.IsPositive() {
		e.add("totalAmount", "must be a positive number")
	}

	validateCurrencyCode(&e, "currency", b.Currency)

	if b.StartDate != nil && b.EndDate != nil && !b.EndDate.After(*b.StartDate) {
		e.add("endDate", "must be after the start date")
	}

	allocated := decimal.Zero
	for i, category := range categories {
		field := fieldPath("categories", i)

		if !category.Category.Valid() {
			e.add(field+".category", "must be one of the known spend categories")
		}

		if !category.Amount.IsPositive() {
			e.add(field+".amount", "must be a positive number")
		}

		if category.Percentage.IsNegative() || category.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			e.add(field+".percentage", "must be between 0 and 100")
		}

		allocated = allocated.Add(category.Amount)
	}

	if allocated.GreaterThan(b.TotalAmount) {
		e.add("categories", "the category allocations exceed the budget total")
	}

	return e
}

// AfterDelete cascades the deletion to everything the budget owns or that
// references it: category allocations, expenses with their shares, and
// alerts. Expenses and alerts only hold a weak reference, keeping them
// around pointing at a deleted budget would orphan them.
func (b *Budget) AfterDelete(tx *gorm.DB) error {
	err := tx.
		Where("expense_id IN (?)", tx.Model(&Expense{}).Select("id").Where(&Expense{BudgetID: b.ID})).
		Delete(&ExpenseShare{}).Error
	if err != nil {
		return err
	}

	err = tx.Where(&Expense{BudgetID: b.ID}).Delete(&Expense{}).Error
	if err != nil {
		return err
	}

	err = tx.Where(&BudgetAlert{BudgetID: b.ID}).Delete(&BudgetAlert{}).Error
	if err != nil {
		return err
	}

	return tx.Where(&BudgetCategory{BudgetID: b.ID}).Delete(&BudgetCategory{}).Error
}

// BeforeCreate validates the allocation itself and, when the budget already
// exists, that the sum of all allocations stays within the budget total.
// This covers allocations added or replaced after the budget was created.
func (bc *BudgetCategory) BeforeCreate(tx *gorm.DB) error {
	_ = bc.DefaultModel.BeforeCreate(tx)

	var e FieldErrors

	if !bc.Category.Valid() {
		e.add("category", "must be one of the known spend categories")
	}

	if !bc.Amount.IsPositive() {
		e.add("amount", "must be a positive number")
	}

	if bc.Percentage.IsNegative() || bc.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		e.add("percentage", "must be between 0 and 100")
	}

	if err := e.orNil(); err != nil {
		return err
	}

	var budget Budget
	if err := tx.First(&budget, bc.BudgetID).Error; err != nil {
		return err
	}

	var allocated decimal.NullDecimal
	err := tx.
		Model(&BudgetCategory{}).
		Select("SUM(amount)").
		Where(&BudgetCategory{BudgetID: bc.BudgetID}).
		Find(&allocated).Error
	if err != nil {
		return err
	}

	sum := bc.Amount
	if allocated.Valid {
		sum = sum.Add(allocated.Decimal)
	}

	if sum.GreaterThan(budget.TotalAmount) {
		e.add("categories", "the category allocations exceed the budget total")
	}

	return e.orNil()
}

// Expenses returns all expenses recorded against the budget in insertion order.
func (b Budget) Expenses(db *gorm.DB) ([]Expense, error) {
	var expenses []Expense
	err := db.
		Where(&Expense{BudgetID: b.ID}).
		Order("created_at ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

// Alerts returns all alerts raised for the budget, newest first.
func (b Budget) Alerts(db *gorm.DB) ([]BudgetAlert, error) {
	var alerts []BudgetAlert
	err := db.
		Where(&BudgetAlert{BudgetID: b.ID}).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}

	return alerts, nil
}
