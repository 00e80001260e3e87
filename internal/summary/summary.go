// Package summary derives the aggregate spend state of a budget from its
// expenses. All computation is pure: the same budget, expense list, rate
// snapshot and reference time always produce the same result, and nothing
// is cached between calls.
package summary

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"github.com/wanderplan/backend/internal/currency"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/types"
)

// Summary is the derived view of a budget's spend state. It is computed on
// demand and never persisted.
type Summary struct {
	TotalBudget     decimal.Decimal                     `json:"totalBudget" example:"3000"`
	TotalSpent      decimal.Decimal                     `json:"totalSpent" example:"1200"`
	TotalRemaining  decimal.Decimal                     `json:"totalRemaining" example:"1800"` // Negative when the budget is exceeded
	PercentageSpent decimal.Decimal                     `json:"percentageSpent" example:"40"`  // May exceed 100
	SpentByCategory map[types.Category]decimal.Decimal `json:"spentByCategory"`               // Only categories with at least one expense
	DailyAverage    decimal.Decimal                     `json:"dailyAverage" example:"240"`
	DailyLimit      decimal.Decimal                     `json:"dailyLimit" example:"360"`
	DaysRemaining   *int                                `json:"daysRemaining,omitempty" example:"5"` // Unset when the budget has no date window
	ProjectedTotal  decimal.Decimal                     `json:"projectedTotal" example:"2400"`
	OverBudget      bool                                `json:"isOverBudget" example:"false"`
	Warnings        []string                            `json:"warnings,omitempty"` // Currencies that could not be converted
}

var oneHundred = decimal.NewFromInt(100)

// Calculate computes the summary for a budget from its expense list.
//
// Expenses for other budgets are skipped. Amounts are normalized into the
// budget currency with the passed rate snapshot; an expense whose currency
// has no rate is counted at face value and reported in Warnings instead of
// failing the computation.
func Calculate(budget models.Budget, expenses []models.Expense, rates currency.Table, today time.Time) Summary {
	result := Summary{
		TotalBudget:     budget.TotalAmount,
		SpentByCategory: make(map[types.Category]decimal.Decimal),
	}

	missingRates := make(map[string]bool)

	for _, expense := range expenses {
		if expense.BudgetID != budget.ID {
			continue
		}

		amount, err := rates.Convert(expense.Amount, expense.Currency, budget.Currency)
		if errors.Is(err, models.ErrMissingRate) {
			amount = expense.Amount
			missingRates[expense.Currency] = true
		}

		result.TotalSpent = result.TotalSpent.Add(amount)
		result.SpentByCategory[expense.Category] = result.SpentByCategory[expense.Category].Add(amount)
	}

	// Sorted so that identical inputs yield identical output
	missingCodes := maps.Keys(missingRates)
	slices.Sort(missingCodes)
	for _, code := range missingCodes {
		result.Warnings = append(result.Warnings, fmt.Sprintf("no exchange rate for %s, amounts were not converted", code))
	}

	result.TotalRemaining = budget.TotalAmount.Sub(result.TotalSpent)

	if budget.TotalAmount.IsPositive() {
		result.PercentageSpent = result.TotalSpent.Div(budget.TotalAmount).Mul(oneHundred)
	}

	result.OverBudget = result.TotalSpent.GreaterThan(budget.TotalAmount)
	result.ProjectedTotal = result.TotalSpent

	// Daily pacing needs a date window.
	if budget.StartDate == nil || budget.EndDate == nil {
		return result
	}

	totalDays := ceilDays(budget.EndDate.Sub(*budget.StartDate))

	// Time before the window starts counts as zero days passed.
	daysPassed := ceilDays(today.Sub(*budget.StartDate))
	if daysPassed < 0 {
		daysPassed = 0
	}

	daysRemaining := totalDays - daysPassed
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	result.DaysRemaining = &daysRemaining

	if daysPassed > 0 {
		result.DailyAverage = result.TotalSpent.Div(decimal.NewFromInt(int64(daysPassed)))
	}

	if daysRemaining > 0 {
		limit := result.TotalRemaining.Div(decimal.NewFromInt(int64(daysRemaining)))
		if limit.IsNegative() {
			limit = decimal.Zero
		}
		result.DailyLimit = limit
	} else {
		// No pacing constraint without remaining days
		result.DailyLimit = budget.TotalAmount
	}

	result.ProjectedTotal = result.TotalSpent.Add(result.DailyAverage.Mul(decimal.NewFromInt(int64(daysRemaining))))

	return result
}

// ceilDays converts a duration to days, rounding any part of a day up.
func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
