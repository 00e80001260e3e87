// Package alert compares a freshly computed budget summary against
// configured thresholds and decides which alerts to raise.
package alert

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/summary"
	"github.com/wanderplan/backend/internal/types"
)

// Config controls when alerts fire.
type Config struct {
	Checkpoints []decimal.Decimal // Threshold alert checkpoints as percentage of the budget total
	DailyStreak int               // Consecutive overrun evaluations before a daily alert fires
}

// DefaultConfig returns the default checkpoints (80/100/120) and a daily
// hysteresis of two evaluations, so a single-day spike stays quiet.
func DefaultConfig() Config {
	return Config{
		Checkpoints: []decimal.Decimal{
			decimal.NewFromInt(80),
			decimal.NewFromInt(100),
			decimal.NewFromInt(120),
		},
		DailyStreak: 2,
	}
}

// Evaluator decides which alerts a summary should raise. It keeps the
// per-budget overrun streaks needed for the daily rule, everything else is
// derived from the inputs of each call.
type Evaluator struct {
	mu      sync.Mutex
	config  Config
	streaks map[uuid.UUID]int
}

// NewEvaluator creates an evaluator with the given configuration.
func NewEvaluator(config Config) *Evaluator {
	if config.DailyStreak < 1 {
		config.DailyStreak = 1
	}

	return &Evaluator{
		config:  config,
		streaks: make(map[uuid.UUID]int),
	}
}

// Evaluate returns the alerts a summary raises that are not already covered
// by an unread alert. The caller is responsible for persisting them; alerts
// are append-only and never deleted here.
func (e *Evaluator) Evaluate(budget models.Budget, s summary.Summary, existing []models.BudgetAlert) []models.BudgetAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var raised []models.BudgetAlert

	// Threshold checkpoints. An unread alert at or above a checkpoint
	// suppresses it so that repeated evaluations do not storm.
	for _, checkpoint := range e.config.Checkpoints {
		if s.PercentageSpent.LessThan(checkpoint) {
			continue
		}

		if hasUnreadThresholdAt(existing, raised, checkpoint) {
			continue
		}

		raised = append(raised, models.BudgetAlert{
			BudgetID:  budget.ID,
			Type:      types.AlertTypeThreshold,
			Threshold: checkpoint,
			Message:   fmt.Sprintf("Spending for %q has reached %s%% of the budget total", budget.Name, checkpoint),
		})
	}

	// Category overspend: spend in a category exceeds its allocation.
	for _, allocation := range budget.Categories {
		spent, ok := s.SpentByCategory[allocation.Category]
		if !ok || !spent.GreaterThan(allocation.Amount) {
			continue
		}

		if hasUnreadCategory(existing, allocation.Category) {
			continue
		}

		raised = append(raised, models.BudgetAlert{
			BudgetID:  budget.ID,
			Type:      types.AlertTypeCategory,
			Threshold: decimal.NewFromInt(100),
			Category:  allocation.Category,
			Message:   fmt.Sprintf("Spending for %s has exceeded its allocation of %s %s", allocation.Category, allocation.Amount, budget.Currency),
		})
	}

	// Daily overrun with hysteresis: a single evaluation above the limit
	// only bumps the streak, the alert fires once the streak is long enough.
	if s.DailyLimit.IsPositive() && s.DailyAverage.GreaterThan(s.DailyLimit) {
		e.streaks[budget.ID]++
	} else {
		delete(e.streaks, budget.ID)
	}

	if e.streaks[budget.ID] >= e.config.DailyStreak && !hasUnread(existing, types.AlertTypeDaily) {
		raised = append(raised, models.BudgetAlert{
			BudgetID:  budget.ID,
			Type:      types.AlertTypeDaily,
			Threshold: decimal.NewFromInt(100),
			Message:   fmt.Sprintf("The daily average of %s %s is above the daily limit of %s %s", s.DailyAverage.Round(2), budget.Currency, s.DailyLimit.Round(2), budget.Currency),
		})
	}

	return raised
}

// Forget drops the overrun streak for a budget, used when the budget is
// deleted.
func (e *Evaluator) Forget(budgetID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.streaks, budgetID)
}

// Reset drops all overrun streaks, used when all data is wiped.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.streaks = make(map[uuid.UUID]int)
}

func hasUnread(alerts []models.BudgetAlert, alertType types.AlertType) bool {
	for _, a := range alerts {
		if !a.Read && a.Type == alertType {
			return true
		}
	}

	return false
}

func hasUnreadThresholdAt(existing, raised []models.BudgetAlert, checkpoint decimal.Decimal) bool {
	for _, alerts := range [][]models.BudgetAlert{existing, raised} {
		for _, a := range alerts {
			if !a.Read && a.Type == types.AlertTypeThreshold && a.Threshold.GreaterThanOrEqual(checkpoint) {
				return true
			}
		}
	}

	return false
}

func hasUnreadCategory(alerts []models.BudgetAlert, category types.Category) bool {
	for _, a := range alerts {
		if !a.Read && a.Type == types.AlertTypeCategory && a.Category == category {
			return true
		}
	}

	return false
}
