package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/types"
	wp_uuid "github.com/wanderplan/backend/internal/uuid"
)

// BudgetCategoryEditable represents one user configurable category allocation
type BudgetCategoryEditable struct {
	Category   types.Category  `json:"category" example:"food"`                                                // The spend category the allocation is for
	Amount     decimal.Decimal `json:"amount" example:"750" minimum:"0.00000001" multipleOf:"0.00000001"`      // Amount allocated to the category
	Percentage decimal.Decimal `json:"percentage" example:"25" minimum:"0" maximum:"100" default:"0"`          // Share of the budget total, 0-100
}

func (editable BudgetCategoryEditable) model(budgetID uuid.UUID) models.BudgetCategory {
	return models.BudgetCategory{
		BudgetID:   budgetID,
		Category:   editable.Category,
		Amount:     editable.Amount,
		Percentage: editable.Percentage,
	}
}

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	Name        string                   `json:"name" example:"Summer in Lisbon" default:""`                // Name of the budget
	Note        string                   `json:"note" example:"Two weeks, two people" default:""`           // Notes about the budget
	TripID      *uuid.UUID               `json:"tripId" example:"f3a3f7c0-2d0b-4661-a1ba-fb2c6b4d0000"`     // ID of the trip the budget belongs to
	TotalAmount decimal.Decimal          `json:"totalAmount" example:"3000" minimum:"0.00000001"`           // Total amount of the budget
	Currency    string                   `json:"currency" example:"EUR"`                                    // ISO 4217 currency code
	StartDate   *time.Time               `json:"startDate" example:"2024-06-15T00:00:00Z"`                  // First day of the budget window
	EndDate     *time.Time               `json:"endDate" example:"2024-06-25T00:00:00Z"`                    // Last day of the budget window, must be after the start
	Archived    bool                     `json:"archived" example:"false" default:"false"`                  // Is the budget archived?
	Categories  []BudgetCategoryEditable `json:"categories"`                                                // Category allocations for the budget
}

// model returns the database resource for the API representation of the editable fields
func (editable BudgetEditable) model() models.Budget {
	categories := make([]models.BudgetCategory, 0, len(editable.Categories))
	for _, category := range editable.Categories {
		categories = append(categories, category.model(uuid.Nil))
	}

	return models.Budget{
		Name:        editable.Name,
		Note:        editable.Note,
		TripID:      editable.TripID,
		TotalAmount: editable.TotalAmount,
		Currency:    editable.Currency,
		StartDate:   editable.StartDate,
		EndDate:     editable.EndDate,
		Archived:    editable.Archived,
		Categories:  categories,
	}
}

type BudgetLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`             // The budget itself
	Expenses string `json:"expenses" example:"https://example.com/api/v1/expenses?budget=52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // Expenses for this budget
	Summary  string `json:"summary" example:"https://example.com/api/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce/summary"`  // The computed summary for this budget
	Alerts   string `json:"alerts" example:"https://example.com/api/v1/alerts?budget=52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`     // Alerts for this budget
}

// Budget is the representation of a Budget in API v1.
type Budget struct {
	models.DefaultModel
	BudgetEditable
	Links BudgetLinks `json:"links"`
}

// newBudget returns the API v1 representation of the resource
func newBudget(c *gin.Context, model models.Budget) Budget {
	url := c.GetString(string(models.DBContextURL))

	categories := make([]BudgetCategoryEditable, 0, len(model.Categories))
	for _, category := range model.Categories {
		categories = append(categories, BudgetCategoryEditable{
			Category:   category.Category,
			Amount:     category.Amount,
			Percentage: category.Percentage,
		})
	}

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Name:        model.Name,
			Note:        model.Note,
			TripID:      model.TripID,
			TotalAmount: model.TotalAmount,
			Currency:    model.Currency,
			StartDate:   model.StartDate,
			EndDate:     model.EndDate,
			Archived:    model.Archived,
			Categories:  categories,
		},
		Links: BudgetLinks{
			Self:     fmt.Sprintf("%s/v1/budgets/%s", url, model.ID),
			Expenses: fmt.Sprintf("%s/v1/expenses?budget=%s", url, model.ID),
			Summary:  fmt.Sprintf("%s/v1/budgets/%s/summary", url, model.ID),
			Alerts:   fmt.Sprintf("%s/v1/alerts?budget=%s", url, model.ID),
		},
	}
}

type BudgetListResponse struct {
	Data       []Budget    `json:"data"`                                                          // List of budgets
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type BudgetCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []BudgetResponse `json:"data"`                                                          // List of created budgets
}

func (b *BudgetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetResponse{Error: &s, FieldErrors: fieldErrorsOf(err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetResponse struct {
	Data        *Budget             `json:"data"`                                                          // Data for the budget
	Error       *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	FieldErrors []models.FieldError `json:"fieldErrors,omitempty"`                                         // Validation failures by field, for mapping onto forms
}

type BudgetQueryFilter struct {
	Name     string       `form:"name" filterField:"false"`   // By name
	Note     string       `form:"note" filterField:"false"`   // By note
	Currency string       `form:"currency"`                   // By currency code
	TripID   wp_uuid.UUID `form:"trip"`                       // By ID of the trip
	Archived bool         `form:"archived"`                   // Is the budget archived?
	Search   string       `form:"search" filterField:"false"` // By string in name or note
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first budget returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of budgets to return. Defaults to 50.
}

func (f BudgetQueryFilter) model() models.Budget {
	var tripID *uuid.UUID
	if f.TripID != wp_uuid.Nil {
		tripID = &f.TripID.UUID
	}

	return models.Budget{
		Currency: f.Currency,
		TripID:   tripID,
		Archived: f.Archived,
	}
}
