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

// ExpenseShareEditable represents one participant's part of a shared expense
type ExpenseShareEditable struct {
	UserID     uuid.UUID       `json:"userId" example:"a2f673c9-9d49-4c96-9f63-77f696d6b2d6"`             // ID of the participant
	UserName   string          `json:"userName" example:"Riley"`                                          // Display name of the participant
	Percentage decimal.Decimal `json:"percentage" example:"50" minimum:"0" maximum:"100"`                 // Share of the expense, 0-100
	Amount     decimal.Decimal `json:"amount" example:"21.25" minimum:"0"`                                // Amount the participant owes
	Paid       bool            `json:"paid" example:"false" default:"false"`                              // Has the participant settled their part?
}

func (editable ExpenseShareEditable) model(expenseID uuid.UUID) models.ExpenseShare {
	return models.ExpenseShare{
		ExpenseID:  expenseID,
		UserID:     editable.UserID,
		UserName:   editable.UserName,
		Percentage: editable.Percentage,
		Amount:     editable.Amount,
		Paid:       editable.Paid,
	}
}

// ExpenseEditable represents all user configurable parameters
type ExpenseEditable struct {
	BudgetID      uuid.UUID              `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the budget the expense is recorded against
	TripID        *uuid.UUID             `json:"tripId" example:"f3a3f7c0-2d0b-4661-a1ba-fb2c6b4d0000"`   // ID of the trip the expense belongs to
	Category      types.Category         `json:"category" example:"food"`                                 // Spend category
	Amount        decimal.Decimal        `json:"amount" example:"42.50" minimum:"0.00000001"`             // Amount in the original currency
	Currency      string                 `json:"currency" example:"USD"`                                  // ISO 4217 currency code the expense was paid in
	Date          time.Time              `json:"date" example:"2024-06-17T00:00:00Z"`                     // When the expense happened. Defaults to the current time.
	Description   string                 `json:"description" example:"Dinner at the harbor"`              // What the expense was for
	IsShared      bool                   `json:"isShared" example:"true" default:"false"`                 // Is the expense split between multiple people?
	ShareDetails  []ExpenseShareEditable `json:"shareDetails"`                                            // Per-participant split, only used when isShared is set
	Location      string                 `json:"location" example:"Lisbon" default:""`                    // Where the expense happened
	PaymentMethod string                 `json:"paymentMethod" example:"card" default:""`                 // How the expense was paid
	AttachmentURL string                 `json:"attachmentUrl" example:"https://example.com/receipts/4711.jpg" default:""` // Link to a receipt or similar
}

// model returns the database resource for the API representation of the editable fields
func (editable ExpenseEditable) model() models.Expense {
	shares := make([]models.ExpenseShare, 0, len(editable.ShareDetails))
	for _, share := range editable.ShareDetails {
		shares = append(shares, share.model(uuid.Nil))
	}

	return models.Expense{
		BudgetID:      editable.BudgetID,
		TripID:        editable.TripID,
		Category:      editable.Category,
		Amount:        editable.Amount,
		Currency:      editable.Currency,
		Date:          editable.Date,
		Description:   editable.Description,
		IsShared:      editable.IsShared,
		Location:      editable.Location,
		PaymentMethod: editable.PaymentMethod,
		AttachmentURL: editable.AttachmentURL,
		Shares:        shares,
	}
}

type ExpenseLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/expenses/d430d7c3-d14c-4712-9336-ee56965a6673"`  // The expense itself
	Budget string `json:"budget" example:"https://example.com/api/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // The budget the expense is recorded against
}

// Expense is the representation of an Expense in API v1.
type Expense struct {
	models.DefaultModel
	ExpenseEditable
	Links ExpenseLinks `json:"links"`
}

// newExpense returns the API v1 representation of the resource
func newExpense(c *gin.Context, model models.Expense) Expense {
	url := c.GetString(string(models.DBContextURL))

	shares := make([]ExpenseShareEditable, 0, len(model.Shares))
	for _, share := range model.Shares {
		shares = append(shares, ExpenseShareEditable{
			UserID:     share.UserID,
			UserName:   share.UserName,
			Percentage: share.Percentage,
			Amount:     share.Amount,
			Paid:       share.Paid,
		})
	}

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			BudgetID:      model.BudgetID,
			TripID:        model.TripID,
			Category:      model.Category,
			Amount:        model.Amount,
			Currency:      model.Currency,
			Date:          model.Date,
			Description:   model.Description,
			IsShared:      model.IsShared,
			ShareDetails:  shares,
			Location:      model.Location,
			PaymentMethod: model.PaymentMethod,
			AttachmentURL: model.AttachmentURL,
		},
		Links: ExpenseLinks{
			Self:   fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
			Budget: fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
		},
	}
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`                                                          // List of expenses
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ExpenseCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ExpenseResponse `json:"data"`                                                          // List of created expenses
}

func (e *ExpenseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, ExpenseResponse{Error: &s, FieldErrors: fieldErrorsOf(err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseResponse struct {
	Data        *Expense            `json:"data"`                                                          // Data for the expense
	Error       *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	FieldErrors []models.FieldError `json:"fieldErrors,omitempty"`                                         // Validation failures by field, for mapping onto forms
}

type ExpenseQueryFilter struct {
	BudgetID      wp_uuid.UUID `form:"budget"`                                   // By ID of the budget
	TripID        wp_uuid.UUID `form:"trip"`                                     // By ID of the trip
	Category      string       `form:"category"`                                 // By spend category
	Currency      string       `form:"currency"`                                 // By currency code
	PaymentMethod string       `form:"paymentMethod"`                            // By payment method
	IsShared      bool         `form:"shared"`                                   // Is the expense shared?
	FromDate      time.Time    `form:"fromDate" filterField:"false"`             // Only expenses on or after this date
	UntilDate     time.Time    `form:"untilDate" filterField:"false"`            // Only expenses on or before this date
	Search        string       `form:"search" filterField:"false"`               // By string in description or location
	Offset        uint         `form:"offset" filterField:"false"`               // The offset of the first expense returned. Defaults to 0.
	Limit         int          `form:"limit" filterField:"false"`                // Maximum number of expenses to return. Defaults to 50.
}

func (f ExpenseQueryFilter) model() models.Expense {
	var tripID *uuid.UUID
	if f.TripID != wp_uuid.Nil {
		tripID = &f.TripID.UUID
	}

	return models.Expense{
		BudgetID:      f.BudgetID.UUID,
		TripID:        tripID,
		Category:      types.Category(f.Category),
		Currency:      f.Currency,
		PaymentMethod: f.PaymentMethod,
		IsShared:      f.IsShared,
	}
}
