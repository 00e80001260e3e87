package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/types"
	wp_uuid "github.com/wanderplan/backend/internal/uuid"
)

// AlertEditable represents all user configurable parameters
type AlertEditable struct {
	BudgetID  uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`    // ID of the budget the alert belongs to
	Type      types.AlertType `json:"type" example:"threshold"`                                   // Kind of the alert
	Threshold decimal.Decimal `json:"threshold" example:"80" minimum:"0"`                         // Percentage of the budget total the alert fired at
	Category  types.Category  `json:"category,omitempty" example:"food"`                          // Only set for category alerts
	Message   string          `json:"message" example:"You have spent 80% of your budget"`        // Human readable alert text
	Read      bool            `json:"read" example:"false" default:"false"`                       // Has the alert been read?
}

// model returns the database resource for the API representation of the editable fields
func (editable AlertEditable) model() models.BudgetAlert {
	return models.BudgetAlert{
		BudgetID:  editable.BudgetID,
		Type:      editable.Type,
		Threshold: editable.Threshold,
		Category:  editable.Category,
		Message:   editable.Message,
		Read:      editable.Read,
	}
}

type AlertLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/alerts/df63625c-9e30-40cb-bpl9-6ca4d94f1c4f"`     // The alert itself
	Budget string `json:"budget" example:"https://example.com/api/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // The budget the alert was raised for
}

// Alert is the representation of a BudgetAlert in API v1.
type Alert struct {
	models.DefaultModel
	AlertEditable
	Links AlertLinks `json:"links"`
}

// newAlert returns the API v1 representation of the resource
func newAlert(c *gin.Context, model models.BudgetAlert) Alert {
	url := c.GetString(string(models.DBContextURL))

	return Alert{
		DefaultModel: model.DefaultModel,
		AlertEditable: AlertEditable{
			BudgetID:  model.BudgetID,
			Type:      model.Type,
			Threshold: model.Threshold,
			Category:  model.Category,
			Message:   model.Message,
			Read:      model.Read,
		},
		Links: AlertLinks{
			Self:   fmt.Sprintf("%s/v1/alerts/%s", url, model.ID),
			Budget: fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
		},
	}
}

type AlertListResponse struct {
	Data       []Alert     `json:"data"`                                                          // List of alerts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AlertCreateResponse struct {
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AlertResponse `json:"data"`                                                          // List of created alerts
}

func (a *AlertCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AlertResponse{Error: &s, FieldErrors: fieldErrorsOf(err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AlertResponse struct {
	Data        *Alert              `json:"data"`                                                          // Data for the alert
	Error       *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	FieldErrors []models.FieldError `json:"fieldErrors,omitempty"`                                         // Validation failures by field, for mapping onto forms
}

type AlertQueryFilter struct {
	BudgetID wp_uuid.UUID `form:"budget"`                     // By ID of the budget
	Type     string       `form:"type"`                       // By alert type
	Read     bool         `form:"read"`                       // Has the alert been read?
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first alert returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of alerts to return. Defaults to 50.
}

func (f AlertQueryFilter) model() models.BudgetAlert {
	return models.BudgetAlert{
		BudgetID: f.BudgetID.UUID,
		Type:     types.AlertType(f.Type),
		Read:     f.Read,
	}
}
