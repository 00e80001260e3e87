package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wanderplan/backend/internal/models"
	"gorm.io/gorm"
)

// @Summary		Delete everything
// @Description	Permanently deletes all resources. Mainly used to reset the state in end-to-end tests.
// @Tags			v1
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			confirm	query	string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	var params struct {
		Confirm string `form:"confirm"`
	}

	err := c.Bind(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errCleanupConfirmation.Error(),
		})
		return
	}

	// The order is important here since there are foreign keys to consider
	resources := []any{
		&models.ExpenseShare{},
		&models.Expense{},
		&models.BudgetAlert{},
		&models.BudgetCategory{},
		&models.Budget{},
		&models.CurrencyRate{},
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for _, resource := range resources {
			// Use an unscoped delete so that the rows are removed for good,
			// not soft deleted
			err := tx.Unscoped().Where("true").Delete(resource).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	evaluator.Reset()

	c.JSON(http.StatusNoContent, nil)
}
