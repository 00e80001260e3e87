package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wanderplan/backend/internal/httputil"
	"github.com/wanderplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterAlertRoutes registers the routes for alerts with
// the RouterGroup that is passed.
func RegisterAlertRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAlertList)
		r.GET("", GetAlerts)
		r.POST("", CreateAlerts)
	}

	// Alert with ID
	{
		r.OPTIONS("/:id", OptionsAlertDetail)
		r.GET("/:id", GetAlert)
	}

	// Marking as read is the only mutation, alerts are append-only otherwise
	{
		r.OPTIONS("/:id/read", OptionsAlertRead)
		r.PATCH("/:id/read", MarkAlertRead)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Alerts
// @Success		204
// @Router			/v1/alerts [options]
func OptionsAlertList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Alerts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/alerts/{id} [options]
func OptionsAlertDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BudgetAlert{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Alerts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/alerts/{id}/read [options]
func OptionsAlertRead(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BudgetAlert{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPatch(c)
}

// @Summary		Create alerts
// @Description	Creates new alerts. Most alerts are raised by summary evaluation, this endpoint exists for manual reminders.
// @Tags			Alerts
// @Accept			json
// @Produce		json
// @Success		201		{object}	AlertCreateResponse
// @Failure		400		{object}	AlertCreateResponse
// @Failure		404		{object}	AlertCreateResponse
// @Failure		500		{object}	AlertCreateResponse
// @Param			alerts	body		[]AlertEditable	true	"Alerts"
// @Router			/v1/alerts [post]
func CreateAlerts(c *gin.Context) {
	var alerts []AlertEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &alerts)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AlertCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := AlertCreateResponse{}

	for _, editable := range alerts {
		alert := editable.model()

		err := models.DB.Create(&alert).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newAlert(c, alert)
		r.Data = append(r.Data, AlertResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List alerts
// @Description	Returns a list of alerts
// @Tags			Alerts
// @Produce		json
// @Success		200	{object}	AlertListResponse
// @Failure		500	{object}	AlertListResponse
// @Router			/v1/alerts [get]
// @Param			budget	query	string	false	"Filter by budget ID"
// @Param			type	query	string	false	"Filter by alert type"
// @Param			read	query	bool	false	"Has the alert been read?"
// @Param			offset	query	uint	false	"The offset of the first alert returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of alerts to return. Defaults to 50."
func GetAlerts(c *gin.Context) {
	var filter AlertQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we're filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	var alerts []models.BudgetAlert

	// Newest alerts first
	q := models.DB.
		Order("created_at DESC").
		Where(filter.model(), queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	err := q.Find(&alerts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AlertListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AlertListResponse{
			Error: &e,
		})
		return
	}

	apiResources := make([]Alert, 0)
	for _, alert := range alerts {
		apiResources = append(apiResources, newAlert(c, alert))
	}

	c.JSON(http.StatusOK, AlertListResponse{
		Data: apiResources,
		Pagination: &Pagination{
			Count:  len(apiResources),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get alert
// @Description	Returns a specific alert
// @Tags			Alerts
// @Produce		json
// @Success		200	{object}	AlertResponse
// @Failure		400	{object}	AlertResponse
// @Failure		404	{object}	AlertResponse
// @Failure		500	{object}	AlertResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/alerts/{id} [get]
func GetAlert(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AlertResponse{
			Error: &s,
		})
		return
	}

	var alert models.BudgetAlert
	err = models.DB.First(&alert, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AlertResponse{
			Error: &s,
		})
		return
	}

	apiResource := newAlert(c, alert)
	c.JSON(http.StatusOK, AlertResponse{Data: &apiResource})
}

// @Summary		Mark alert as read
// @Description	Marks an alert as read. Marking an already read alert is a no-op, not an error.
// @Tags			Alerts
// @Produce		json
// @Success		200	{object}	AlertResponse
// @Failure		400	{object}	AlertResponse
// @Failure		404	{object}	AlertResponse
// @Failure		500	{object}	AlertResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/alerts/{id}/read [patch]
func MarkAlertRead(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AlertResponse{
			Error: &s,
		})
		return
	}

	var alert models.BudgetAlert
	err = models.DB.First(&alert, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AlertResponse{
			Error: &s,
		})
		return
	}

	if !alert.Read {
		err = models.DB.Model(&alert).Select("Read").Updates(models.BudgetAlert{Read: true}).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), AlertResponse{
				Error: &s,
			})
			return
		}
	}

	apiResource := newAlert(c, alert)
	c.JSON(http.StatusOK, AlertResponse{Data: &apiResource})
}
