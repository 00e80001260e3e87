package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/currency"
	"github.com/wanderplan/backend/internal/httputil"
	"github.com/wanderplan/backend/internal/models"
)

// Rate is the representation of a stored exchange rate in API v1.
type Rate struct {
	Code        string          `json:"code" example:"USD"`                        // ISO 4217 currency code
	Rate        decimal.Decimal `json:"rate" example:"0.9"`                        // Units of the code per one unit of the base currency
	LastUpdated time.Time       `json:"lastUpdated" example:"2024-06-17T03:00:00Z"` // When the rate was last refreshed
}

type RateListResponse struct {
	Data  []Rate  `json:"data"`                                           // List of known exchange rates
	Base  string  `json:"base" example:"EUR"`                             // Currency the rates are relative to
	Error *string `json:"error" example:"rates could not be loaded"`      // The error, if any occurred
}

// RegisterRateRoutes registers the routes for exchange rates with
// the RouterGroup that is passed.
func RegisterRateRoutes(r *gin.RouterGroup, refresher *currency.Refresher) {
	r.OPTIONS("", OptionsRateList)
	r.GET("", GetRates)

	r.OPTIONS("/refresh", OptionsRateRefresh)
	r.POST("/refresh", RefreshRates(refresher))
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Rates
// @Success		204
// @Router			/v1/rates [options]
func OptionsRateList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Rates
// @Success		204
// @Router			/v1/rates/refresh [options]
func OptionsRateRefresh(c *gin.Context) {
	c.Header("allow", "POST")
	c.Status(http.StatusNoContent)
}

// @Summary		List exchange rates
// @Description	Returns the stored exchange rate snapshot
// @Tags			Rates
// @Produce		json
// @Success		200	{object}	RateListResponse
// @Failure		500	{object}	RateListResponse
// @Router			/v1/rates [get]
func GetRates(c *gin.Context) {
	var rates []models.CurrencyRate
	err := models.DB.Order("code ASC").Find(&rates).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RateListResponse{
			Error: &s,
		})
		return
	}

	apiResources := make([]Rate, 0, len(rates))
	for _, rate := range rates {
		apiResources = append(apiResources, Rate{
			Code:        rate.Code,
			Rate:        rate.Rate,
			LastUpdated: rate.LastUpdated,
		})
	}

	c.JSON(http.StatusOK, RateListResponse{
		Data: apiResources,
		Base: currency.Current().Base,
	})
}

// @Summary		Refresh exchange rates
// @Description	Fetches the latest exchange rates from the configured source. Rates are also refreshed on a schedule, this endpoint forces it.
// @Tags			Rates
// @Produce		json
// @Success		200	{object}	RateListResponse
// @Failure		500	{object}	RateListResponse
// @Router			/v1/rates/refresh [post]
func RefreshRates(refresher *currency.Refresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := refresher.Refresh(c.Request.Context())
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusInternalServerError, RateListResponse{
				Error: &s,
			})
			return
		}

		GetRates(c)
	}
}
