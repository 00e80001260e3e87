package v1_test

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	v1 "github.com/wanderplan/backend/internal/controllers/v1"
	"github.com/wanderplan/backend/internal/currency"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/test"
)

func (suite *TestSuiteStandard) TestRatesOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/rates", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("GET", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/rates/refresh", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("POST", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestRatesGetEmpty() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/rates", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.RateListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Empty(response.Data)
}

func (suite *TestSuiteStandard) TestRatesGet() {
	now := time.Now().In(time.UTC)
	rates := []models.CurrencyRate{
		{Code: "USD", Rate: decimal.NewFromFloat(1.09), LastUpdated: now},
		{Code: "GBP", Rate: decimal.NewFromFloat(0.85), LastUpdated: now},
	}
	suite.Require().NoError(models.DB.Create(&rates).Error)

	currency.SetCurrent(currency.NewTable("EUR", nil))

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/rates", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.RateListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal("EUR", response.Base)

	// Sorted by code
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("GBP", response.Data[0].Code)
	suite.Assert().Equal("USD", response.Data[1].Code)
	suite.Assert().True(decimal.NewFromFloat(1.09).Equal(response.Data[1].Rate))
}

func (suite *TestSuiteStandard) TestRatesRefresh() {
	now := time.Now().In(time.UTC)
	rates := []models.CurrencyRate{
		{Code: "EUR", Rate: decimal.NewFromInt(1), LastUpdated: now},
		{Code: "USD", Rate: decimal.NewFromFloat(1.09), LastUpdated: now},
	}
	suite.Require().NoError(models.DB.Create(&rates).Error)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/rates/refresh", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.RateListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("USD", response.Data[1].Code)

	// The refresh reloaded the snapshot from the persisted rates
	converted, err := currency.Current().Convert(decimal.NewFromFloat(1.09), "USD", "EUR")
	suite.Require().NoError(err)
	suite.Assert().True(decimal.NewFromInt(1).Equal(converted), "converted is %s", converted)
}
