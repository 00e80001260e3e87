package models_test

import (
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
)

func (suite *TestSuiteStandard) TestCurrencyRateValidation() {
	err := models.DB.Create(&models.CurrencyRate{Code: "dollars", Rate: decimal.NewFromFloat(1.09)}).Error
	suite.Assert().NotNil(err)
	suite.Assert().Contains(err.Error(), "code")

	err = models.DB.Create(&models.CurrencyRate{Code: "USD"}).Error
	suite.Assert().NotNil(err)
	suite.Assert().Contains(err.Error(), "rate")

	err = models.DB.Create(&models.CurrencyRate{Code: "USD", Rate: decimal.NewFromFloat(1.09)}).Error
	suite.Assert().Nil(err)
}
