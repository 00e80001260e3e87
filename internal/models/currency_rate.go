package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CurrencyRate is the exchange rate of one currency relative to the base
// currency. Rates are refreshed out-of-band by the currency refresher and
// read-only for the rest of the engine.
type CurrencyRate struct {
	Code        string          `json:"code" gorm:"primaryKey" example:"USD"` // ISO 4217 code
	Rate        decimal.Decimal `json:"rate" gorm:"type:DECIMAL(20,8)" example:"1.09"`
	LastUpdated time.Time       `json:"lastUpdated" example:"2024-06-17T14:00:00Z"`
}

func (r *CurrencyRate) BeforeSave(_ *gorm.DB) error {
	var e FieldErrors

	validateCurrencyCode(&e, "code", r.Code)

	if !r.Rate.IsPositive() {
		e.add("rate", "must be a positive number")
	}

	return e.orNil()
}
