// Package currency converts expense amounts between currencies using a
// snapshot of exchange rates relative to a single base currency.
package currency

import (
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
)

// Table is an immutable snapshot of exchange rates.
//
// Summary computations hold on to one Table for their whole run so that a
// refresh happening mid-calculation cannot skew the result.
type Table struct {
	Base  string // The currency all rates are relative to
	rates map[string]decimal.Decimal
}

// NewTable builds a snapshot from a code to rate mapping.
func NewTable(base string, rates map[string]decimal.Decimal) Table {
	copied := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		copied[code] = rate
	}

	return Table{Base: base, rates: copied}
}

// TableFromRates builds a snapshot from persisted rate records.
func TableFromRates(base string, rates []models.CurrencyRate) Table {
	mapped := make(map[string]decimal.Decimal, len(rates))
	for _, rate := range rates {
		mapped[rate.Code] = rate.Rate
	}

	return Table{Base: base, rates: mapped}
}

// Rate returns the rate for a currency code.
func (t Table) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.rates[code]
	return rate, ok
}

// Convert normalizes an amount from one currency into another.
//
// Both rates are expressed relative to the base currency, so the conversion
// is amount * (rate[to] / rate[from]). When both currencies are the same the
// amount is returned unchanged without any rate lookup.
func (t Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	fromRate, ok := t.Rate(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", models.ErrMissingRate, from)
	}

	toRate, ok := t.Rate(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", models.ErrMissingRate, to)
	}

	return amount.Mul(toRate.Div(fromRate)), nil
}

// current holds the rate snapshot shared by all summary computations. The
// refresher replaces it wholesale, readers always see a complete table.
var current atomic.Pointer[Table]

func init() {
	empty := NewTable("", nil)
	current.Store(&empty)
}

// Current returns the active rate snapshot.
func Current() Table {
	return *current.Load()
}

// SetCurrent replaces the active rate snapshot.
func SetCurrent(table Table) {
	current.Store(&table)
}
