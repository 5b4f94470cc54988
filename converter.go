package brokerage

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Converter converts an amount into a target currency at a given date's
// rate, rounding to the target currency's minor unit. Rate lookup is an
// external collaborator: this package never fetches rates itself.
type Converter interface {
	Convert(on Date, amount Money, target string) (Money, error)
}

// RateTable is an in-memory Converter backed by dated exchange rates. It
// serves tests and offline report generation from pre-fetched rates.
type RateTable struct {
	rates map[string][]ratePoint // keyed by currency pair, e.g. "USDEUR"
}

type ratePoint struct {
	on   Date
	rate decimal.Decimal
}

// NewRateTable creates an empty rate table.
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[string][]ratePoint)}
}

// AddRate records the rate converting one unit of 'from' into 'to' on the
// given date. Rates may be added in any date order.
func (t *RateTable) AddRate(on Date, from, to string, rate decimal.Decimal) {
	pair := from + to
	points := t.rates[pair]
	i := len(points)
	for i > 0 && points[i-1].on.After(on) {
		i--
	}
	points = append(points, ratePoint{})
	copy(points[i+1:], points[i:])
	points[i] = ratePoint{on: on, rate: rate}
	t.rates[pair] = points
}

// rateAsOf returns the latest rate for the pair on or before the date.
func (t *RateTable) rateAsOf(pair string, on Date) (decimal.Decimal, bool) {
	points := t.rates[pair]
	for i := len(points) - 1; i >= 0; i-- {
		if !points[i].on.After(on) {
			return points[i].rate, true
		}
	}
	return decimal.Decimal{}, false
}

// Convert converts the amount into the target currency at the rate in
// effect on the given date, rounded to the target currency's minor unit.
// When the direct pair is unknown the inverse pair is tried.
func (t *RateTable) Convert(on Date, amount Money, target string) (Money, error) {
	from := amount.Currency()
	if from == target {
		return amount, nil
	}

	rate, ok := t.rateAsOf(from+target, on)
	if !ok {
		inverse, okInv := t.rateAsOf(target+from, on)
		if !okInv {
			return Money{}, fmt.Errorf("could not find exchange rate for %s to %s as of %s", from, target, on)
		}
		if inverse.IsZero() {
			return Money{}, fmt.Errorf("inverse exchange rate for %s%s is zero, cannot convert", target, from)
		}
		rate = decimal.NewFromInt(1).Div(inverse)
	}

	return M(amount.Amount().Mul(rate), target).Round(), nil
}

var _ Converter = (*RateTable)(nil)
