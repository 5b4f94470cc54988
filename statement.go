package brokerage

import (
	"slices"
	"strings"
)

// NetAssets is a historical snapshot of the account's value on one date.
// Cash holds the per-currency cash balances. Other is the value of the
// non-cash assets (securities), when the statement reports one; nil means
// the statement carries no such valuation for that date, which is distinct
// from a zero valuation.
type NetAssets struct {
	Cash  []Money
	Other *Money
}

// BrokerStatement is the reconciled, in-memory form of one brokerage account
// statement: the period it covers, its itemized cash-flow events in
// chronological order, its netted dividend accruals, its reconciled trades
// and its historical net-asset snapshots.
//
// A statement is assembled once (see DecodeStatement) and owned by a single
// report-generation pass; independent report runs own independent statements.
type BrokerStatement struct {
	Period           Period
	CashFlows        []CashFlowEvent
	DividendAccruals *AccrualLedger
	Trades           []Trade
	HistoricalAssets map[Date]NetAssets
}

// NewBrokerStatement creates an empty statement covering the given period.
func NewBrokerStatement(period Period) *BrokerStatement {
	return &BrokerStatement{
		Period:           period,
		DividendAccruals: NewAccrualLedger(),
		HistoricalAssets: make(map[Date]NetAssets),
	}
}

// sort orders cash-flow events chronologically, keeping the statement's
// relative order for events on the same day.
func (s *BrokerStatement) sort() {
	slices.SortStableFunc(s.CashFlows, func(a, b CashFlowEvent) int {
		return a.Date.Sub(b.Date)
	})
}

// CashBalances returns the per-currency cash balances observed on the given
// date, or nil when the statement has no snapshot for it.
func (s *BrokerStatement) CashBalances(on Date) []Money {
	assets, ok := s.HistoricalAssets[on]
	if !ok {
		return nil
	}
	return assets.Cash
}

// OtherAssets returns the non-cash asset valuation observed on the given
// date. The boolean is false when no snapshot exists for the date or the
// snapshot carries no such valuation.
func (s *BrokerStatement) OtherAssets(on Date) (Money, bool) {
	assets, ok := s.HistoricalAssets[on]
	if !ok || assets.Other == nil {
		return Money{}, false
	}
	return *assets.Other, true
}

// OtherAssetDates returns the dates that do have a non-cash asset valuation,
// sorted, for diagnostics when a period boundary has none.
func (s *BrokerStatement) OtherAssetDates() []Date {
	var dates []Date
	for date, assets := range s.HistoricalAssets {
		if assets.Other != nil {
			dates = append(dates, date)
		}
	}
	slices.SortFunc(dates, Date.Sub)
	return dates
}

// Currencies returns all currencies appearing in the statement's cash flows,
// sorted, each currency once.
func (s *BrokerStatement) Currencies() []string {
	var currencies []string
	seen := make(map[string]bool)
	record := func(cur string) {
		if !seen[cur] {
			seen[cur] = true
			currencies = append(currencies, cur)
		}
	}
	for _, ev := range s.CashFlows {
		record(ev.Amount.Currency())
		if ev.Sibling != nil {
			record(ev.Sibling.Currency())
		}
	}
	slices.SortFunc(currencies, strings.Compare)
	return currencies
}
