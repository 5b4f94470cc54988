package brokerage

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// conservationTolerance bounds the absolute error allowed between the
// computed and the observed ending balance of a currency. It absorbs the
// rounding noise of the excluded currency-conversion collaborator; anything
// beyond it is a missing event or a reconciliation bug.
var conservationTolerance = decimal.RequireFromString("0.015")

// CurrencySummary is the conservation-checked cash movement of one currency
// over a report period.
type CurrencySummary struct {
	Currency    string
	Starting    Money // balance as of period start, exclusive of the start date's own events
	Deposits    Money // sum of positive net inflows
	Withdrawals Money // sum of outflows, stored as a positive magnitude
	Ending      Money // balance as of period end, inclusive
}

// check panics unless starting + deposits - withdrawals equals the observed
// ending balance within conservationTolerance. Amounts are first rounded to
// the currency's minor unit, as the statement reports them.
func (s *CurrencySummary) check(observed Money) {
	computed := s.Starting.Round().Add(s.Deposits.Round()).Sub(s.Withdrawals.Round())
	if !computed.WithinOf(observed, conservationTolerance) {
		panic(fmt.Sprintf(
			"%s cash is not conserved: starting %s + deposits %s - withdrawals %s = %s, statement reports %s",
			s.Currency, s.Starting, s.Deposits, s.Withdrawals, computed, observed))
	}
}

// CashFlowReport is the renderable result of one summarization pass: the
// per-currency summaries in sorted currency order plus the itemized events
// for detail tables.
type CashFlowReport struct {
	Period    Period
	Summaries []CurrencySummary
	Details   []CashFlowEvent
}

// Summary returns the summary for the given currency, or nil.
func (r *CashFlowReport) Summary(currency string) *CurrencySummary {
	for i := range r.Summaries {
		if r.Summaries[i].Currency == currency {
			return &r.Summaries[i]
		}
	}
	return nil
}

// Currencies returns the report's currencies in their stable sorted order.
func (r *CashFlowReport) Currencies() []string {
	currencies := make([]string, len(r.Summaries))
	for i, s := range r.Summaries {
		currencies[i] = s.Currency
	}
	return currencies
}

// SummarizeCashFlows aggregates a chronological stream of cash-flow events
// into per-currency summaries over the given period.
//
// The events must already be sorted by date; the summarizer performs a
// single linear pass and does not re-sort. starting holds the per-currency
// balances already known as of the period start; ending holds the
// independently-observed balances as of the period end, used for the
// conservation check. A currency with no observed ending balance gets the
// computed one.
//
// Conservation violations and attribution miscounts panic: they signal a
// missing event or a reconciliation bug, never a recoverable user error.
func SummarizeCashFlows(events []CashFlowEvent, period Period, starting, ending []Money) *CashFlowReport {
	summaries := make(map[string]*CurrencySummary)
	summary := func(currency string) *CurrencySummary {
		s, ok := summaries[currency]
		if !ok {
			s = &CurrencySummary{
				Currency:    currency,
				Starting:    M(0, currency),
				Deposits:    M(0, currency),
				Withdrawals: M(0, currency),
			}
			summaries[currency] = s
		}
		return s
	}
	for _, balance := range starting {
		summary(balance.Currency()).Starting = balance
	}

	details := make([]CashFlowEvent, 0, len(events))
	leg := func(amount Money) {
		s := summary(amount.Currency())
		if amount.IsPositive() {
			s.Deposits = s.Deposits.Add(amount)
		} else {
			s.Withdrawals = s.Withdrawals.Add(amount.Neg())
		}
	}
	for _, ev := range events {
		if !period.Contains(ev.Date) {
			continue
		}
		leg(ev.Amount)
		if ev.Sibling != nil {
			leg(*ev.Sibling)
		}
		details = append(details, ev)
	}

	observed := make(map[string]Money)
	for _, balance := range ending {
		observed[balance.Currency()] = balance
		// An observed balance for a currency with no events still takes
		// part in the conservation check: computed zero vs a nonzero
		// observation is a missing event.
		summary(balance.Currency())
	}

	report := &CashFlowReport{Period: period, Details: details}
	currencies := make([]string, 0, len(summaries))
	for currency := range summaries {
		currencies = append(currencies, currency)
	}
	slices.SortFunc(currencies, strings.Compare)
	for _, currency := range currencies {
		s := summaries[currency]
		if balance, ok := observed[currency]; ok {
			s.check(balance)
			s.Ending = balance
		} else {
			s.Ending = s.Starting.Add(s.Deposits).Sub(s.Withdrawals)
		}
		report.Summaries = append(report.Summaries, *s)
	}

	report.checkAttribution()
	return report
}

// checkAttribution verifies that every detail event is attributable to
// exactly the currency legs it declares: two summaries for a two-leg trade,
// one for everything else.
func (r *CashFlowReport) checkAttribution() {
	for _, ev := range r.Details {
		matched := 0
		for _, s := range r.Summaries {
			if ev.Amount.Currency() == s.Currency {
				matched++
				continue
			}
			if ev.Sibling != nil && ev.Sibling.Currency() == s.Currency {
				matched++
			}
		}
		if matched != ev.Legs() {
			panic(fmt.Sprintf(
				"cash flow on %s (%s) matched %d currency summaries, expected %d",
				ev.Date, ev.Description, matched, ev.Legs()))
		}
	}
}

// NewCashFlowReport summarizes the statement's cash flows over the given
// period, pulling the boundary balances from the statement's historical
// asset snapshots: the starting balances from the day before the period, the
// observed ending balances from its last day.
func NewCashFlowReport(s *BrokerStatement, period Period) *CashFlowReport {
	starting := s.CashBalances(period.PrevDate())
	ending := s.CashBalances(period.Last())
	return SummarizeCashFlows(s.CashFlows, period, starting, ending)
}

// OtherAssetsReport cross-checks the value of the account's non-cash assets
// over a period: boundary valuations from historical snapshots and the
// trading flow between them, converted to a single currency.
//
// Start and End are nil when the valuation is unknown for the boundary date,
// which is distinct from a zero valuation.
type OtherAssetsReport struct {
	Currency    string
	Start       *Money
	End         *Money
	Deposits    Money // converted trade outflows that became assets
	Withdrawals Money // converted trade inflows from asset sales, negative
	// AvailableDates lists the dates that do have a valuation, surfaced
	// when a boundary date has none.
	AvailableDates []Date
}

// Missing reports whether a boundary valuation was unavailable.
func (r *OtherAssetsReport) Missing() bool { return r.Start == nil || r.End == nil }

// NewOtherAssetsReport values the statement's non-cash assets over the
// period. Buy trades move cash into assets (deposits), sell trades move
// assets back into cash (withdrawals); every trade leg is converted to the
// report currency at its own date.
//
// When a snapshot exists for a boundary date it is used directly. A missing
// starting valuation is implicitly zero only when the period starts at the
// very start of the statement's coverage; otherwise the boundary is marked
// unknown and a diagnostic lists the dates that do have snapshots.
func NewOtherAssetsReport(s *BrokerStatement, period Period, converter Converter, jurisdictionCurrency string) (*OtherAssetsReport, error) {
	currency := ""

	var end *Money
	if assets, ok := s.OtherAssets(period.Last()); ok {
		end = &assets
		currency = assets.Currency()
	}

	var start *Money
	if assets, ok := s.OtherAssets(period.PrevDate()); ok {
		start = &assets
		if currency == "" {
			currency = assets.Currency()
		}
	} else if period.First() == s.Period.First() {
		zero := M(0, currency)
		start = &zero
	}

	if currency == "" {
		currency = jurisdictionCurrency
	}

	report := &OtherAssetsReport{
		Currency:    currency,
		Start:       start,
		End:         end,
		Deposits:    M(0, currency),
		Withdrawals: M(0, currency),
	}

	process := func(date Date, amount Money) error {
		// Cash leaving the cash account is value entering the assets.
		converted, err := converter.Convert(date, amount.Neg(), currency)
		if err != nil {
			return err
		}
		if converted.IsPositive() {
			report.Deposits = report.Deposits.Add(converted)
		} else {
			report.Withdrawals = report.Withdrawals.Add(converted)
		}
		return nil
	}

	for _, ev := range s.CashFlows {
		if !period.Contains(ev.Date) {
			continue
		}
		if ev.Kind != OpBuyTrade && ev.Kind != OpSellTrade {
			continue
		}
		if err := process(ev.Date, ev.Amount); err != nil {
			return nil, err
		}
		if ev.Sibling != nil {
			if err := process(ev.Date, *ev.Sibling); err != nil {
				return nil, err
			}
		}
	}

	if report.Missing() {
		report.AvailableDates = s.OtherAssetDates()
		dates := make([]string, len(report.AvailableDates))
		for i, date := range report.AvailableDates {
			dates[i] = date.String()
		}
		log.Printf(
			"warning: the broker statements don't contain net asset value information for the specified period. Available dates: %s.",
			strings.Join(dates, ", "))
	}

	return report, nil
}
