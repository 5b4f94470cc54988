package brokerage

import (
	"fmt"
	"time"
)

// TaxPaymentDay is the jurisdiction rule computing the date by which tax on
// realized profit is due: a fixed day and month in the year following the
// realization. Jurisdictions where the liability is due on account closure
// are handled by the caller resolving the closure date itself and recording
// through AddProfitOn.
type TaxPaymentDay struct {
	Month time.Month
	Day   int
}

// DefaultTaxPaymentDay returns the default policy: March 15 of the year
// following realization.
func DefaultTaxPaymentDay() TaxPaymentDay {
	return TaxPaymentDay{Month: time.March, Day: 15}
}

// PaymentDate returns the date when tax is going to be paid for income
// realized on the given date.
func (d TaxPaymentDay) PaymentDate(realization Date) Date {
	return NewDate(realization.Year()+1, d.Month, d.Day)
}

// TaxToPay is a jurisdiction-supplied pure function converting accumulated
// profit into the liability due on it.
type TaxToPay func(profit Money) Money

// NetTaxCalculator schedules realized profit into tax-liability buckets, one
// bucket per computed tax-payment date. By construction of TaxPaymentDay the
// buckets land one per calendar year; two buckets in the same payment year
// is a scheduling bug.
//
// The calculator is owned by a single report-generation pass; it is not safe
// for concurrent use.
type NetTaxCalculator struct {
	payday TaxPaymentDay
	profit map[Date]Money
}

// NewNetTaxCalculator creates a calculator using the given payment-day rule.
func NewNetTaxCalculator(payday TaxPaymentDay) *NetTaxCalculator {
	return &NetTaxCalculator{
		payday: payday,
		profit: make(map[Date]Money),
	}
}

// AddProfit accumulates signed realized profit into the bucket of its
// computed tax-payment date, creating the bucket on first use.
func (c *NetTaxCalculator) AddProfit(realization Date, amount Money) {
	c.AddProfitOn(c.payday.PaymentDate(realization), amount)
}

// AddProfitOn accumulates signed realized profit into the bucket of an
// already-resolved payment date. This is the entry point for "on account
// closure" jurisdictions, where the caller supplies the resolved date.
func (c *NetTaxCalculator) AddProfitOn(paymentDate Date, amount Money) {
	bucket, ok := c.profit[paymentDate]
	if !ok {
		bucket = M(0, amount.Currency())
	}
	c.profit[paymentDate] = bucket.Add(amount)
}

// Taxes converts the accumulated per-bucket profit into the liability due
// per payment date. It panics if two buckets resolve to the same payment
// year: the one-bucket-per-year design makes that a structural invariant,
// and a violation indicates a scheduling bug, not bad user data.
func (c *NetTaxCalculator) Taxes(taxToPay TaxToPay) map[Date]Money {
	taxes := make(map[Date]Money, len(c.profit))
	years := make(map[int]Date, len(c.profit))

	for paymentDate, profit := range c.profit {
		if other, ok := years[paymentDate.Year()]; ok {
			panic(fmt.Sprintf(
				"multiple tax payment dates in year %d: %s and %s",
				paymentDate.Year(), other, paymentDate))
		}
		years[paymentDate.Year()] = paymentDate
		taxes[paymentDate] = taxToPay(profit)
	}

	return taxes
}

// Profit returns the accumulated profit of the bucket for the given payment
// date.
func (c *NetTaxCalculator) Profit(paymentDate Date) (Money, bool) {
	profit, ok := c.profit[paymentDate]
	return profit, ok
}
