package brokerage

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// DividendID identifies one logical dividend payment event: all records
// sharing a payment date and an issuer symbol are partial lines or reversals
// of the same payment.
type DividendID struct {
	Date   Date   // payment date
	Issuer string // issuer symbol, normalized
}

// DividendAccrual accumulates the net signed amount recognized for one
// dividend identity after all corrections.
type DividendAccrual struct {
	net Money
}

// Amount returns the net accrued amount.
func (a *DividendAccrual) Amount() Money { return a.net }

func (a *DividendAccrual) add(amount Money) {
	a.net = a.net.Add(amount)
}

func (a *DividendAccrual) reverse(amount Money) {
	a.net = a.net.Sub(amount)
}

// AccrualLedger nets dividend payments and reversals per dividend identity.
//
// The ledger is owned by a single report-generation pass; it is not safe for
// concurrent use.
type AccrualLedger struct {
	accruals map[DividendID]*DividendAccrual
}

// NewAccrualLedger creates an empty accrual ledger.
func NewAccrualLedger() *AccrualLedger {
	return &AccrualLedger{accruals: make(map[DividendID]*DividendAccrual)}
}

// Record books a signed, non-zero dividend amount against the identity
// (date, issuer). A positive amount increases the identity's net accrual, a
// negative amount reverses a prior payment by its absolute value.
//
// Broker exports may list a reversal before its original payment line within
// the same document, so no ordering between contributions is required: the
// net result depends only on the multiset of contributions.
func (l *AccrualLedger) Record(date Date, issuer string, amount Money) error {
	if amount.IsZero() {
		return &DataError{Reason: "zero dividend amount", Date: date, ID: issuer}
	}

	id := DividendID{Date: date, Issuer: issuer}
	accrual, ok := l.accruals[id]
	if !ok {
		accrual = &DividendAccrual{net: M(0, amount.Currency())}
		l.accruals[id] = accrual
	}
	if accrual.net.Currency() != amount.Currency() {
		return &DataError{
			Reason: "dividend currency " + amount.Currency() + " differs from previously recorded " + accrual.net.Currency(),
			Date:   date, ID: issuer,
		}
	}

	if amount.IsNegative() {
		accrual.reverse(amount.Neg())
	} else {
		accrual.add(amount)
	}
	return nil
}

// Len returns the number of distinct dividend identities recorded.
func (l *AccrualLedger) Len() int { return len(l.accruals) }

// Accrual returns the net accrued amount for the given identity.
func (l *AccrualLedger) Accrual(id DividendID) (Money, bool) {
	accrual, ok := l.accruals[id]
	if !ok {
		return Money{}, false
	}
	return accrual.net, true
}

// Accruals iterates over all identities and their net amounts, ordered by
// payment date then issuer for stable reporting.
func (l *AccrualLedger) Accruals() iter.Seq2[DividendID, Money] {
	ids := make([]DividendID, 0, len(l.accruals))
	for id := range l.accruals {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b DividendID) int {
		if a.Date.Before(b.Date) {
			return -1
		}
		if a.Date.After(b.Date) {
			return 1
		}
		return strings.Compare(a.Issuer, b.Issuer)
	})
	return func(yield func(DividendID, Money) bool) {
		for _, id := range ids {
			if !yield(id, l.accruals[id].net) {
				return
			}
		}
	}
}

// Negative returns the identities whose net accrual is negative. A negative
// net amount means a reversal was recorded against an identity with no
// sufficient prior accrual, e.g. a correction referencing a payment from an
// earlier, unloaded statement. Callers should surface these as data
// inconsistencies rather than accept a negative-from-zero balance.
func (l *AccrualLedger) Negative() []DividendID {
	var ids []DividendID
	for id, accrual := range l.Accruals() {
		if accrual.IsNegative() {
			ids = append(ids, id)
		}
	}
	return ids
}

// dividendDescriptionRE matches descriptions like
// "BND(US9219378356) Cash Dividend USD 0.193413 per Share (Ordinary Dividend)".
// The issuer symbol may contain a space before a class suffix ("RDS B") and
// may or may not be separated from the ISIN by a space.
var dividendDescriptionRE = regexp.MustCompile(`^([A-Z][A-Z0-9]*(?: [A-Z0-9]+)?) ?\([A-Z]{2}[A-Z0-9]{9}[0-9]\) `)

// ParseDividendDescription extracts the normalized issuer symbol from a
// free-text dividend description. A literal space between a ticker root and
// its class suffix is collapsed into a hyphen, so "RDS B" becomes "RDS-B".
func ParseDividendDescription(description string) (string, error) {
	m := dividendDescriptionRE.FindStringSubmatch(description)
	if m == nil {
		return "", &DataError{Reason: "unexpected dividend description", Text: description}
	}
	return strings.ReplaceAll(m[1], " ", "-"), nil
}
