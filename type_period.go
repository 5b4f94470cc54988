package brokerage

import "fmt"

// Period represents the span of dates covered by a statement or a report,
// both boundaries included.
type Period struct{ first, last Date }

// NewPeriod creates a new period. It fails if 'first' is after 'last'.
func NewPeriod(first, last Date) (Period, error) {
	p := Period{first: first, last: last}
	if first.After(last) {
		return Period{}, fmt.Errorf("invalid period: %s", p.Format())
	}
	return p, nil
}

// First returns the first date of the period.
func (p Period) First() Date { return p.first }

// Last returns the last date of the period.
func (p Period) Last() Date { return p.last }

// PrevDate returns the day before the period starts. Balances "as of period
// start, exclusive of the start date's own events" are observed on that day.
func (p Period) PrevDate() Date { return p.first.Add(-1) }

// NextDate returns the day after the period ends.
func (p Period) NextDate() Date { return p.last.Add(1) }

// Contains returns true if the date falls within the period (boundaries included).
func (p Period) Contains(d Date) bool {
	return !d.Before(p.first) && !d.After(p.last)
}

// Days returns the number of days in the period.
func (p Period) Days() int { return p.last.Sub(p.first) + 1 }

// Format returns a human readable representation of the period.
func (p Period) Format() string {
	return fmt.Sprintf("%s - %s", p.first, p.last)
}

func (p Period) String() string { return p.Format() }

// Year clamps the period to the given calendar year. It fails if the year
// does not intersect the period.
func (p Period) Year(year int) (Period, error) {
	first, last := p.first, p.last
	if y := NewDate(year, 1, 1); y.After(first) {
		first = y
	}
	if y := NewDate(year, 12, 31); y.Before(last) {
		last = y
	}
	if first.After(last) {
		return Period{}, fmt.Errorf("statement period %s does not cover year %d", p.Format(), year)
	}
	return Period{first: first, last: last}, nil
}
