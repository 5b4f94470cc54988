package brokerage

import (
	"errors"
	"fmt"
)

// DataError reports malformed or inconsistent statement input that a human
// operator could fix by correcting the source document: unparseable
// descriptions, ambiguous trade direction, missing commission currency,
// duplicate corrections, mismatched currencies within one dividend identity.
//
// A DataError aborts processing of the current statement and is never
// silently skipped. It carries the identifying context of the offending
// record so the operator can locate it. Bugs in the pipeline itself
// (conservation mismatch, duplicate tax-payment year, volume inconsistency)
// are not DataErrors: those panic with full diagnostic context.
type DataError struct {
	Reason string // what is wrong with the record
	Date   Date   // the record's date, when known
	ID     string // the record's broker-assigned identifier, when known
	Text   string // the offending raw text, verbatim, when known
}

func (e *DataError) Error() string {
	msg := e.Reason
	if e.ID != "" {
		msg = fmt.Sprintf("%s (record %s)", msg, e.ID)
	}
	if !e.Date.IsZero() {
		msg = fmt.Sprintf("%s (on %s)", msg, e.Date)
	}
	if e.Text != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Text)
	}
	return msg
}

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
