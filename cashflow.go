package brokerage

import (
	"encoding/json"
	"fmt"
)

// OperationKind is a typed string identifying the kind of a cash-flow event.
type OperationKind string

// Operation kinds reported by broker statements.
const (
	OpDeposit         OperationKind = "deposit"
	OpWithdrawal      OperationKind = "withdrawal"
	OpBuyTrade        OperationKind = "buy-trade"
	OpSellTrade       OperationKind = "sell-trade"
	OpDividend        OperationKind = "dividend"
	OpTax             OperationKind = "tax"
	OpFee             OperationKind = "fee"
	OpInterest        OperationKind = "interest"
	OpCorporateAction OperationKind = "corporate-action"
	OpOther           OperationKind = "other"
)

// ParseOperationKind parses a string into an OperationKind.
func ParseOperationKind(s string) (OperationKind, error) {
	switch kind := OperationKind(s); kind {
	case OpDeposit, OpWithdrawal, OpBuyTrade, OpSellTrade, OpDividend,
		OpTax, OpFee, OpInterest, OpCorporateAction, OpOther:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown operation kind %q", s)
	}
}

// CashFlowEvent is a single signed cash movement reported by a statement.
//
// Amount is the primary leg: positive for money entering the account,
// negative for money leaving it. Sibling, when present, is a second leg of
// the same economic event expressed in a different currency (e.g., a
// commission charged in a currency different from the trade settlement
// currency). The two legs are reported side by side, never merged
// arithmetically.
type CashFlowEvent struct {
	Date        Date
	Kind        OperationKind
	Amount      Money
	Sibling     *Money
	Description string
}

// NewCashFlow creates a single-leg cash-flow event.
//
// The constructors build events from amounts the caller has already
// vetted (reconciled trades, recorded dividends); validation of untrusted
// input happens once, at the decode boundary, through Validate.
func NewCashFlow(date Date, kind OperationKind, amount Money, description string) CashFlowEvent {
	return CashFlowEvent{Date: date, Kind: kind, Amount: amount, Description: description}
}

// NewTradeCashFlow creates a buy or sell trade event with an optional
// foreign-currency commission leg. The sibling is dropped when it shares the
// trade's settlement currency: same-currency commissions are part of the
// primary leg by construction.
func NewTradeCashFlow(date Date, kind OperationKind, amount Money, sibling Money, description string) CashFlowEvent {
	ev := CashFlowEvent{Date: date, Kind: kind, Amount: amount, Description: description}
	if !sibling.IsZero() && sibling.Currency() != amount.Currency() {
		ev.Sibling = &sibling
	}
	return ev
}

// Legs returns the number of currency legs this event carries.
func (e CashFlowEvent) Legs() int {
	if e.Sibling != nil {
		return 2
	}
	return 1
}

// Validate checks the event's structural invariants: a zero primary amount is
// not a cash movement, and only trades may carry a sibling leg.
func (e CashFlowEvent) Validate() error {
	if e.Amount.IsZero() {
		return &DataError{Reason: "cash-flow event with zero amount", Date: e.Date, Text: e.Description}
	}
	switch e.Kind {
	case OpBuyTrade, OpSellTrade:
		// sibling leg allowed
	case OpDeposit, OpWithdrawal, OpDividend, OpTax, OpFee, OpInterest, OpCorporateAction, OpOther:
		if e.Sibling != nil {
			return &DataError{
				Reason: fmt.Sprintf("%s event cannot carry a second currency leg", e.Kind),
				Date:   e.Date, Text: e.Description,
			}
		}
	default:
		return &DataError{Reason: fmt.Sprintf("unknown operation kind %q", e.Kind), Date: e.Date}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CashFlowEvent.
func (e CashFlowEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", "cash-flow")
	w.Append("date", e.Date)
	w.Append("operation", e.Kind)
	w.EmbedFrom(e.Amount)
	if e.Sibling != nil {
		w.Append("siblingAmount", e.Sibling.Amount())
		w.Append("siblingCurrency", e.Sibling.Currency())
	}
	w.Optional("description", e.Description)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for CashFlowEvent.
func (e *CashFlowEvent) UnmarshalJSON(data []byte) error {
	var temp cashFlowRecord
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	ev, err := temp.Event()
	if err != nil {
		return err
	}
	*e = ev
	return nil
}
