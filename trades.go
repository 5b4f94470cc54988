package brokerage

import (
	"fmt"
	"log"
	"slices"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade.
type TradeSide int

const (
	// BuySide marks a purchase of a security.
	BuySide TradeSide = iota
	// SellSide marks a sale of a security.
	SellSide
)

func (s TradeSide) String() string {
	switch s {
	case BuySide:
		return "buy"
	case SellSide:
		return "sell"
	default:
		return "unknown"
	}
}

// Operation returns the cash-flow operation kind for the trade side.
func (s TradeSide) Operation() OperationKind {
	if s == SellSide {
		return OpSellTrade
	}
	return OpBuyTrade
}

// Trade is a reconciled trade record, ready to enter the statement.
type Trade struct {
	ID         uint64 // broker-assigned deal number, unique within a statement
	Security   string
	Side       TradeSide
	Quantity   Quantity
	Price      Money
	Volume     Money // total settlement volume, always price x quantity
	Commission Money
	Concluded  Date // the date the deal was concluded
	Executed   Date // the settlement date, after correction
}

// RawTrade is a trade record as reported by the broker, before direction
// classification and execution-date reconciliation. Exactly one of
// BuyQuantity or SellQuantity must be populated.
type RawTrade struct {
	ID                 uint64
	Security           string
	Concluded          Date
	Executed           Date
	BuyQuantity        *Quantity
	SellQuantity       *Quantity
	Price              decimal.Decimal
	PriceCurrency      string
	Volume             decimal.Decimal
	AccountingCurrency string
	Commission         decimal.Decimal
	CommissionCurrency string // empty when the broker did not state one
}

// ExecutedTrade is a "planned vs. actual execution" record from the
// statement's executed-trades section.
type ExecutedTrade struct {
	ID       uint64
	PlanDate Date
	FactDate Date
}

// ExecutionCorrections maps trade ids to corrected execution dates. It is
// built once from the executed-trades section and consumed, one lookup per
// trade id, while trades are parsed.
type ExecutionCorrections struct {
	shifted map[uint64]Date
}

// BuildCorrections scans the executed-trades records and collects the trades
// whose actual execution date differs from the planned one. The same trade
// id appearing twice is ambiguous data and fails with a DataError.
func BuildCorrections(executed []ExecutedTrade) (*ExecutionCorrections, error) {
	shifted := make(map[uint64]Date)
	for _, trade := range executed {
		if trade.FactDate == trade.PlanDate {
			continue
		}
		if _, ok := shifted[trade.ID]; ok {
			return nil, &DataError{
				Reason: "duplicated executed-trade record",
				ID:     fmt.Sprint(trade.ID),
			}
		}
		shifted[trade.ID] = trade.FactDate
	}
	return &ExecutionCorrections{shifted: shifted}, nil
}

// Len returns the number of corrections not yet consumed.
func (c *ExecutionCorrections) Len() int { return len(c.shifted) }

// Resolve returns the execution date for the given trade id. If a correction
// exists it is consumed (a second trade with the same id gets the reported
// date) and a warning is logged for operator visibility: the statement
// should ideally be fixed upstream. Otherwise the trade's own reported date
// is returned.
func (c *ExecutionCorrections) Resolve(id uint64, reported Date) Date {
	corrected, ok := c.shifted[id]
	if !ok {
		return reported
	}
	delete(c.shifted, id)
	log.Printf("warning: actual execution date of trade %d differs from the planned one. Fix execution date for this trade.", id)
	return corrected
}

// Unconsumed returns the ids of corrections that no trade record claimed. A
// leftover correction may reference a trade reported in a different,
// unrelated statement section; it is a diagnostic, not an error.
func (c *ExecutionCorrections) Unconsumed() []uint64 {
	ids := make([]uint64, 0, len(c.shifted))
	for id := range c.shifted {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// volumeTolerance absorbs the broker's own rounding of the reported total
// volume. Beyond it, volume != price x quantity indicates a parser bug.
var volumeTolerance = decimal.RequireFromString("0.01")

// Parse classifies and validates the raw trade, resolving its execution
// date against the corrections map.
func (r RawTrade) Parse(corrections *ExecutionCorrections) (Trade, error) {
	id := fmt.Sprint(r.ID)

	// Just don't know which one exactly is.
	if r.PriceCurrency != r.AccountingCurrency {
		return Trade{}, &DataError{
			Reason: fmt.Sprintf("trade currency for %s is not equal to accounting currency which is not supported yet", r.Security),
			ID:     id, Date: r.Concluded,
		}
	}

	if !r.Price.IsPositive() {
		return Trade{}, &DataError{Reason: fmt.Sprintf("invalid price: %s", r.Price), ID: id, Date: r.Concluded}
	}
	if !r.Volume.IsPositive() {
		return Trade{}, &DataError{Reason: fmt.Sprintf("invalid trade volume: %s", r.Volume), ID: id, Date: r.Concluded}
	}
	if r.Commission.IsNegative() {
		return Trade{}, &DataError{Reason: fmt.Sprintf("invalid commission: %s", r.Commission), ID: id, Date: r.Concluded}
	}

	commissionCurrency := r.CommissionCurrency
	if commissionCurrency == "" {
		if !r.Commission.IsZero() {
			return Trade{}, &DataError{Reason: "missing commission currency", ID: id, Date: r.Concluded}
		}
		commissionCurrency = r.PriceCurrency
	}

	var side TradeSide
	var quantity Quantity
	switch {
	case r.BuyQuantity != nil && r.SellQuantity == nil:
		side, quantity = BuySide, *r.BuyQuantity
	case r.BuyQuantity == nil && r.SellQuantity != nil:
		side, quantity = SellSide, *r.SellQuantity
	default:
		return Trade{}, &DataError{
			Reason: "got an unexpected trade: cannot classify it as buy or sell",
			ID:     id, Date: r.Concluded,
		}
	}
	if !quantity.IsPositive() {
		return Trade{}, &DataError{Reason: fmt.Sprintf("invalid quantity: %s", quantity), ID: id, Date: r.Concluded}
	}

	price := M(r.Price, r.PriceCurrency)
	volume := M(r.Volume, r.PriceCurrency)
	if !volume.WithinOf(price.Mul(quantity), volumeTolerance) {
		// Not user-fixable: a reported volume that disagrees with
		// price x quantity means the records were parsed wrong.
		panic(fmt.Sprintf("trade %d: volume %s != price %s x quantity %s", r.ID, volume, price, quantity))
	}

	return Trade{
		ID:         r.ID,
		Security:   r.Security,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		Volume:     volume,
		Commission: M(r.Commission, commissionCurrency),
		Concluded:  r.Concluded,
		Executed:   corrections.Resolve(r.ID, r.Executed),
	}, nil
}

// ParseTrades parses all raw trade records against the corrections map and
// reports leftover corrections as a diagnostic.
func ParseTrades(raws []RawTrade, corrections *ExecutionCorrections) ([]Trade, error) {
	trades := make([]Trade, 0, len(raws))
	for _, raw := range raws {
		trade, err := raw.Parse(corrections)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	if leftover := corrections.Unconsumed(); len(leftover) > 0 {
		log.Printf("execution date corrections for trades %v reference no trade in this section", leftover)
	}
	return trades, nil
}

// CashFlow derives the trade's cash-flow event: the settlement leg carries
// volume plus same-currency commission, a foreign-currency commission
// becomes the sibling leg.
func (t Trade) CashFlow() CashFlowEvent {
	amount := t.Volume
	if t.Side == BuySide {
		amount = amount.Neg()
	}
	commission := t.Commission.Neg()
	if t.Commission.Currency() == t.Volume.Currency() {
		amount = amount.Add(commission)
		commission = M(0, "")
	}
	description := fmt.Sprintf("%s %s x %s %s", t.Side, t.Quantity, t.Security, t.Price)
	return NewTradeCashFlow(t.Executed, t.Side.Operation(), amount, commission, description)
}
