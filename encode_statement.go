package brokerage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Record discriminators of the statement JSONL format. Each line is one JSON
// object carrying a "record" field naming its type. The excluded
// format-specific parsers (spreadsheet, XML) produce this intermediate form;
// this decoder only reconciles and assembles.
const (
	recStatement     = "statement"
	recCashFlow      = "cash-flow"
	recDividend      = "dividend"
	recTrade         = "trade"
	recExecutedTrade = "executed-trade"
	recAssets        = "assets"
)

// amountRec is a specialized struct to read an amount in two fields.
type amountRec struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountRec) Money() Money {
	return M(a.Amount, a.Currency)
}

// cashFlowRecord reads a cash-flow line, sibling leg included.
type cashFlowRecord struct {
	Date        Date             `json:"date"`
	Operation   string           `json:"operation"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency"`
	SiblingAmt  *decimal.Decimal `json:"siblingAmount"`
	SiblingCur  string           `json:"siblingCurrency"`
	Description string           `json:"description"`
}

func (r cashFlowRecord) Event() (CashFlowEvent, error) {
	kind, err := ParseOperationKind(r.Operation)
	if err != nil {
		return CashFlowEvent{}, &DataError{Reason: err.Error(), Date: r.Date, Text: r.Description}
	}
	ev := CashFlowEvent{
		Date:        r.Date,
		Kind:        kind,
		Amount:      M(r.Amount, r.Currency),
		Description: r.Description,
	}
	if r.SiblingAmt != nil {
		if r.SiblingCur == "" {
			return CashFlowEvent{}, &DataError{Reason: "sibling amount without currency", Date: r.Date, Text: r.Description}
		}
		sibling := M(*r.SiblingAmt, r.SiblingCur)
		ev.Sibling = &sibling
	}
	if err := ev.Validate(); err != nil {
		return CashFlowEvent{}, err
	}
	return ev, nil
}

// tradeRecord reads a raw trade line.
type tradeRecord struct {
	ID                 uint64          `json:"id"`
	Security           string          `json:"security"`
	Concluded          Date            `json:"concluded"`
	Executed           Date            `json:"executed"`
	BuyQuantity        *Quantity       `json:"buyQuantity"`
	SellQuantity       *Quantity       `json:"sellQuantity"`
	Price              decimal.Decimal `json:"price"`
	PriceCurrency      string          `json:"priceCurrency"`
	Volume             decimal.Decimal `json:"volume"`
	AccountingCurrency string          `json:"accountingCurrency"`
	Commission         decimal.Decimal `json:"commission"`
	CommissionCurrency string          `json:"commissionCurrency"`
}

func (r tradeRecord) Raw() RawTrade {
	accounting := r.AccountingCurrency
	if accounting == "" {
		accounting = r.PriceCurrency
	}
	return RawTrade{
		ID:                 r.ID,
		Security:           r.Security,
		Concluded:          r.Concluded,
		Executed:           r.Executed,
		BuyQuantity:        r.BuyQuantity,
		SellQuantity:       r.SellQuantity,
		Price:              r.Price,
		PriceCurrency:      r.PriceCurrency,
		Volume:             r.Volume,
		AccountingCurrency: accounting,
		Commission:         r.Commission,
		CommissionCurrency: r.CommissionCurrency,
	}
}

// DecodeStatement decodes a broker statement from a stream of JSONL
// records: a leading statement line declaring the covered period, then
// cash-flow, dividend, trade, executed-trade and assets lines in any order.
//
// Decoding performs the full reconciliation: dividend lines are netted into
// the accrual ledger, executed-trade lines build the execution-date
// corrections that trade lines then consume, and every trade contributes its
// cash-flow event. The returned statement has its events in chronological
// order.
func DecodeStatement(r io.Reader) (*BrokerStatement, error) {
	var statement *BrokerStatement
	var raws []RawTrade
	var executed []ExecutedTrade

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		if identifier.Record == recStatement {
			var temp struct {
				First Date `json:"first"`
				Last  Date `json:"last"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			period, err := NewPeriod(temp.First, temp.Last)
			if err != nil {
				return nil, err
			}
			statement = NewBrokerStatement(period)
			continue
		}
		if statement == nil {
			return nil, fmt.Errorf("got a %q record before the statement record", identifier.Record)
		}

		switch identifier.Record {
		case recCashFlow:
			var temp cashFlowRecord
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			ev, err := temp.Event()
			if err != nil {
				return nil, err
			}
			statement.CashFlows = append(statement.CashFlows, ev)

		case recDividend:
			var temp struct {
				Date Date `json:"date"`
				amountRec
				Description string `json:"description"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			issuer, err := ParseDividendDescription(temp.Description)
			if err != nil {
				return nil, err
			}
			amount := temp.Money()
			if err := statement.DividendAccruals.Record(temp.Date, issuer, amount); err != nil {
				return nil, err
			}
			statement.CashFlows = append(statement.CashFlows,
				NewCashFlow(temp.Date, OpDividend, amount, temp.Description))

		case recTrade:
			var temp tradeRecord
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			raws = append(raws, temp.Raw())

		case recExecutedTrade:
			var temp struct {
				ID   uint64 `json:"id"`
				Plan Date   `json:"plan"`
				Fact Date   `json:"fact"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			executed = append(executed, ExecutedTrade{ID: temp.ID, PlanDate: temp.Plan, FactDate: temp.Fact})

		case recAssets:
			var temp struct {
				Date  Date        `json:"date"`
				Cash  []amountRec `json:"cash"`
				Other *amountRec  `json:"other"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			assets := NetAssets{}
			for _, cash := range temp.Cash {
				assets.Cash = append(assets.Cash, cash.Money())
			}
			if temp.Other != nil {
				other := temp.Other.Money()
				assets.Other = &other
			}
			statement.HistoricalAssets[temp.Date] = assets

		default:
			return nil, fmt.Errorf("unknown statement record: %q", identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	if statement == nil {
		return nil, fmt.Errorf("statement record is missing")
	}

	corrections, err := BuildCorrections(executed)
	if err != nil {
		return nil, err
	}
	trades, err := ParseTrades(raws, corrections)
	if err != nil {
		return nil, err
	}
	statement.Trades = trades
	for _, trade := range trades {
		statement.CashFlows = append(statement.CashFlows, trade.CashFlow())
	}

	if negative := statement.DividendAccruals.Negative(); len(negative) > 0 {
		for _, id := range negative {
			log.Printf("warning: dividend reversal for %s on %s exceeds its recorded payments", id.Issuer, id.Date)
		}
	}

	statement.sort()
	return statement, nil
}

// EncodeCashFlow marshals a single cash-flow event and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeCashFlow(w io.Writer, ev CashFlowEvent) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal cash-flow event: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write cash-flow event: %w", err)
	}
	return nil
}
