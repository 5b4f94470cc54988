package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/pvaldes/brokerage"
	"github.com/pvaldes/brokerage/renderer"
)

type taxCmd struct {
	profitsFile string
	rate        float64
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "schedule realized profit into tax payment buckets" }
func (*taxCmd) Usage() string {
	return `tax -profits <file> [-rate <percent>]

  Buckets realized profit by tax payment date (March 15 of the year
  following realization) and computes the liability due per bucket.
  - profits: JSONL file of realized profits: {"date","amount","currency"}.
  - rate: flat tax rate in percent applied to positive net profit.
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.profitsFile, "profits", "", "Path to a JSONL realized-profits file (required)")
	f.Float64Var(&c.rate, "rate", 13, "Flat tax rate in percent")
}

func (c *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.profitsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: the -profits flag is required.")
		return subcommands.ExitUsageError
	}

	calculator := brokerage.NewNetTaxCalculator(brokerage.DefaultTaxPaymentDay())
	if err := c.decodeProfits(calculator); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profits: %v\n", err)
		return subcommands.ExitFailure
	}

	rate := decimal.NewFromFloat(c.rate)
	taxes := calculator.Taxes(func(profit brokerage.Money) brokerage.Money {
		if !profit.IsPositive() {
			return brokerage.M(0, profit.Currency())
		}
		liability := profit.Amount().Mul(rate).Div(decimal.NewFromInt(100))
		return brokerage.M(liability, profit.Currency()).Round()
	})

	fmt.Print(renderer.TaxesMarkdown(taxes))
	return subcommands.ExitSuccess
}

func (c *taxCmd) decodeProfits(calculator *brokerage.NetTaxCalculator) error {
	f, err := os.Open(c.profitsFile)
	if err != nil {
		return fmt.Errorf("could not open profits file %q: %w", c.profitsFile, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var temp struct {
			Date     brokerage.Date  `json:"date"`
			Amount   decimal.Decimal `json:"amount"`
			Currency string          `json:"currency"`
		}
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return fmt.Errorf("invalid profit line %q: %w", string(lineBytes), err)
		}
		calculator.AddProfit(temp.Date, brokerage.M(temp.Amount, temp.Currency))
	}
	return scanner.Err()
}
