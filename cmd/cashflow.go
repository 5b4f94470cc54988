package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/pvaldes/brokerage"
	"github.com/pvaldes/brokerage/renderer"
)

type cashFlowCmd struct {
	year         int
	jurisdiction string
	ratesFile    string
}

func (*cashFlowCmd) Name() string     { return "cash-flow" }
func (*cashFlowCmd) Synopsis() string { return "generate the cash flow report for a statement" }
func (*cashFlowCmd) Usage() string {
	return `cash-flow [-year <year>] [-jurisdiction <currency> [-rates <file>]]

  Summarizes the statement's cash movements per currency: starting balance,
  deposits, withdrawals and ending balance, plus the itemized detail table.
  - year: clamp the report to one calendar year of the statement period.
  - jurisdiction: also cross-check the non-cash assets value, converted to
    this currency (e.g. "USD").
  - rates: JSONL file of dated exchange rates used for that conversion.
`
}

func (c *cashFlowCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Calendar year to report on (default: the whole statement period)")
	f.StringVar(&c.jurisdiction, "jurisdiction", "", "Currency of the other-assets cross-check (disabled when empty)")
	f.StringVar(&c.ratesFile, "rates", "", "Path to a JSONL exchange-rates file")
}

func (c *cashFlowCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	statement, err := DecodeStatementFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading statement: %v\n", err)
		return subcommands.ExitFailure
	}

	period := statement.Period
	if c.year != 0 {
		period, err = statement.Period.Year(c.year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	report := brokerage.NewCashFlowReport(statement, period)
	fmt.Print(renderer.CashFlowMarkdown(report))

	if c.jurisdiction != "" {
		rates, err := DecodeRates(c.ratesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
			return subcommands.ExitFailure
		}
		other, err := brokerage.NewOtherAssetsReport(statement, period, rates, c.jurisdiction)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error valuing other assets: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Print(renderer.OtherAssetsMarkdown(other, period))
	}

	return subcommands.ExitSuccess
}
