// Package cmd implements the CLI application to generate reports from
// brokerage account statements.
package cmd

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/pvaldes/brokerage"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&cashFlowCmd{}, "reports")
	c.Register(&taxCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var statementFile = flag.String("statement-file", "statement.jsonl", "Path to the statement file containing broker records (JSONL format)")

// DecodeStatementFile decodes the app's statement file.
func DecodeStatementFile() (*brokerage.BrokerStatement, error) {
	f, err := os.Open(*statementFile)
	if err != nil {
		return nil, fmt.Errorf("could not open statement file %q: %w", *statementFile, err)
	}
	defer f.Close()
	return brokerage.DecodeStatement(f)
}

// DecodeRates reads dated exchange rates from a JSONL file into a rate
// table. An empty path yields an empty table: same-currency conversion
// always works, anything else reports the missing rate.
func DecodeRates(path string) (*brokerage.RateTable, error) {
	rates := brokerage.NewRateTable()
	if path == "" {
		return rates, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open rates file %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var temp struct {
			Date brokerage.Date  `json:"date"`
			From string          `json:"from"`
			To   string          `json:"to"`
			Rate decimal.Decimal `json:"rate"`
		}
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("invalid rate line %q: %w", string(lineBytes), err)
		}
		rates.AddRate(temp.Date, temp.From, temp.To, temp.Rate)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading rates file: %w", err)
	}
	return rates, nil
}
